// Package cli holds the cvoutline command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/cvoutline/internal/config"
	"github.com/dgallion1/cvoutline/internal/style"
	"github.com/dgallion1/cvoutline/internal/version"
	"github.com/spf13/cobra"
)

var (
	flagConfig       string
	flagIDColumn     string
	flagParentColumn string
	flagRootSentinel string
	flagLocale       string
	flagRoots        []string
	flagMaxDepth     int
	flagStyles       string
	flagSheet        string
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "cvoutline",
	Short: "Render id/parent tables as styled outline documents",
	Long: `cvoutline reads a flat table of records, each naming its parent, and renders
the resulting tree as an outline document. Depth picks the paragraph style, so a
CV kept as a spreadsheet becomes a formatted Word document.

Sources: csv, tsv, xlsx, ods, html, md, yaml, docx.
Outputs: docx, md, json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("cvoutline %s\n", version.String()))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML config file (default $CVOUTLINE_CONFIG)")
	pf.StringVar(&flagIDColumn, "id-column", "", "column holding record ids (default Id)")
	pf.StringVar(&flagParentColumn, "parent-column", "", "column holding parent ids (default Parent)")
	pf.StringVar(&flagRootSentinel, "root-sentinel", "", "parent value that marks a root (default empty)")
	pf.StringVarP(&flagLocale, "locale", "l", "", "content column to render (default English)")
	pf.StringSliceVarP(&flagRoots, "root", "r", nil, "render only from these root ids (repeatable)")
	pf.IntVar(&flagMaxDepth, "max-depth", 0, "deepest level rendered (default 64)")
	pf.StringVar(&flagStyles, "styles", "", "YAML style sheet (default built-in CV styles)")
	pf.StringVar(&flagSheet, "sheet", "", "workbook sheet to read (default first)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log progress to stderr")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

// settings loads configuration from defaults, file and environment, then
// applies the flags the user actually set.
func settings(cmd *cobra.Command) (config.Config, style.Sheet, error) {
	path := os.Getenv("CVOUTLINE_CONFIG")
	if flagConfig != "" {
		path = flagConfig
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return cfg, style.Sheet{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("id-column") {
		cfg.IDColumn = flagIDColumn
	}
	if flags.Changed("parent-column") {
		cfg.ParentColumn = flagParentColumn
	}
	if flags.Changed("root-sentinel") {
		cfg.RootSentinel = flagRootSentinel
	}
	if flags.Changed("locale") {
		cfg.Locale = flagLocale
	}
	if flags.Changed("root") {
		cfg.Roots = flagRoots
	}
	if flags.Changed("max-depth") && flagMaxDepth > 0 {
		cfg.MaxDepth = flagMaxDepth
	}
	if flags.Changed("styles") {
		cfg.StylesPath = flagStyles
	}
	if flags.Changed("sheet") {
		cfg.Sheet = flagSheet
	}
	if err := cfg.Validate(); err != nil {
		return cfg, style.Sheet{}, fmt.Errorf("invalid configuration: %w", err)
	}

	sheet := style.Default()
	if cfg.StylesPath != "" {
		if sheet, err = style.Load(cfg.StylesPath); err != nil {
			return cfg, style.Sheet{}, err
		}
	}
	return cfg, sheet, nil
}

// newLogger returns the CLI logger: text on stderr, quiet unless verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
