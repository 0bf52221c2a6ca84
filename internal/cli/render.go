package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/cvoutline/internal/parser"
	"github.com/dgallion1/cvoutline/internal/picker"
	"github.com/dgallion1/cvoutline/internal/pipeline"
	"github.com/dgallion1/cvoutline/internal/sink"
	"github.com/dgallion1/cvoutline/internal/style"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var renderOutput string
var renderOutDir string
var renderFormat string
var renderStrict bool

// chooseFile asks for a source interactively. Replaced in tests.
var chooseFile = func() (string, error) {
	return picker.Choose(".", supportedExtensions())
}

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render sources to outline documents",
	Long: `Render one or more sources. With a single source the document goes to --output
(default CV.docx, "-" for stdout). With several, each is written to --out-dir as
<name>.<format>. With no source a file chooser opens.

Issues are reported on stderr. They only fail the command with --strict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sheet, err := settings(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cmd.ErrOrStderr())

		if len(args) == 0 {
			path, err := chooseFile()
			if err != nil {
				return err
			}
			args = []string{path}
		}
		if len(args) > 1 && cmd.Flags().Changed("output") {
			return fmt.Errorf("--output takes a single source; use --out-dir for %d sources", len(args))
		}

		targets := make([]string, len(args))
		for i, src := range args {
			targets[i] = targetPath(src, len(args), cfg.Output)
		}
		if err := checkTargets(args, targets); err != nil {
			return err
		}

		renderer := pipeline.NewRenderer(cfg, sheet, nil)
		reports := renderAll(cmd.Context(), cfg.WorkerCount, args, func(ctx context.Context, i int) report {
			return renderOne(ctx, cmd, renderer, log, args[i], targets[i])
		})

		for _, r := range reports {
			printReport(cmd.ErrOrStderr(), r)
		}
		if len(reports) > 1 {
			printSummary(cmd.ErrOrStderr(), reports)
		}
		return outcome(reports, renderStrict)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", `output file, "-" for stdout (default $OUTPUT or CV.docx)`)
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", ".", "output directory when rendering several sources")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "docx, md or json (default from the output extension)")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "exit non-zero when any issue is reported")

	rootCmd.AddCommand(renderCmd)
}

// targetPath picks where one source is written. An explicit --format
// replaces the extension of the default output name.
func targetPath(src string, sources int, defaultOutput string) string {
	if sources == 1 {
		if renderOutput != "" {
			return renderOutput
		}
		if renderFormat == "" || defaultOutput == "-" {
			return defaultOutput
		}
		return strings.TrimSuffix(defaultOutput, filepath.Ext(defaultOutput)) + formatExt(renderFormat)
	}
	ext := formatExt(outputFormat("", defaultOutput))
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(renderOutDir, name+ext)
}

// formatExt is the file extension written for a format name. Unknown names
// pass through and fail later in the sink lookup.
func formatExt(format string) string {
	if s, err := sink.ForFormat(format, style.Sheet{}); err == nil {
		return s.Ext()
	}
	return "." + strings.TrimPrefix(format, ".")
}

// checkTargets rejects runs where two sources would write the same file.
func checkTargets(sources, targets []string) error {
	seen := make(map[string]string, len(targets))
	for i, target := range targets {
		if target == "-" {
			continue
		}
		key := filepath.Clean(target)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s and %s both write %s; rename one or render them separately", prev, sources[i], target)
		}
		seen[key] = sources[i]
	}
	return nil
}

// outputFormat is the --format flag, else the target's extension, else docx.
func outputFormat(target, defaultOutput string) string {
	if renderFormat != "" {
		return renderFormat
	}
	for _, p := range []string{target, defaultOutput} {
		if ext := strings.TrimPrefix(filepath.Ext(p), "."); ext != "" {
			return ext
		}
	}
	return "docx"
}

// renderAll runs fn for every source with at most limit in flight and
// returns the reports in source order.
func renderAll(ctx context.Context, limit int, sources []string, fn func(ctx context.Context, i int) report) []report {
	reports := make([]report, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range sources {
		g.Go(func() error {
			reports[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

func renderOne(ctx context.Context, cmd *cobra.Command, renderer *pipeline.Renderer, log *slog.Logger, src, target string) report {
	r := report{Source: src, Output: target}
	log = log.With("source", src)

	data, err := os.ReadFile(src)
	if err != nil {
		r.Err = fmt.Errorf("%w: %w", parser.ErrSourceUnreadable, err)
		return r
	}

	log.Debug("rendering", "bytes", len(data), "target", target)
	out, err := renderer.Render(ctx, pipeline.Request{
		Filename: src,
		Data:     data,
		Format:   outputFormat(target, ""),
	})
	r.Result = out.Result
	if err != nil {
		r.Err = err
		return r
	}

	if target == "-" {
		r.Output = "stdout"
		_, err = cmd.OutOrStdout().Write(out.Body)
	} else {
		err = writeFile(target, out.Body)
	}
	if err != nil {
		r.Err = fmt.Errorf("write %s: %w", target, err)
		return r
	}
	log.Debug("rendered", "issues", len(out.Result.Issues), "bytes", len(out.Body))
	return r
}

// writeFile replaces path through a temp file in the same directory.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".cvoutline-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func supportedExtensions() []string {
	exts := make([]string, 0, len(parser.SupportedExtensions))
	for ext := range parser.SupportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
