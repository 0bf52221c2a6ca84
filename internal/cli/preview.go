package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/dgallion1/cvoutline/internal/parser"
	"github.com/dgallion1/cvoutline/internal/pipeline"
	"github.com/spf13/cobra"
)

var previewRaw bool
var previewWidth int

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Show a source as formatted Markdown in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sheet, err := settings(cmd)
		if err != nil {
			return err
		}

		src := ""
		if len(args) == 1 {
			src = args[0]
		} else if src, err = chooseFile(); err != nil {
			return err
		}

		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("%w: %w", parser.ErrSourceUnreadable, err)
		}
		out, err := pipeline.NewRenderer(cfg, sheet, nil).Render(cmd.Context(), pipeline.Request{
			Filename: src,
			Data:     data,
			Format:   "md",
		})
		if err != nil {
			return err
		}

		text := string(out.Body)
		if !previewRaw {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(previewWidth),
			)
			if err != nil {
				return fmt.Errorf("create markdown renderer: %w", err)
			}
			if text, err = renderer.Render(text); err != nil {
				return fmt.Errorf("render markdown: %w", err)
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), text)

		if len(out.Result.Issues) > 0 {
			printReport(cmd.ErrOrStderr(), report{Source: src, Result: out.Result})
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "print plain Markdown without terminal styling")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "word wrap width")

	rootCmd.AddCommand(previewCmd)
}
