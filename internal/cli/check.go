package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/cvoutline/internal/parser"
	"github.com/dgallion1/cvoutline/internal/pipeline"
	"github.com/spf13/cobra"
)

var checkJSON bool
var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check <files...>",
	Short: "Validate sources and list issues without writing documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, sheet, err := settings(cmd)
		if err != nil {
			return err
		}
		renderer := pipeline.NewRenderer(cfg, sheet, nil)

		reports := renderAll(cmd.Context(), cfg.WorkerCount, args, func(_ context.Context, i int) report {
			return checkOne(renderer, args[i])
		})

		if checkJSON {
			for i := range reports {
				if reports[i].Err != nil {
					reports[i].Error = reports[i].Err.Error()
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(reports); err != nil {
				return err
			}
		} else {
			for _, r := range reports {
				printReport(cmd.OutOrStdout(), r)
			}
			if len(reports) > 1 {
				printSummary(cmd.OutOrStdout(), reports)
			}
		}
		return outcome(reports, checkStrict)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print reports as JSON")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero when any issue is reported")

	rootCmd.AddCommand(checkCmd)
}

func checkOne(renderer *pipeline.Renderer, src string) report {
	r := report{Source: src}
	data, err := os.ReadFile(src)
	if err != nil {
		r.Err = fmt.Errorf("%w: %w", parser.ErrSourceUnreadable, err)
		return r
	}
	req := pipeline.Request{Filename: src, Data: data}
	tbl, err := renderer.Parse(req)
	if err != nil {
		r.Err = err
		return r
	}
	r.Result = renderer.Outline(tbl, req)
	return r
}
