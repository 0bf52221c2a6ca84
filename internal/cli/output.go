package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/cvoutline/internal/outline"
)

var (
	// titleStyle for bold file headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for issue kinds
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("81")).
			Padding(0, 1)
)

// report is the outcome of one input file.
type report struct {
	Source string         `json:"source"`
	Output string         `json:"output,omitempty"`
	Result outline.Result `json:"result"`
	Err    error          `json:"-"`
	Error  string         `json:"error,omitempty"`
}

func printReport(w io.Writer, r report) {
	fmt.Fprintln(w, titleStyle.Render(r.Source))
	if r.Err != nil {
		fmt.Fprintf(w, "  %s %s\n", errorStyle.Render("✗"), r.Err)
		return
	}
	for _, is := range r.Result.Issues {
		loc := ""
		if is.Line > 0 {
			loc = dimStyle.Render(fmt.Sprintf(" line %d", is.Line))
		}
		fmt.Fprintf(w, "  %s%s %s\n", warnStyle.Render(string(is.Kind)), loc, is.Message)
	}
	status := successStyle.Render("✓")
	if len(r.Result.Issues) > 0 {
		status = warnStyle.Render("!")
	}
	line := fmt.Sprintf("  %s %d records, %d blocks, %d issues",
		status, r.Result.Records, len(r.Result.Instructions), len(r.Result.Issues))
	if r.Output != "" {
		line += dimStyle.Render(" → " + r.Output)
	}
	fmt.Fprintln(w, line)
}

func printSummary(w io.Writer, reports []report) {
	var files, failed, issues int
	kinds := make(map[outline.Kind]int)
	for _, r := range reports {
		files++
		if r.Err != nil {
			failed++
			continue
		}
		issues += len(r.Result.Issues)
		for k, n := range outline.CountByKind(r.Result.Issues) {
			kinds[k] += n
		}
	}

	lines := []string{fmt.Sprintf("%d files, %d failed, %d issues", files, failed, issues)}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	for _, k := range names {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%-22s %d", k, kinds[outline.Kind(k)])))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// outcome turns reports into the command error: any failed source is an
// error, and issues are an error only in strict mode.
func outcome(reports []report, strict bool) error {
	var failed, issues int
	for _, r := range reports {
		if r.Err != nil {
			failed++
		}
		issues += len(r.Result.Issues)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources could not be rendered", failed, len(reports))
	}
	if strict && issues > 0 {
		return fmt.Errorf("%d issues found (strict mode)", issues)
	}
	return nil
}
