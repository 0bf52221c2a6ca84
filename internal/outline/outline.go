// Package outline turns flat id/parent rows into an ordered sequence of
// styled render instructions.
//
// The stages run strictly forward: BuildIndex validates rows and drops
// duplicates, BuildForest groups records under their parents, and Render
// walks the forest depth-first. Every recoverable defect is returned as an
// Issue; nothing in this package performs I/O.
package outline

import "github.com/dgallion1/cvoutline/internal/table"

// Options configures a full Build.
type Options struct {
	Columns      Columns
	RootSentinel ID
	Roots        []ID // declared entry points; empty renders every root in index order
	Styles       StyleTable
	Locale       string
	MaxDepth     int
}

// Result is the outcome of a Build.
type Result struct {
	Instructions []Instruction `json:"instructions"`
	Issues       []Issue       `json:"issues"`
	Roots        []ID          `json:"roots"`
	Records      int           `json:"records"`
}

// Build runs every stage over rows. Issues are ordered by stage, then by
// the order in which each stage met them.
func Build(rows []table.Row, opts Options) Result {
	idx, issues := BuildIndex(rows, opts.Columns)

	forest, roots, forestIssues := BuildForest(idx, opts.RootSentinel)
	issues = append(issues, forestIssues...)

	if len(opts.Roots) > 0 {
		roots = opts.Roots
	}

	instructions, renderIssues := Render(forest, idx, roots, opts.Styles, RenderOptions{
		Locale:   opts.Locale,
		MaxDepth: opts.MaxDepth,
	})
	issues = append(issues, renderIssues...)

	if issues == nil {
		issues = []Issue{}
	}
	if roots == nil {
		roots = []ID{}
	}
	return Result{
		Instructions: instructions,
		Issues:       issues,
		Roots:        roots,
		Records:      idx.Len(),
	}
}
