package outline

import (
	"strings"

	"github.com/dgallion1/cvoutline/internal/table"
)

// ID identifies a record. Spreadsheet cells are strings, so identifiers are
// compared as normalised strings.
type ID string

// Record is one validated source row.
type Record struct {
	ID      ID
	Parent  ID
	Content map[string]string // locale key -> display text
	Extra   map[string]string // remaining columns, carried through untouched
	Line    int
}

// Text returns the display text for locale. Blank cells count as missing.
func (r Record) Text(locale string) (string, bool) {
	t, ok := r.Content[locale]
	if !ok || strings.TrimSpace(t) == "" {
		return "", false
	}
	return t, true
}

// Columns names the source columns the index reads.
type Columns struct {
	ID     string
	Parent string

	// Locales lists the content columns. When empty every column other than
	// ID and Parent is treated as content.
	Locales []string
}

// DefaultColumns matches the CV spreadsheet layout.
var DefaultColumns = Columns{ID: "Id", Parent: "Parent"}

// Index maps identifiers to records and remembers first-seen order.
type Index struct {
	order []ID
	byID  map[ID]Record
}

// Len returns the number of records.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.order)
}

// IDs returns record identifiers in first-seen order.
func (x *Index) IDs() []ID {
	if x == nil {
		return nil
	}
	out := make([]ID, len(x.order))
	copy(out, x.order)
	return out
}

// Get looks up a record.
func (x *Index) Get(id ID) (Record, bool) {
	if x == nil {
		return Record{}, false
	}
	r, ok := x.byID[id]
	return r, ok
}

// Has reports whether id is indexed.
func (x *Index) Has(id ID) bool {
	_, ok := x.Get(id)
	return ok
}

// BuildIndex validates rows and indexes them by identifier. Rows without an
// identifier or parent field are dropped; for repeated identifiers the first
// row wins and every later one is reported and dropped.
func BuildIndex(rows []table.Row, cols Columns) (*Index, []Issue) {
	x := &Index{byID: make(map[ID]Record, len(rows))}
	var issues []Issue

	locales := make(map[string]bool, len(cols.Locales))
	for _, l := range cols.Locales {
		locales[l] = true
	}

	for _, row := range rows {
		rawID, hasID := row.Value(cols.ID)
		rawParent, hasParent := row.Value(cols.Parent)
		id := NormalizeID(rawID)

		switch {
		case !hasID || id == "":
			issues = append(issues, newIssue(KindMissingRequiredField, "", row.Line,
				"row has no %q value", cols.ID))
			continue
		case !hasParent:
			issues = append(issues, newIssue(KindMissingRequiredField, id, row.Line,
				"record %q has no %q field", id, cols.Parent))
			continue
		}

		if first, dup := x.byID[id]; dup {
			issues = append(issues, newIssue(KindDuplicateID, id, row.Line,
				"id %q already defined on line %d; row ignored", id, first.Line))
			continue
		}

		rec := Record{
			ID:      id,
			Parent:  NormalizeID(rawParent),
			Content: make(map[string]string),
			Line:    row.Line,
		}
		for col, v := range row.Cells {
			if col == cols.ID || col == cols.Parent {
				continue
			}
			if len(locales) == 0 || locales[col] {
				rec.Content[col] = v
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = v
		}

		x.order = append(x.order, id)
		x.byID[id] = rec
	}

	return x, issues
}

// NormalizeID trims a cell and folds integral spreadsheet numbers ("3.0")
// to their integer spelling so ids and parent references agree.
func NormalizeID(s string) ID {
	s = strings.TrimSpace(s)
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || whole == "" || frac == "" {
		return ID(s)
	}
	if strings.Trim(frac, "0") != "" || !isInteger(whole) {
		return ID(s)
	}
	return ID(whole)
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
