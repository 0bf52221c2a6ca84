package table

import "strings"

// Table is the ordered row set read from one tabular source.
type Table struct {
	Title   string   // Source title (from metadata or filename)
	Columns []string // Header names in source order
	Rows    []Row
}

// Row is one source row. A column missing from Cells was absent in the
// source; a present column holding "" is an empty cell.
type Row struct {
	Line  int // 1-based source line/row number (0 if N/A)
	Cells map[string]string
}

// Value returns the cell for column and whether the column was present.
func (r Row) Value(column string) (string, bool) {
	v, ok := r.Cells[column]
	return v, ok
}

// FromRecords builds a Table from a header row followed by data rows, the
// shape every spreadsheet-like reader produces. Header names are trimmed,
// short rows leave trailing columns empty, cells past the header are
// dropped and fully blank rows are skipped. The header is the first
// non-blank record. firstLine is the source line of records[0].
func FromRecords(title string, records [][]string, firstLine int) *Table {
	t := &Table{Title: title}
	for len(records) > 0 && blank(records[0]) {
		records = records[1:]
		firstLine++
	}
	if len(records) == 0 {
		return t
	}
	t.Columns = make([]string, len(records[0]))
	for i, h := range records[0] {
		t.Columns[i] = strings.TrimSpace(h)
	}
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		cells := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			if col == "" {
				continue
			}
			if j < len(rec) {
				cells[col] = rec[j]
			} else {
				cells[col] = ""
			}
		}
		t.Rows = append(t.Rows, Row{Line: firstLine + i + 1, Cells: cells})
	}
	return t
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
