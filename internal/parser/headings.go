package parser

import (
	"strconv"

	"github.com/dgallion1/cvoutline/internal/table"
)

// headingRows turns a heading outline into id/parent rows. Each heading
// nests under the nearest shallower heading; body text becomes a leaf under
// the current heading. Ids are assigned sequentially in document order.
type headingRows struct {
	opts  Options
	title string
	rows  []table.Row
	stack []headingEntry
}

type headingEntry struct {
	id    string
	level int
}

func newHeadingRows(title string, opts Options) *headingRows {
	if opts.IDColumn == "" {
		opts.IDColumn = "Id"
	}
	if opts.ParentColumn == "" {
		opts.ParentColumn = "Parent"
	}
	if opts.TextColumn == "" {
		opts.TextColumn = "Text"
	}
	return &headingRows{opts: opts, title: title}
}

func (h *headingRows) heading(level int, text string) {
	for len(h.stack) > 0 && h.stack[len(h.stack)-1].level >= level {
		h.stack = h.stack[:len(h.stack)-1]
	}
	id := h.add(text)
	h.stack = append(h.stack, headingEntry{id: id, level: level})
}

func (h *headingRows) body(text string) {
	h.add(text)
}

func (h *headingRows) add(text string) string {
	id := strconv.Itoa(len(h.rows) + 1)
	parent := h.opts.RootSentinel
	if len(h.stack) > 0 {
		parent = h.stack[len(h.stack)-1].id
	}
	h.rows = append(h.rows, table.Row{
		Line: len(h.rows) + 1,
		Cells: map[string]string{
			h.opts.IDColumn:     id,
			h.opts.ParentColumn: parent,
			h.opts.TextColumn:   text,
		},
	})
	return id
}

func (h *headingRows) table() *table.Table {
	return &table.Table{
		Title:   h.title,
		Columns: []string{h.opts.IDColumn, h.opts.ParentColumn, h.opts.TextColumn},
		Rows:    h.rows,
	}
}
