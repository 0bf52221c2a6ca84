// Package sink turns render instructions into finished documents.
package sink

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/dgallion1/cvoutline/internal/style"
)

// Sink writes an ordered instruction sequence as one document.
type Sink interface {
	Write(w io.Writer, ins []outline.Instruction) error
	ContentType() string
	Ext() string
}

// ForFormat returns the sink for a format name: docx, md or json.
func ForFormat(format string, sheet style.Sheet) (Sink, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "docx", "":
		return &DOCX{Sheet: sheet}, nil
	case "md", "markdown":
		return &Markdown{Sheet: sheet}, nil
	case "json":
		return &JSON{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ForPath picks a sink from the output file extension.
func ForPath(path string, sheet style.Sheet) (Sink, error) {
	return ForFormat(filepath.Ext(path), sheet)
}

// resolve looks up the style for an instruction, falling back to plain
// 12pt text for handles the sheet does not know.
func resolve(sheet style.Sheet, name string) style.Style {
	if st, ok := sheet.ByName(name); ok {
		return st
	}
	return style.Style{Name: name, Size: 12}
}
