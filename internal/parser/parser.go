package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/cvoutline/internal/table"
)

// ErrSourceUnreadable marks a source from which no rows could be obtained.
// It is the only failure that stops a run before the outline engine.
var ErrSourceUnreadable = errors.New("source unreadable")

// Parser converts raw source bytes into a Table.
type Parser interface {
	Parse(r io.Reader, filename string) (*table.Table, error)
}

// Options tells parsers which columns to produce when they synthesise rows
// from a heading outline, and which sheet to read from workbooks.
type Options struct {
	IDColumn     string
	ParentColumn string
	TextColumn   string
	RootSentinel string // parent value written for top-level headings
	Sheet        string // workbook sheet; empty means the first sheet
}

// SupportedExtensions lists file extensions this tool can read.
var SupportedExtensions = map[string]bool{
	".csv":      true,
	".tsv":      true,
	".xlsx":     true,
	".ods":      true,
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".yaml":     true,
	".yml":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return &CSVParser{}, nil
	case ".tsv":
		return &CSVParser{Comma: '\t'}, nil
	case ".xlsx":
		return &XLSXParser{Sheet: opts.Sheet}, nil
	case ".ods":
		return &ODSParser{Sheet: opts.Sheet}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{Opts: opts}, nil
	case ".yaml", ".yml":
		return &YAMLParser{}, nil
	case ".docx":
		return &DOCXParser{Opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Read picks a parser for filename and parses r. Every failure is wrapped in
// ErrSourceUnreadable.
func Read(r io.Reader, filename string, opts Options) (*table.Table, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	t, err := p.Parse(r, filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, filepath.Base(filename), err)
	}
	return t, nil
}

func baseTitle(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
