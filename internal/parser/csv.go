package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/cvoutline/internal/table"
)

// CSVParser handles comma- or tab-separated files. The first row is the
// header.
type CSVParser struct {
	Comma rune
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if p.Comma != 0 {
		reader.Comma = p.Comma
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(records) > 0 {
		// Spreadsheet exports often lead with a UTF-8 BOM.
		for i, h := range records[0] {
			records[0][i] = strings.TrimPrefix(h, "\ufeff")
		}
	}

	return table.FromRecords(baseTitle(filename), records, 1), nil
}
