package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/cvoutline/internal/table"
	"github.com/xuri/excelize/v2"
)

// XLSXParser reads one sheet of an Excel workbook.
type XLSXParser struct {
	Sheet string
}

func (p *XLSXParser) Parse(r io.Reader, filename string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return table.FromRecords(baseTitle(filename), records, 1), nil
}
