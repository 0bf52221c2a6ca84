package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/cvoutline/internal/table"
)

// maxBlankRun caps how many blank rows are kept between content rows.
// Spreadsheet apps pad sheets with huge repeated empty ranges.
const maxBlankRun = 4096

// ODSParser reads one sheet of an OpenDocument spreadsheet.
type ODSParser struct {
	Sheet string
}

func (p *ODSParser) Parse(r io.Reader, filename string) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ods: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open ods: %w", err)
	}
	content, err := zr.Open("content.xml")
	if err != nil {
		return nil, fmt.Errorf("open ods content: %w", err)
	}
	defer content.Close()

	records, found, err := readODSSheet(content, p.Sheet)
	if err != nil {
		return nil, err
	}
	if !found {
		if p.Sheet != "" {
			return nil, fmt.Errorf("sheet %q not found", p.Sheet)
		}
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	return table.FromRecords(baseTitle(filename), records, 1), nil
}

// readODSSheet streams content.xml and returns the cell text of the named
// sheet, or the first sheet when name is empty. Repeated cells and rows are
// expanded only when content follows them.
func readODSSheet(r io.Reader, name string) ([][]string, bool, error) {
	dec := xml.NewDecoder(r)

	var (
		records     [][]string
		found       bool
		inTable     bool
		row         []string
		rowRepeat   int
		pendingRows int
		blankCells  int

		inCell     bool
		inPara     bool
		paras      int
		cellRepeat int
		cellValue  string
		cell       strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("parse ods content: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "table":
				if !found && (name == "" || xmlAttr(t, "name") == name) {
					found, inTable = true, true
				}
			case "table-row":
				if inTable {
					row, blankCells = nil, 0
					rowRepeat = repeatCount(xmlAttr(t, "number-rows-repeated"))
				}
			case "table-cell", "covered-table-cell":
				if inTable {
					inCell, paras = true, 0
					cell.Reset()
					cellRepeat = repeatCount(xmlAttr(t, "number-columns-repeated"))
					cellValue = ""
					switch xmlAttr(t, "value-type") {
					case "float", "percentage", "currency":
						cellValue = xmlAttr(t, "value")
					}
				}
			case "annotation":
				if err := dec.Skip(); err != nil {
					return nil, false, fmt.Errorf("parse ods content: %w", err)
				}
			case "p":
				if inCell {
					if paras > 0 {
						cell.WriteByte('\n')
					}
					inPara = true
					paras++
				}
			case "s":
				if inPara {
					cell.WriteString(strings.Repeat(" ", repeatCount(xmlAttr(t, "c"))))
				}
			case "tab":
				if inPara {
					cell.WriteByte('\t')
				}
			case "line-break":
				if inPara {
					cell.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inPara {
				cell.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				inPara = false
			case "table-cell", "covered-table-cell":
				if !inCell {
					continue
				}
				inCell = false
				v := cell.String()
				if cellValue != "" {
					v = cellValue
				}
				if strings.TrimSpace(v) == "" {
					blankCells += cellRepeat
					continue
				}
				for range blankCells {
					row = append(row, "")
				}
				blankCells = 0
				for range cellRepeat {
					row = append(row, v)
				}
			case "table-row":
				if !inTable {
					continue
				}
				if len(row) == 0 {
					pendingRows += rowRepeat
					continue
				}
				for range min(pendingRows, maxBlankRun) {
					records = append(records, nil)
				}
				pendingRows = 0
				for range rowRepeat {
					records = append(records, row)
				}
			case "table":
				inTable = false
			}
		}
	}

	return records, found, nil
}

func xmlAttr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func repeatCount(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
