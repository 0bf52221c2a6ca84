package parser

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, sheets map[string][][]any, order ...string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestXLSXParser_FirstSheet(t *testing.T) {
	buf := buildXLSX(t, map[string][][]any{
		"CV": {
			{"Id", "Parent", "English"},
			{1, "", "Jane Doe"},
			{2, 1, "Experience"},
		},
		"Other": {{"x"}},
	}, "CV", "Other")

	tbl, err := (&XLSXParser{}).Parse(buf, "cv.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Id", "Parent", "English"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "2", tbl.Rows[1].Cells["Id"])
	assert.Equal(t, "1", tbl.Rows[1].Cells["Parent"])
	assert.Equal(t, "Experience", tbl.Rows[1].Cells["English"])
	assert.Equal(t, 3, tbl.Rows[1].Line)
}

func TestXLSXParser_BlankRowsBeforeHeader(t *testing.T) {
	buf := buildXLSX(t, map[string][][]any{"CV": {
		{},
		{"Id", "Parent", "English"},
		{1, "", "Jane Doe"},
	}}, "CV")

	tbl, err := (&XLSXParser{}).Parse(buf, "cv.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Id", "Parent", "English"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "1", tbl.Rows[0].Cells["Id"])
	assert.Equal(t, "Jane Doe", tbl.Rows[0].Cells["English"])
	assert.Equal(t, 3, tbl.Rows[0].Line)
}

func TestXLSXParser_NamedSheet(t *testing.T) {
	buf := buildXLSX(t, map[string][][]any{
		"Notes": {{"ignored"}},
		"Data":  {{"Id", "Parent"}, {"a", ""}},
	}, "Notes", "Data")

	tbl, err := (&XLSXParser{Sheet: "Data"}).Parse(buf, "cv.xlsx")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "a", tbl.Rows[0].Cells["Id"])
}

func TestXLSXParser_MissingSheet(t *testing.T) {
	buf := buildXLSX(t, map[string][][]any{"CV": {{"Id"}}}, "CV")
	_, err := (&XLSXParser{Sheet: "Nope"}).Parse(buf, "cv.xlsx")
	assert.Error(t, err)
}

const odsHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
<office:body><office:spreadsheet>
`

const odsFooter = `</office:spreadsheet></office:body></office:document-content>`

func buildODS(t *testing.T, tables string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("mimetype")
	require.NoError(t, err)
	_, err = w.Write([]byte("application/vnd.oasis.opendocument.spreadsheet"))
	require.NoError(t, err)
	w, err = zw.Create("content.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(odsHeader + tables + odsFooter))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return &buf
}

func TestODSParser_Cells(t *testing.T) {
	buf := buildODS(t, `
<table:table table:name="CV">
  <table:table-row>
    <table:table-cell office:value-type="string"><text:p>Id</text:p></table:table-cell>
    <table:table-cell office:value-type="string"><text:p>Parent</text:p></table:table-cell>
    <table:table-cell office:value-type="string"><text:p>English</text:p></table:table-cell>
  </table:table-row>
  <table:table-row>
    <table:table-cell office:value-type="float" office:value="1"><text:p>1.00</text:p></table:table-cell>
    <table:table-cell/>
    <table:table-cell office:value-type="string"><text:p>Jane<text:s text:c="2"/>Doe</text:p><text:p>Engineer</text:p></table:table-cell>
  </table:table-row>
  <table:table-row table:number-rows-repeated="3">
    <table:table-cell table:number-columns-repeated="1024"/>
  </table:table-row>
  <table:table-row>
    <table:table-cell office:value-type="float" office:value="2"><text:p>2</text:p></table:table-cell>
    <table:table-cell office:value-type="float" office:value="1"><text:p>1</text:p></table:table-cell>
    <table:table-cell office:value-type="string"><office:annotation><text:p>note</text:p></office:annotation><text:p>Experience</text:p></table:table-cell>
  </table:table-row>
  <table:table-row table:number-rows-repeated="1048570">
    <table:table-cell table:number-columns-repeated="1024"/>
  </table:table-row>
</table:table>
<table:table table:name="Other">
  <table:table-row><table:table-cell><text:p>x</text:p></table:table-cell></table:table-row>
</table:table>`)

	tbl, err := (&ODSParser{}).Parse(buf, "cv.ods")
	require.NoError(t, err)

	assert.Equal(t, []string{"Id", "Parent", "English"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, "1", tbl.Rows[0].Cells["Id"])
	assert.Equal(t, "", tbl.Rows[0].Cells["Parent"])
	assert.Equal(t, "Jane  Doe\nEngineer", tbl.Rows[0].Cells["English"])

	assert.Equal(t, "Experience", tbl.Rows[1].Cells["English"])
	assert.Equal(t, 6, tbl.Rows[1].Line)
}

func TestODSParser_BlankRowsBeforeHeader(t *testing.T) {
	buf := buildODS(t, `
<table:table table:name="CV">
  <table:table-row table:number-rows-repeated="2">
    <table:table-cell table:number-columns-repeated="1024"/>
  </table:table-row>
  <table:table-row>
    <table:table-cell><text:p>Id</text:p></table:table-cell>
    <table:table-cell><text:p>Parent</text:p></table:table-cell>
    <table:table-cell><text:p>English</text:p></table:table-cell>
  </table:table-row>
  <table:table-row>
    <table:table-cell><text:p>1</text:p></table:table-cell>
    <table:table-cell/>
    <table:table-cell><text:p>Jane Doe</text:p></table:table-cell>
  </table:table-row>
</table:table>`)

	tbl, err := (&ODSParser{}).Parse(buf, "cv.ods")
	require.NoError(t, err)

	assert.Equal(t, []string{"Id", "Parent", "English"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Jane Doe", tbl.Rows[0].Cells["English"])
	assert.Equal(t, 4, tbl.Rows[0].Line)
}

func TestODSParser_NamedSheet(t *testing.T) {
	buf := buildODS(t, `
<table:table table:name="A"><table:table-row><table:table-cell><text:p>skip</text:p></table:table-cell></table:table-row></table:table>
<table:table table:name="B">
  <table:table-row>
    <table:table-cell><text:p>Id</text:p></table:table-cell>
    <table:table-cell table:number-columns-repeated="2"><text:p>dup</text:p></table:table-cell>
  </table:table-row>
  <table:table-row><table:table-cell><text:p>b1</text:p></table:table-cell></table:table-row>
</table:table>`)

	tbl, err := (&ODSParser{Sheet: "B"}).Parse(buf, "cv.ods")
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "dup", "dup"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "b1", tbl.Rows[0].Cells["Id"])

	_, err = (&ODSParser{Sheet: "C"}).Parse(buildODS(t, ""), "cv.ods")
	assert.ErrorContains(t, err, `sheet "C" not found`)
}

func TestODSParser_NotAZip(t *testing.T) {
	_, err := (&ODSParser{}).Parse(bytes.NewReader([]byte("plain text")), "cv.ods")
	assert.Error(t, err)
}
