package sink

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/dgallion1/cvoutline/internal/parser"
	"github.com/dgallion1/cvoutline/internal/style"
	"github.com/dgallion1/cvoutline/internal/table"
	"github.com/fumiama/go-docx"
	"github.com/google/go-cmp/cmp"
)

func cvInstructions(t *testing.T) []outline.Instruction {
	t.Helper()
	row := func(line int, id, parent, en string) table.Row {
		return table.Row{Line: line, Cells: map[string]string{"Id": id, "Parent": parent, "en": en}}
	}
	res := outline.Build([]table.Row{
		row(2, "1", "", "Jane Doe"),
		row(3, "2", "1", "Experience"),
		row(4, "3", "2", "Acme Corp"),
		row(5, "4", "3", "Engineer"),
		row(6, "5", "4", "Built the billing system"),
	}, outline.Options{
		Columns: outline.DefaultColumns,
		Styles:  style.Default().Table(),
		Locale:  "en",
	})
	if len(res.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
	return res.Instructions
}

func TestDOCX_WritesHeadingOutline(t *testing.T) {
	ins := cvInstructions(t)
	var buf bytes.Buffer
	s := &DOCX{Sheet: style.Default()}
	if err := s.Write(&buf, ins); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := docx.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("parse written docx: %v", err)
	}

	var styles []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		name := ""
		if para.Properties != nil && para.Properties.Style != nil {
			name = para.Properties.Style.Val
		}
		styles = append(styles, name)
	}
	want := []string{"Title", "Heading1", "Heading2", "Heading3", ""}
	if diff := cmp.Diff(want, styles); diff != "" {
		t.Errorf("paragraph styles mismatch (-want +got):\n%s", diff)
	}
}

func TestDOCX_RoundTripThroughParser(t *testing.T) {
	ins := cvInstructions(t)
	var buf bytes.Buffer
	if err := (&DOCX{Sheet: style.Default()}).Write(&buf, ins); err != nil {
		t.Fatalf("write: %v", err)
	}

	p := &parser.DOCXParser{Opts: parser.Options{IDColumn: "Id", ParentColumn: "Parent", TextColumn: "en"}}
	tbl, err := p.Parse(&buf, "cv.docx")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := outline.Build(tbl.Rows, outline.Options{
		Columns: outline.DefaultColumns,
		Styles:  style.Default().Table(),
		Locale:  "en",
	})

	type pair struct {
		Text  string
		Level int
	}
	var got, want []pair
	for _, in := range res.Instructions {
		got = append(got, pair{in.Text, in.Level})
	}
	for _, in := range ins {
		want = append(want, pair{in.Text, in.Level})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadingStyle(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{0, "Title"},
		{1, "Heading1"},
		{9, "Heading9"},
		{15, "Heading9"},
	}
	for _, tc := range tests {
		if got := headingStyle(tc.level); got != tc.want {
			t.Errorf("headingStyle(%d): expected %q, got %q", tc.level, tc.want, got)
		}
	}
}

func TestMarkdown_Write(t *testing.T) {
	ins := []outline.Instruction{
		{Text: "Jane Doe", Level: 0, Style: "Title"},
		{Text: "Experience", Level: 1, Style: "Subtitle"},
		{Text: "Engineer", Level: 4, Style: "Bold"},
		{Text: "Built things", Level: 5, Style: "Plain"},
		{Text: "Unknown style", Level: 6, Style: "Mystery"},
	}
	var buf bytes.Buffer
	if err := (&Markdown{Sheet: style.Default()}).Write(&buf, ins); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "# Jane Doe\n\n## Experience\n\n**Engineer**\n\nBuilt things\n\nUnknown style\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdown_EscapesRecordText(t *testing.T) {
	ins := []outline.Instruction{
		{Text: "C# and *nix", Level: 0, Style: "Title"},
		{Text: "# not a heading", Level: 4, Style: "Plain"},
		{Text: "- not a list\n2024. not numbered", Level: 5, Style: "Plain"},
		{Text: "5 * 3 = 15", Level: 4, Style: "Bold"},
		{Text: "snake_case [link]", Level: 4, Style: "Italic"},
	}
	sheet := style.Default()
	sheet.Levels = append(sheet.Levels, style.Style{Name: "Italic", Size: 12, Italic: true})
	var buf bytes.Buffer
	if err := (&Markdown{Sheet: sheet}).Write(&buf, ins); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "# C# and \\*nix\n\n" +
		"\\# not a heading\n\n" +
		"\\- not a list\n2024\\. not numbered\n\n" +
		"**5 \\* 3 = 15**\n\n" +
		"*snake\\_case \\[link\\]*\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON_Write(t *testing.T) {
	ins := []outline.Instruction{{ID: "1", Text: "CV", Level: 0, Style: "Title"}}
	var buf bytes.Buffer
	if err := (&JSON{}).Write(&buf, ins); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got struct {
		Instructions []outline.Instruction `json:"instructions"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(ins, got.Instructions); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"docx", ".docx"},
		{"", ".docx"},
		{".md", ".md"},
		{"markdown", ".md"},
		{"JSON", ".json"},
	}
	for _, tc := range tests {
		s, err := ForFormat(tc.format, style.Default())
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", tc.format, err)
		}
		if s.Ext() != tc.ext {
			t.Errorf("ForFormat(%q): expected ext %q, got %q", tc.format, tc.ext, s.Ext())
		}
	}
	if _, err := ForFormat("odt", style.Default()); err == nil {
		t.Error("expected error for unsupported format")
	}
	if s, err := ForPath("out/CV.md", style.Default()); err != nil || s.Ext() != ".md" {
		t.Errorf("ForPath: expected markdown sink, got %v, %v", s, err)
	}
}
