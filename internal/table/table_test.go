package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromRecords_ShapesRows(t *testing.T) {
	tbl := FromRecords("cv", [][]string{
		{" Id ", "Parent", "", "Text"},
		{"1", "", "stray", "CV"},
		{"  ", "", ""},
		{"2", "1"},
		{"3", "1", "x", "Skills", "overflow"},
	}, 1)

	if diff := cmp.Diff([]string{"Id", "Parent", "", "Text"}, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	want := []Row{
		{Line: 2, Cells: map[string]string{"Id": "1", "Parent": "", "Text": "CV"}},
		{Line: 4, Cells: map[string]string{"Id": "2", "Parent": "1", "Text": ""}},
		{Line: 5, Cells: map[string]string{"Id": "3", "Parent": "1", "Text": "Skills"}},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecords_SkipsBlankRowsBeforeHeader(t *testing.T) {
	tbl := FromRecords("cv", [][]string{
		nil,
		{"", "  "},
		{"Id", "Parent", "Text"},
		{"1", "", "CV"},
	}, 1)

	if diff := cmp.Diff([]string{"Id", "Parent", "Text"}, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	want := []Row{{Line: 4, Cells: map[string]string{"Id": "1", "Parent": "", "Text": "CV"}}}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	if blankOnly := FromRecords("cv", [][]string{nil, {""}}, 1); blankOnly.Columns != nil || blankOnly.Rows != nil {
		t.Errorf("expected empty table for blank-only records, got %+v", blankOnly)
	}
}

func TestFromRecords_Empty(t *testing.T) {
	tbl := FromRecords("empty", nil, 1)
	if tbl.Title != "empty" || tbl.Columns != nil || tbl.Rows != nil {
		t.Errorf("expected empty table, got %+v", tbl)
	}
}

func TestRow_Value(t *testing.T) {
	r := Row{Cells: map[string]string{"Parent": ""}}
	if v, ok := r.Value("Parent"); !ok || v != "" {
		t.Errorf("expected present empty cell, got %q %v", v, ok)
	}
	if _, ok := r.Value("Id"); ok {
		t.Error("expected Id to be absent")
	}
}
