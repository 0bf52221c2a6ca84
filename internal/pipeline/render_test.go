package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/cvoutline/internal/config"
	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/dgallion1/cvoutline/internal/parser"
	"github.com/dgallion1/cvoutline/internal/style"
	"github.com/google/go-cmp/cmp"
)

const sampleCSV = "Id,Parent,English,Spanish\n" +
	"1,,Jane Doe,Jane Doe\n" +
	"2,1,Experience,Experiencia\n" +
	"3,2,Acme Corp,\n" +
	"4,99,Lost,Perdido\n"

func newTestRenderer() *Renderer {
	return NewRenderer(config.Defaults(), style.Default(), NewRenderStats(time.Hour))
}

func TestRenderer_Render(t *testing.T) {
	r := newTestRenderer()
	out, err := r.Render(context.Background(), Request{Filename: "jane.csv", Data: []byte(sampleCSV), Format: "md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Title != "jane" {
		t.Errorf("expected title %q, got %q", "jane", out.Title)
	}
	want := []outline.Instruction{
		{ID: "1", Text: "Jane Doe", Level: 0, Style: "Title"},
		{ID: "2", Text: "Experience", Level: 1, Style: "Subtitle"},
		{ID: "3", Text: "Acme Corp", Level: 2, Style: "Section"},
	}
	if diff := cmp.Diff(want, out.Result.Instructions); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}
	if len(out.Result.Issues) != 1 || out.Result.Issues[0].Kind != outline.KindOrphanRecord {
		t.Errorf("expected one orphan issue, got %v", out.Result.Issues)
	}
	if out.Ext != ".md" || !strings.Contains(string(out.Body), "# Jane Doe") {
		t.Errorf("expected markdown body, got ext %q body %q", out.Ext, out.Body)
	}

	snap := r.Stats().Snapshot()
	if snap.Count != 1 || snap.Issues != 1 || snap.Failures != 0 {
		t.Errorf("unexpected stats %+v", snap)
	}
}

func TestRenderer_RequestOverrides(t *testing.T) {
	r := newTestRenderer()
	out, err := r.Render(context.Background(), Request{
		Filename: "jane.csv",
		Data:     []byte(sampleCSV),
		Format:   "json",
		Locale:   "Spanish",
		Roots:    []string{"2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var texts []string
	for _, in := range out.Result.Instructions {
		texts = append(texts, in.Text)
	}
	want := []string{"Experiencia", outline.Placeholder("Spanish", "3")}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if out.ContentType != "application/json" {
		t.Errorf("expected json content type, got %q", out.ContentType)
	}
}

func TestRenderer_LocaleOverrideOnHeadingOutline(t *testing.T) {
	r := newTestRenderer()
	out, err := r.Render(context.Background(), Request{
		Filename: "cv.md",
		Data:     []byte("# Jane Doe\n\n## Experiencia\n\nAcme\n"),
		Format:   "json",
		Locale:   "Spanish",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []outline.Instruction{
		{ID: "1", Text: "Jane Doe", Level: 0, Style: "Title"},
		{ID: "2", Text: "Experiencia", Level: 1, Style: "Subtitle"},
		{ID: "3", Text: "Acme", Level: 2, Style: "Section"},
	}
	if diff := cmp.Diff(want, out.Result.Instructions); diff != "" {
		t.Errorf("instructions mismatch (-want +got):\n%s", diff)
	}
	if len(out.Result.Issues) != 0 {
		t.Errorf("expected no issues, got %v", out.Result.Issues)
	}
}

func TestRenderer_RootSentinelOnHeadingOutline(t *testing.T) {
	cfg := config.Defaults()
	cfg.RootSentinel = "0"
	r := NewRenderer(cfg, style.Default(), nil)

	out, err := r.Render(context.Background(), Request{
		Filename: "cv.md",
		Data:     []byte("# Jane Doe\n\n## Experience\n\nAcme\n"),
		Format:   "md",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Result.Instructions) != 3 {
		t.Errorf("expected 3 instructions, got %v", out.Result.Instructions)
	}
	if len(out.Result.Issues) != 0 {
		t.Errorf("expected no issues, got %v", out.Result.Issues)
	}
}

func TestWorker_LocaleOverrideOnHeadingOutline(t *testing.T) {
	job := NewJob(Request{
		Filename: "cv.md",
		Data:     []byte("# Jane Doe\n\n## Experiencia\n"),
		Format:   "json",
		Locale:   "Spanish",
	})
	NewWorker(newTestRenderer(), slog.New(slog.NewTextHandler(io.Discard, nil))).Process(context.Background(), job)

	out, ok := job.Output()
	if !ok {
		t.Fatalf("expected output, job status %s", job.Snapshot().Status)
	}
	if len(out.Result.Issues) != 0 {
		t.Errorf("expected no issues, got %v", out.Result.Issues)
	}
	if len(out.Result.Instructions) != 2 || out.Result.Instructions[1].Text != "Experiencia" {
		t.Errorf("unexpected instructions %v", out.Result.Instructions)
	}
}

func TestRenderer_SourceUnreadable(t *testing.T) {
	r := newTestRenderer()
	_, err := r.Render(context.Background(), Request{Filename: "cv.xlsx", Data: []byte("not a workbook")})
	if !errors.Is(err, parser.ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable, got %v", err)
	}
	if snap := r.Stats().Snapshot(); snap.Failures != 1 {
		t.Errorf("expected one recorded failure, got %+v", snap)
	}
}

func TestRenderer_UnknownFormat(t *testing.T) {
	r := newTestRenderer()
	out, err := r.Render(context.Background(), Request{Filename: "jane.csv", Data: []byte(sampleCSV), Format: "pdf"})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if out.Result.Records != 4 {
		t.Errorf("expected the outline result to survive, got %d records", out.Result.Records)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	r := newTestRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Render(ctx, Request{Filename: "jane.csv", Data: []byte(sampleCSV)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
