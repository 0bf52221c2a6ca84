package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgallion1/cvoutline/internal/config"
	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/dgallion1/cvoutline/internal/parser"
	"github.com/dgallion1/cvoutline/internal/sink"
	"github.com/dgallion1/cvoutline/internal/style"
	"github.com/dgallion1/cvoutline/internal/table"
)

// Request is one source to render. Empty fields take the configured
// defaults.
type Request struct {
	Filename string
	Data     []byte
	Format   string // docx, md or json
	Locale   string
	Roots    []string
}

// Output is a finished render.
type Output struct {
	Title       string         `json:"title"`
	Result      outline.Result `json:"result"`
	Body        []byte         `json:"-"`
	ContentType string         `json:"content_type"`
	Ext         string         `json:"ext"`
}

// Renderer runs the read, build and write stages with one configuration
// and style sheet. It is safe for concurrent use.
type Renderer struct {
	cfg   config.Config
	sheet style.Sheet
	stats *RenderStats
}

func NewRenderer(cfg config.Config, sheet style.Sheet, stats *RenderStats) *Renderer {
	return &Renderer{cfg: cfg, sheet: sheet, stats: stats}
}

// Stats returns the rolling render statistics, or nil if none are kept.
func (r *Renderer) Stats() *RenderStats {
	return r.stats
}

// configFor applies the request overrides to the renderer configuration.
// Reading and building must both see the result: heading outlines are read
// into the active locale column.
func (r *Renderer) configFor(req Request) config.Config {
	cfg := r.cfg
	if req.Locale != "" {
		cfg.Locale = req.Locale
	}
	if len(req.Roots) > 0 {
		cfg.Roots = req.Roots
	}
	return cfg
}

// Parse reads the request source. Failures wrap parser.ErrSourceUnreadable.
func (r *Renderer) Parse(req Request) (*table.Table, error) {
	return parser.Read(bytes.NewReader(req.Data), req.Filename, r.configFor(req).ParserOptions())
}

// Outline runs the outline engine over a parsed table.
func (r *Renderer) Outline(tbl *table.Table, req Request) outline.Result {
	return outline.Build(tbl.Rows, r.configFor(req).OutlineOptions(r.sheet.Table()))
}

// Write encodes instructions in the requested format.
func (r *Renderer) Write(res outline.Result, format string) ([]byte, sink.Sink, error) {
	s, err := sink.ForFormat(format, r.sheet)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := s.Write(&buf, res.Instructions); err != nil {
		return nil, nil, fmt.Errorf("write %s: %w", s.Ext(), err)
	}
	return buf.Bytes(), s, nil
}

// Render runs every stage and records the outcome in the stats window.
// Per-record issues are part of the output, never an error.
func (r *Renderer) Render(ctx context.Context, req Request) (Output, error) {
	start := time.Now()
	out, err := r.render(ctx, req)
	if r.stats != nil {
		r.stats.Record(time.Since(start).Milliseconds(), len(out.Result.Issues), err != nil)
	}
	return out, err
}

func (r *Renderer) render(ctx context.Context, req Request) (Output, error) {
	tbl, err := r.Parse(req)
	if err != nil {
		return Output{}, err
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	res := r.Outline(tbl, req)
	if err := ctx.Err(); err != nil {
		return Output{Title: tbl.Title, Result: res}, err
	}

	body, s, err := r.Write(res, req.Format)
	if err != nil {
		return Output{Title: tbl.Title, Result: res}, err
	}
	return Output{
		Title:       tbl.Title,
		Result:      res,
		Body:        body,
		ContentType: s.ContentType(),
		Ext:         s.Ext(),
	}, nil
}
