package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Worker processes a single render job.
type Worker struct {
	renderer *Renderer
	log      *slog.Logger
}

func NewWorker(renderer *Renderer, log *slog.Logger) *Worker {
	return &Worker{renderer: renderer, log: log}
}

// Process runs the read, build and write stages for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	req := job.Request()
	start := time.Now()

	record := func(issues int, failed bool) {
		if stats := w.renderer.Stats(); stats != nil {
			stats.Record(time.Since(start).Milliseconds(), issues, failed)
		}
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	tbl, err := w.renderer.Parse(req)
	job.releaseSource()
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		record(0, true)
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetTitle(tbl.Title)
	log.Info("parsed source", "rows", len(tbl.Rows), "columns", len(tbl.Columns))

	if ctx.Err() != nil {
		job.AddError("cancelled")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Build the outline
	job.SetStatus(StatusRendering, "rendering")
	res := w.renderer.Outline(tbl, req)
	job.SetResult(res)
	if len(res.Issues) > 0 {
		log.Warn("outline has issues", "issues", len(res.Issues))
	}

	// Phase 3: Write the document
	job.SetStatus(StatusWriting, "writing")
	body, s, err := w.renderer.Write(res, req.Format)
	if err != nil {
		log.Error("write failed", "error", err)
		job.AddError(fmt.Sprintf("write: %s", err))
		record(len(res.Issues), true)
		job.SetStatus(StatusFailed, "writing")
		return
	}

	job.SetOutput(Output{
		Title:       tbl.Title,
		Result:      res,
		Body:        body,
		ContentType: s.ContentType(),
		Ext:         s.Ext(),
	})
	record(len(res.Issues), false)
	job.SetStatus(StatusCompleted, "done")
	log.Info("render complete",
		"records", res.Records,
		"instructions", len(res.Instructions),
		"issues", len(res.Issues),
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
