package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/cvoutline/internal/parser"
	"github.com/dgallion1/cvoutline/internal/pipeline"
	"github.com/dgallion1/cvoutline/internal/sink"
	"github.com/dgallion1/cvoutline/internal/style"
)

// IssuesHeader carries the number of outline issues on a rendered document.
const IssuesHeader = "X-Outline-Issues"

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRenderRequest(w, r)
	if !ok {
		return
	}

	out, err := s.orchestrator.Renderer().Render(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, parser.ErrSourceUnreadable) {
			code = http.StatusUnprocessableEntity
		}
		s.log.Error("render failed", "filename", req.Filename, "error", err)
		jsonError(w, err.Error(), code)
		return
	}

	writeDocument(w, out)
}

// readRenderRequest parses the multipart upload shared by the render and
// job endpoints. On failure it has already written the response.
func (s *Server) readRenderRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return pipeline.Request{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return pipeline.Request{}, false
	}
	defer file.Close()

	req, msg, code := s.buildRequest(r, header.Filename, file)
	if msg != "" {
		jsonError(w, msg, code)
		return pipeline.Request{}, false
	}
	return req, true
}

// buildRequest reads one uploaded file and the shared form options. It
// returns an error message and status code when the upload is rejected.
func (s *Server) buildRequest(r *http.Request, name string, file multipart.File) (pipeline.Request, string, int) {
	filename := sanitizeFilename(name)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.Request{}, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest
	}

	format := r.FormValue("format")
	if _, err := sink.ForFormat(format, style.Sheet{}); err != nil {
		return pipeline.Request{}, err.Error(), http.StatusBadRequest
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.Request{}, "failed to read file", http.StatusInternalServerError
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.Request{}, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge
	}

	return pipeline.Request{
		Filename: filename,
		Data:     data,
		Format:   format,
		Locale:   strings.TrimSpace(r.FormValue("locale")),
		Roots:    splitList(r.FormValue("roots")),
	}, "", 0
}

func writeDocument(w http.ResponseWriter, out pipeline.Output) {
	name := sanitizeFilename(out.Title) + out.Ext
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set(IssuesHeader, strconv.Itoa(len(out.Result.Issues)))
	w.Write(out.Body)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
