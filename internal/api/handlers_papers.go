package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jaehyuk-choi/papertrans/internal/fetch"
	"github.com/jaehyuk-choi/papertrans/internal/pipeline"
)

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	s.submitPaper(w, r, pipeline.ModeTranslate)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	s.submitPaper(w, r, pipeline.ModeSummarize)
}

type submitRequest struct {
	URL      string `json:"url"`
	ArxivID  string `json:"arxiv_id"`
	MaxPages int    `json:"max_pages"`
}

// submitPaper accepts either a multipart PDF upload or a JSON body naming a
// remote source, and queues a job for it.
func (s *Server) submitPaper(w http.ResponseWriter, r *http.Request, mode pipeline.Mode) {
	job := pipeline.NewJob(mode)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		filename := sanitizeFilename(header.Filename)
		if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
			jsonError(w, fmt.Sprintf("unsupported file type: %s (only PDF)", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		if v := r.FormValue("max_pages"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				jsonError(w, "max_pages must be a non-negative integer", http.StatusBadRequest)
				return
			}
			job.SetMaxPages(n)
		}

		job.Filename = filename
		job.SetPDFData(data)
	} else {
		var req submitRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.URL == "" && req.ArxivID == "" {
			jsonError(w, "one of url or arxiv_id is required", http.StatusBadRequest)
			return
		}
		if req.MaxPages < 0 {
			jsonError(w, "max_pages must be a non-negative integer", http.StatusBadRequest)
			return
		}
		job.SetMaxPages(req.MaxPages)
		job.SetSource(fetch.Source{ArxivID: req.ArxivID, URL: req.URL})
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"mode":     job.Mode,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/papers/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

var summaryMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted, pipeline.StatusPartial:
	case pipeline.StatusFailed:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"job_id": snap.ID,
			"status": snap.Status,
			"errors": snap.Progress.Errors,
		})
		return
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"job_id":   snap.ID,
			"status":   snap.Status,
			"phase":    snap.Phase,
			"progress": snap.Progress,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if snap.Mode == pipeline.ModeSummarize {
		sum := job.Summary()
		if sum == nil {
			jsonError(w, "result unavailable", http.StatusInternalServerError)
			return
		}
		var html bytes.Buffer
		if err := summaryMarkdown.Convert([]byte(sum.Summary), &html); err != nil {
			s.log.Warn("summary render failed", "job_id", snap.ID, "error", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"job_id":       snap.ID,
			"status":       snap.Status,
			"title":        sum.Title,
			"summary":      sum.Summary,
			"summary_html": html.String(),
			"from_cache":   snap.FromCache,
		})
		return
	}

	result := job.Result()
	if result == nil {
		jsonError(w, "result unavailable", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":      snap.ID,
		"status":      snap.Status,
		"title":       result.Title,
		"target_lang": result.TargetLang,
		"sections":    result.Sections,
		"from_cache":  snap.FromCache,
		"progress":    snap.Progress,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
