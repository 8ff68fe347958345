package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaehyuk-choi/papertrans/internal/config"
	"github.com/jaehyuk-choi/papertrans/internal/pipeline"
)

func testServer() (*Server, *pipeline.Orchestrator) {
	cfg := config.Config{
		TargetLang:     "KO",
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1 << 20,
		MaxPages:       20,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, nil, nil, nil, nil, log)
	return NewServer(orch, nil, log, cfg), orch
}

func submittedJobID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job_id in the submit response")
	}
	return resp.JobID
}

func TestSubmitPaper_JSONCarriesMaxPages(t *testing.T) {
	srv, orch := testServer()

	body := strings.NewReader(`{"url":"https://example.com/paper.pdf","max_pages":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/papers/translate", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	job := orch.GetJob(submittedJobID(t, rec))
	if job == nil {
		t.Fatal("submitted job not found in store")
	}
	if got := job.MaxPages(); got != 5 {
		t.Errorf("expected max_pages 5 on the job, got %d", got)
	}
}

func TestSubmitPaper_NegativeMaxPagesRejected(t *testing.T) {
	srv, _ := testServer()

	body := strings.NewReader(`{"url":"https://example.com/paper.pdf","max_pages":-2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/papers/translate", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitPaper_MultipartCarriesMaxPages(t *testing.T) {
	srv, orch := testServer()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "paper.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("%PDF-1.4 fake body"))
	mw.WriteField("max_pages", "7")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/papers/summarize", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	job := orch.GetJob(submittedJobID(t, rec))
	if job == nil {
		t.Fatal("submitted job not found in store")
	}
	if got := job.MaxPages(); got != 7 {
		t.Errorf("expected max_pages 7 on the job, got %d", got)
	}
	if job.Filename != "paper.pdf" {
		t.Errorf("expected filename recorded, got %q", job.Filename)
	}
}

func TestSubmitPaper_MissingSourceRejected(t *testing.T) {
	srv, _ := testServer()

	req := httptest.NewRequest(http.MethodPost, "/api/papers/translate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
