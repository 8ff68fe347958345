package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaehyuk-choi/papertrans/internal/cache"
	"github.com/jaehyuk-choi/papertrans/internal/config"
	"github.com/jaehyuk-choi/papertrans/internal/sections"
)

type translatorFunc func(ctx context.Context, text string) (string, error)

func (f translatorFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

type summarizerFunc func(ctx context.Context, text string) (string, error)

func (f summarizerFunc) Summarize(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

func testConfig() config.Config {
	return config.Config{
		TargetLang:             "KO",
		MaxConcurrentTranslate: 2,
		MinSectionChars:        10,
		ChunkMaxChars:          60,
		SummaryMaxChars:        100,
		MaxPages:               20,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoTranslator() translatorFunc {
	return func(ctx context.Context, text string) (string, error) {
		return "T:" + text, nil
	}
}

const sectionBody = "Alpha section paragraph number one, fairly long.\n\n" +
	"FAILME paragraph two is long enough to stand alone.\n\n" +
	"Paragraph three closes the section nicely here."

func TestTranslateSection_AllChunksTranslated(t *testing.T) {
	w := NewWorker(testConfig(), nil, echoTranslator(), nil, nil, testLogger())
	job := NewJob(ModeTranslate)

	got, failures := w.translateSection(context.Background(), job, sections.Section{
		Name:    "Method",
		Content: sectionBody,
	})
	if failures != 0 {
		t.Fatalf("expected no failures, got %d", failures)
	}
	if strings.Count(got, "T:") != 3 {
		t.Errorf("expected 3 translated chunks, got %q", got)
	}
	snap := job.Snapshot()
	if snap.Progress.TotalChunks != 3 || snap.Progress.ChunksTranslated != 3 {
		t.Errorf("unexpected progress: %+v", snap.Progress)
	}
}

func TestTranslateSection_FailedChunkBecomesInlineMarker(t *testing.T) {
	translator := translatorFunc(func(ctx context.Context, text string) (string, error) {
		if strings.Contains(text, "FAILME") {
			return "", errors.New("boom")
		}
		return "T:" + text, nil
	})
	w := NewWorker(testConfig(), nil, translator, nil, nil, testLogger())
	job := NewJob(ModeTranslate)

	got, failures := w.translateSection(context.Background(), job, sections.Section{
		Name:    "Method",
		Content: sectionBody,
	})
	if failures != 1 {
		t.Fatalf("expected 1 failure, got %d", failures)
	}
	if !strings.Contains(got, "[translation failed: boom]") {
		t.Errorf("expected inline failure marker, got %q", got)
	}
	// The sibling chunks still carry their translations in order.
	if !strings.Contains(got, "T:Alpha section") || !strings.Contains(got, "T:Paragraph three") {
		t.Errorf("expected surviving chunks translated, got %q", got)
	}
	if strings.Index(got, "T:Alpha section") > strings.Index(got, "[translation failed") {
		t.Errorf("expected document order preserved, got %q", got)
	}
	snap := job.Snapshot()
	if snap.Progress.ChunkFailures != 1 || snap.Progress.ChunksTranslated != 2 {
		t.Errorf("unexpected progress: %+v", snap.Progress)
	}
}

func TestTranslateSection_ReferencesReplacedByMarker(t *testing.T) {
	w := NewWorker(testConfig(), nil, echoTranslator(), nil, nil, testLogger())
	job := NewJob(ModeTranslate)

	got, failures := w.translateSection(context.Background(), job, sections.Section{
		Name:    "References",
		Content: "[1] J. Doe. A paper that should never be translated. 2020.",
	})
	if failures != 0 {
		t.Fatalf("expected no failures, got %d", failures)
	}
	if got != sections.ReferenceMarker {
		t.Errorf("expected %q, got %q", sections.ReferenceMarker, got)
	}
	if job.Snapshot().Progress.TotalChunks != 0 {
		t.Error("expected no chunks queued for a skipped section")
	}
}

func TestTranslateSection_AppendixPassesThroughUntranslated(t *testing.T) {
	w := NewWorker(testConfig(), nil, echoTranslator(), nil, nil, testLogger())
	job := NewJob(ModeTranslate)

	content := "Supplementary proofs omitted from the main body."
	got, _ := w.translateSection(context.Background(), job, sections.Section{
		Name:    "Appendix",
		Content: content,
	})
	if got != content {
		t.Errorf("expected untouched content, got %q", got)
	}
}

func TestTranslateSection_TinySectionPassesThrough(t *testing.T) {
	w := NewWorker(testConfig(), nil, echoTranslator(), nil, nil, testLogger())
	job := NewJob(ModeTranslate)

	got, _ := w.translateSection(context.Background(), job, sections.Section{
		Name:    "Motivation",
		Content: "tiny",
	})
	if got != "tiny" {
		t.Errorf("expected pass-through below minimum size, got %q", got)
	}
}

func TestPageLimit_RequestClampedToConfiguredCap(t *testing.T) {
	w := NewWorker(testConfig(), nil, echoTranslator(), nil, nil, testLogger())

	cases := []struct {
		requested int
		want      int
	}{
		{0, 20},   // unset falls back to the cap
		{5, 5},    // in-range request honored
		{100, 20}, // over-cap request clamped
		{-3, 20},  // nonsense falls back
	}
	for _, tc := range cases {
		if got := w.pageLimit(tc.requested); got != tc.want {
			t.Errorf("pageLimit(%d): expected %d, got %d", tc.requested, tc.want, got)
		}
	}
}

func TestSummarize_TruncatesLongInput(t *testing.T) {
	var seen string
	summarizer := summarizerFunc(func(ctx context.Context, text string) (string, error) {
		seen = text
		return "summary text", nil
	})
	w := NewWorker(testConfig(), nil, nil, summarizer, nil, testLogger())
	job := NewJob(ModeSummarize)

	long := strings.Repeat("word ", 100) // well past the 100-char cap
	w.summarize(context.Background(), job, "key", "Title", long, testLogger())

	if !strings.Contains(seen, truncationNotice) {
		t.Errorf("expected truncation notice in capability input")
	}
	if job.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", job.Status)
	}
	if sum := job.Summary(); sum == nil || sum.Summary != "summary text" {
		t.Errorf("unexpected summary result: %+v", sum)
	}
}

func TestSummarize_FailureFailsJob(t *testing.T) {
	summarizer := summarizerFunc(func(ctx context.Context, text string) (string, error) {
		return "", errors.New("model offline")
	})
	w := NewWorker(testConfig(), nil, nil, summarizer, nil, testLogger())
	job := NewJob(ModeSummarize)

	w.summarize(context.Background(), job, "key", "Title", "short paper text", testLogger())
	if job.Status != StatusFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
}

func TestServeFromCache_HitCompletesJob(t *testing.T) {
	results := cache.New(filepath.Join(t.TempDir(), "cache.json"))
	cfg := testConfig()
	w := NewWorker(cfg, nil, echoTranslator(), nil, results, testLogger())

	data := []byte("%PDF-fake")
	key := cache.Key(data, string(ModeTranslate), cfg.TargetLang, cfg.MaxPages)
	stored := TranslateResult{
		Title:      "Cached Paper",
		TargetLang: "KO",
		Sections:   []TranslatedSection{{Name: "Abstract", Original: "o", Translated: "t"}},
	}
	if err := results.Set(key, stored); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	job := NewJob(ModeTranslate)
	job.SetPDFData(data)
	if !w.serveFromCache(job, key, testLogger()) {
		t.Fatal("expected cache hit")
	}
	if job.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", job.Status)
	}
	if !job.FromCache() {
		t.Error("expected from_cache flag set")
	}
	if res := job.Result(); res == nil || res.Title != "Cached Paper" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestServeFromCache_MissReturnsFalse(t *testing.T) {
	results := cache.New(filepath.Join(t.TempDir(), "cache.json"))
	w := NewWorker(testConfig(), nil, echoTranslator(), nil, results, testLogger())

	job := NewJob(ModeTranslate)
	if w.serveFromCache(job, "unknown", testLogger()) {
		t.Error("expected cache miss")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected job untouched, got %s", job.Status)
	}
}
