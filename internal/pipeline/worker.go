package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"

	"github.com/jaehyuk-choi/papertrans/internal/cache"
	"github.com/jaehyuk-choi/papertrans/internal/chunker"
	"github.com/jaehyuk-choi/papertrans/internal/config"
	"github.com/jaehyuk-choi/papertrans/internal/fetch"
	"github.com/jaehyuk-choi/papertrans/internal/layout"
	"github.com/jaehyuk-choi/papertrans/internal/sections"
	"github.com/jaehyuk-choi/papertrans/internal/textproc"
	"github.com/jaehyuk-choi/papertrans/internal/translate"
)

const truncationNotice = "[... truncated for length ...]"

// Worker processes a single paper job end to end.
type Worker struct {
	fetcher    *fetch.Client
	translator translate.Translator
	summarizer translate.Summarizer
	results    *cache.Cache
	log        *slog.Logger
	cfg        config.Config

	rules     *textproc.Ruleset
	segmenter *sections.Segmenter
	layoutCfg layout.Config
	chunkCfg  chunker.Config
}

func NewWorker(cfg config.Config, fetcher *fetch.Client, translator translate.Translator, summarizer translate.Summarizer, results *cache.Cache, log *slog.Logger) *Worker {
	chunkCfg := chunker.DefaultConfig()
	chunkCfg.MaxChars = cfg.ChunkMaxChars
	return &Worker{
		fetcher:    fetcher,
		translator: translator,
		summarizer: summarizer,
		results:    results,
		log:        log,
		cfg:        cfg,
		rules:      textproc.DefaultRuleset(),
		segmenter:  sections.NewSegmenter(),
		layoutCfg:  layout.DefaultConfig(),
		chunkCfg:   chunkCfg,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "mode", job.Mode)

	// Phase 1: Fetch (skipped for uploaded files).
	data := job.PDFData()
	if data == nil {
		job.SetStatus(StatusFetching, "fetching")
		fetched, err := w.fetcher.Fetch(ctx, job.Source())
		if err != nil {
			log.Error("fetch failed", "source", job.Source().String(), "error", err)
			job.AddError(fmt.Sprintf("fetch: %s", err))
			job.SetStatus(StatusFailed, "fetching")
			return
		}
		data = fetched
		job.SetPDFData(data)
	}

	// Phase 1.5: Cache lookup before any extraction work. The page limit is
	// part of the key, a truncated run is not the same document.
	maxPages := w.pageLimit(job.MaxPages())
	key := cache.Key(data, string(job.Mode), w.cfg.TargetLang, maxPages)
	if w.serveFromCache(job, key, log) {
		return
	}

	// Phase 2: Layout extraction and text reconstruction.
	job.SetStatus(StatusExtracting, "extracting")
	pages, err := layout.ExtractPages(data, maxPages)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	title := layout.ExtractTitle(pages)
	if title != "" {
		job.SetTitle(title)
	}
	text := w.reconstructText(pages)
	if strings.TrimSpace(text) == "" {
		log.Warn("no text reconstructed")
		job.AddError("no extractable text")
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	log.Info("text reconstructed", "pages", len(pages), "chars", len(text))

	if job.Mode == ModeSummarize {
		w.summarize(ctx, job, key, title, text, log)
		return
	}

	// Phase 3: Section segmentation.
	job.SetStatus(StatusSegmenting, "segmenting")
	secs := w.segmenter.Segment(text)
	job.SetTotalSections(len(secs))
	log.Info("segmented", "sections", len(secs))

	// Phase 4: Translate section by section.
	job.SetStatus(StatusTranslating, "translating")
	out := make([]TranslatedSection, 0, len(secs))
	hadFailures := false
	for _, sec := range secs {
		if ctx.Err() != nil {
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "translating")
			return
		}
		translated, failures := w.translateSection(ctx, job, sec)
		if failures > 0 {
			hadFailures = true
		}
		out = append(out, TranslatedSection{
			Name:       sec.Name,
			Original:   sec.Content,
			Translated: translated,
		})
		job.IncrSectionsProcessed()
	}

	result := &TranslateResult{
		Title:      title,
		TargetLang: w.cfg.TargetLang,
		Sections:   out,
	}
	job.SetResult(result, false)

	if hadFailures {
		job.SetStatus(StatusPartial, "done")
		return
	}
	if w.results != nil {
		if err := w.results.Set(key, result); err != nil {
			log.Warn("cache store failed", "error", err)
		}
	}
	job.SetStatus(StatusCompleted, "done")
}

// pageLimit resolves a caller-requested page limit against the configured
// cap. Unset or out-of-range requests fall back to the cap.
func (w *Worker) pageLimit(requested int) int {
	if requested <= 0 || requested > w.cfg.MaxPages {
		return w.cfg.MaxPages
	}
	return requested
}

// serveFromCache completes the job from the result cache when possible.
func (w *Worker) serveFromCache(job *Job, key string, log *slog.Logger) bool {
	if w.results == nil {
		return false
	}
	switch job.Mode {
	case ModeTranslate:
		var cached TranslateResult
		if w.results.Get(key, &cached) {
			log.Info("served from cache")
			job.SetTitle(cached.Title)
			job.SetResult(&cached, true)
			job.SetStatus(StatusCompleted, "cache")
			return true
		}
	case ModeSummarize:
		var cached SummaryResult
		if w.results.Get(key, &cached) {
			log.Info("served from cache")
			job.SetTitle(cached.Title)
			job.SetSummary(&cached, true)
			job.SetStatus(StatusCompleted, "cache")
			return true
		}
	}
	return false
}

// reconstructText rebuilds reading-order text from positioned page blocks and
// joins hard-wrapped lines back into paragraphs.
func (w *Worker) reconstructText(pages []layout.Page) string {
	var lines []string
	for i, page := range pages {
		blocks := layout.Reconstruct(page, w.layoutCfg)
		pageLines := layout.FlattenLines(blocks)
		lines = append(lines, w.rules.CleanLines(pageLines, i)...)
	}
	return textproc.JoinParagraphs(lines, w.segmenter.Keywords.IsHeaderLine)
}

// summarize runs the summarize path: truncate, call the capability once,
// clean, cache.
func (w *Worker) summarize(ctx context.Context, job *Job, key, title, text string, log *slog.Logger) {
	job.SetStatus(StatusSummarizing, "summarizing")

	input := text
	if len(input) > w.cfg.SummaryMaxChars {
		input = input[:w.cfg.SummaryMaxChars] + "\n\n" + truncationNotice
	}

	raw, err := retry.DoWithData(
		func() (string, error) { return w.summarizer.Summarize(ctx, input) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.RetryIf(translate.IsRetryable),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Error("summarize failed", "error", err)
		job.AddError(fmt.Sprintf("summarize: %s", err))
		job.SetStatus(StatusFailed, "summarizing")
		return
	}

	result := &SummaryResult{Title: title, Summary: translate.CleanSummary(raw)}
	job.SetSummary(result, false)
	if w.results != nil {
		if err := w.results.Set(key, result); err != nil {
			log.Warn("cache store failed", "error", err)
		}
	}
	job.SetStatus(StatusCompleted, "done")
}

// translateSection translates one section's content, isolating per-chunk
// failures as inline markers. Returns the assembled translation and the
// number of chunks that ultimately failed.
func (w *Worker) translateSection(ctx context.Context, job *Job, sec sections.Section) (string, int) {
	if sections.SkipTranslation(sec.Name) {
		if sec.Name == "References" {
			return sections.ReferenceMarker, 0
		}
		return sec.Content, 0
	}
	if len(strings.TrimSpace(sec.Content)) < w.cfg.MinSectionChars {
		return sec.Content, 0
	}

	cleaned := w.segmenter.Noise.Filter(sec.Content)
	if strings.TrimSpace(cleaned) == "" {
		return "", 0
	}

	chunks := chunker.Split(cleaned, w.chunkCfg)
	job.AddChunks(len(chunks))

	results := make([]string, len(chunks))
	var failures atomic.Int64

	// Failed chunks become inline markers rather than group errors, so one
	// bad chunk never cancels its siblings.
	var g errgroup.Group
	g.SetLimit(w.cfg.MaxConcurrentTranslate)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			translated, err := retry.DoWithData(
				func() (string, error) { return w.translator.Translate(ctx, chunk) },
				retry.Context(ctx),
				retry.Attempts(3),
				retry.RetryIf(translate.IsRetryable),
				retry.DelayType(retry.BackOffDelay),
				retry.LastErrorOnly(true),
			)
			if err != nil {
				failures.Add(1)
				job.AddError(fmt.Sprintf("%s chunk %d: %s", sec.Name, i+1, err))
				results[i] = fmt.Sprintf("[translation failed: %s]", translate.FailureReason(err))
				return nil
			}
			results[i] = translate.CleanTranslation(translated)
			job.IncrChunksTranslated()
			return nil
		})
	}
	g.Wait()

	if n := int(failures.Load()); n > 0 {
		job.AddChunkFailures(n)
	}

	nonEmpty := make([]string, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r) != "" {
			nonEmpty = append(nonEmpty, r)
		}
	}
	// A second cleanup over the joined text catches artifacts that only
	// surface at chunk seams.
	return translate.CleanTranslation(strings.Join(nonEmpty, "\n\n")), int(failures.Load())
}

// TranslatePaper runs the translation pipeline over raw PDF bytes directly,
// bypassing the job queue. Used by callers that already hold the document.
// A maxPages of 0 uses the configured limit.
func (w *Worker) TranslatePaper(ctx context.Context, pdfData []byte, maxPages int) (*TranslateResult, error) {
	job := NewJob(ModeTranslate)
	job.SetPDFData(pdfData)
	job.SetMaxPages(maxPages)
	w.Process(ctx, job)
	if res := job.Result(); res != nil {
		return res, nil
	}
	return nil, fmt.Errorf("translate paper: %s", strings.Join(job.Snapshot().Progress.Errors, "; "))
}

// SummarizePaper summarizes raw PDF bytes directly, bypassing the job queue.
func (w *Worker) SummarizePaper(ctx context.Context, pdfData []byte, maxPages int) (*SummaryResult, error) {
	job := NewJob(ModeSummarize)
	job.SetPDFData(pdfData)
	job.SetMaxPages(maxPages)
	w.Process(ctx, job)
	if sum := job.Summary(); sum != nil {
		return sum, nil
	}
	return nil, fmt.Errorf("summarize paper: %s", strings.Join(job.Snapshot().Progress.Errors, "; "))
}
