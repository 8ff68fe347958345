package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jaehyuk-choi/papertrans/internal/cache"
	"github.com/jaehyuk-choi/papertrans/internal/config"
	"github.com/jaehyuk-choi/papertrans/internal/fetch"
	"github.com/jaehyuk-choi/papertrans/internal/translate"
)

// Orchestrator manages the paper processing pipeline.
type Orchestrator struct {
	jobs       *JobStore
	queue      chan *Job
	fetcher    *fetch.Client
	translator translate.Translator
	summarizer translate.Summarizer
	results    *cache.Cache
	log        *slog.Logger
	cfg        config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; Start launches its workers.
func NewOrchestrator(cfg config.Config, fetcher *fetch.Client, translator translate.Translator, summarizer translate.Summarizer, results *cache.Cache, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		fetcher:    fetcher,
		translator: translator,
		summarizer: summarizer,
		results:    results,
		log:        log,
		cfg:        cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.cfg, o.fetcher, o.translator, o.summarizer, o.results, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// ResultCache returns the result cache for direct use by API handlers.
func (o *Orchestrator) ResultCache() *cache.Cache {
	return o.results
}
