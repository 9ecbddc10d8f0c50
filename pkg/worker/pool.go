// Package worker provides a bounded worker pool that runs one-shot
// generations for many source URLs concurrently and optionally archives
// each result.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/papercomputeco/llmstxt/pkg/archive"
	"github.com/papercomputeco/llmstxt/pkg/logger"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Generator produces the llms.txt document for one source URL.
// *client.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, siteURL string) (string, error)
}

// Result is the outcome of one job. Exactly one of LlmsTxt and Err is set.
type Result struct {
	URL      string
	LlmsTxt  string
	Err      error
	Duration time.Duration

	// RecordID is the archive id, empty when archiving is off or failed.
	RecordID string
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Generator runs each generation.
	Generator Generator

	// Archive optionally stores every successful result.
	Archive archive.Driver

	// NumWorkers is the number of concurrent generations.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job and result channels
	// (defaults to 256).
	QueueSize uint

	Logger *slog.Logger
}

// Pool runs generations on a fixed number of workers. Results are delivered
// on Results in completion order.
type Pool struct {
	ctx     context.Context
	config  *Config
	queue   chan string
	results chan Result
	wg      sync.WaitGroup
	logger  *slog.Logger

	closeOnce sync.Once
}

// NewPool creates a new Pool and starts its worker goroutines. Cancelling
// ctx aborts in-flight generations; their results carry the context error.
func NewPool(ctx context.Context, c *Config) (*Pool, error) {
	if c.Generator == nil {
		return nil, errors.New("worker pool requires a generator")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	wp := &Pool{
		ctx:     ctx,
		config:  c,
		queue:   make(chan string, c.QueueSize),
		results: make(chan Result, c.QueueSize),
		logger:  log,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a URL for generation.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped.
func (p *Pool) Enqueue(siteURL string) bool {
	select {
	case p.queue <- siteURL:
		p.logger.Debug("job queued", slog.String("url", siteURL))
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", slog.String("url", siteURL))
		return false
	}
}

// Results yields one Result per enqueued URL and is closed by Close.
// It must be drained concurrently when more jobs than QueueSize are queued.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close stops accepting jobs, waits for in-flight jobs to finish and closes
// Results. Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
		p.wg.Wait()
		close(p.results)
	})
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", slog.Uint64("worker_id", uint64(id)))

	for siteURL := range p.queue {
		p.results <- p.processJob(siteURL)
	}

	p.logger.Debug("worker stopped", slog.Uint64("worker_id", uint64(id)))
}

// processJob generates one URL and archives the result when configured.
func (p *Pool) processJob(siteURL string) Result {
	start := time.Now()
	res := Result{URL: siteURL}

	if err := p.ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	text, err := p.config.Generator.Generate(p.ctx, siteURL)
	res.Duration = time.Since(start)
	if err != nil {
		p.logger.Warn("generation failed",
			slog.String("url", siteURL),
			slog.String("error", err.Error()),
		)
		res.Err = err
		return res
	}
	res.LlmsTxt = text

	p.logger.Info("generation finished",
		slog.String("url", siteURL),
		slog.Duration("duration", res.Duration),
	)

	if p.config.Archive != nil {
		rec := archive.NewRecord(siteURL, text, archive.ModeOneShot, 0)
		if err := p.config.Archive.Put(p.ctx, rec); err != nil {
			p.logger.Warn("failed to archive generation",
				slog.String("url", siteURL),
				slog.String("error", err.Error()),
			)
		} else {
			res.RecordID = rec.ID
		}
	}

	return res
}
