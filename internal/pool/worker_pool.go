// Package pool runs independent work items concurrently and returns their
// results in input order.
package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// WorkItem represents a unit of work
type WorkItem interface {
	ID() string
}

// Processor handles one work item
type Processor[T WorkItem, R any] func(context.Context, T) (R, error)

// WorkerPool processes items with a fixed number of workers
type WorkerPool[T WorkItem, R any] struct {
	workers    int
	bufferSize int
	timeout    time.Duration
	logger     *slog.Logger
	progress   func(done, total int)

	mu        sync.RWMutex
	lastCount int
}

// WorkerPoolOption allows customization of worker pool behavior
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workers    int
	bufferSize int
	timeout    time.Duration
	logger     *slog.Logger
	progress   func(done, total int)
}

// WithWorkers sets the number of concurrent workers
func WithWorkers(workers int) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithBufferSize sets the buffer size for the work channel
func WithBufferSize(size int) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// WithTimeout bounds each work item
func WithTimeout(timeout time.Duration) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(l *slog.Logger) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProgress registers a callback invoked after every completed item. It may
// be called from several goroutines at once.
func WithProgress(fn func(done, total int)) WorkerPoolOption {
	return func(c *workerPoolConfig) {
		c.progress = fn
	}
}

// NewWorkerPool creates a worker pool
func NewWorkerPool[T WorkItem, R any](options ...WorkerPoolOption) *WorkerPool[T, R] {
	config := workerPoolConfig{
		workers:    1,
		bufferSize: 10,
		timeout:    30 * time.Second,
		logger:     slog.Default(),
	}

	for _, option := range options {
		option(&config)
	}

	return &WorkerPool[T, R]{
		workers:    config.workers,
		bufferSize: config.bufferSize,
		timeout:    config.timeout,
		logger:     config.logger,
		progress:   config.progress,
	}
}

// ProcessWithErrGroup fans items out to the workers. The first error cancels
// the remaining work. Results are returned in the order of items.
func (p *WorkerPool[T, R]) ProcessWithErrGroup(ctx context.Context, items []T, processor Processor[T, R]) ([]R, error) {
	if len(items) == 0 {
		p.logger.Debug("No items to process in worker pool")
		return []R{}, nil
	}

	p.logger.Debug("Starting worker pool processing",
		"worker_count", p.workers,
		"item_count", len(items),
		"buffer_size", p.bufferSize,
		"timeout", p.timeout,
	)

	type job struct {
		index int
		item  T
	}
	workCh := make(chan job, p.bufferSize)
	results := make([]R, len(items))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < p.workers; i++ {
		workerID := i
		g.Go(func() error {
			processedCount := 0
			for j := range workCh {
				if err := gctx.Err(); err != nil {
					p.logger.Warn("Worker cancelled by context",
						"worker_id", workerID,
						"processed_count", processedCount,
					)
					return err
				}

				itemCtx, cancel := context.WithTimeout(gctx, p.timeout)
				result, err := processor(itemCtx, j.item)
				cancel()
				if err != nil {
					p.logger.Error("Worker failed to process item",
						"worker_id", workerID,
						"item_id", j.item.ID(),
						"error", err,
					)
					return fmt.Errorf("worker %d failed processing item %s: %w", workerID, j.item.ID(), err)
				}

				// Each index is written by exactly one worker.
				results[j.index] = result
				processedCount++
				n := int(done.Add(1))
				if p.progress != nil {
					p.progress(n, len(items))
				}
			}
			return nil
		})
	}

	distributed := 0
distribute:
	for i, item := range items {
		select {
		case workCh <- job{index: i, item: item}:
			distributed++
		case <-gctx.Done():
			p.logger.Warn("Work distribution cancelled",
				"distributed_count", distributed,
				"total_items", len(items),
			)
			break distribute
		}
	}
	close(workCh)

	if err := g.Wait(); err != nil {
		p.logger.Error("Worker pool processing failed", "error", err)
		return nil, err
	}
	if distributed < len(items) {
		return nil, ctx.Err()
	}

	p.mu.Lock()
	p.lastCount = len(results)
	p.mu.Unlock()

	p.logger.Debug("Worker pool processing completed",
		"result_count", len(results),
	)
	return results, nil
}

// Metrics describes the pool configuration and its last run
func (p *WorkerPool[T, R]) Metrics() WorkerPoolMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return WorkerPoolMetrics{
		Workers:         p.workers,
		BufferSize:      p.bufferSize,
		Timeout:         p.timeout,
		LastResultCount: p.lastCount,
	}
}

// WorkerPoolMetrics contains metrics about worker pool usage
type WorkerPoolMetrics struct {
	Workers         int
	BufferSize      int
	Timeout         time.Duration
	LastResultCount int
}
