package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/core/pipeline"
)

// Runner processes one deed. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

var _ Queue = (*ProcessorQueue)(nil)

// ErrQueueClosed is returned by Enqueue after Shutdown started.
var ErrQueueClosed = common.NewAppError("QUEUE_CLOSED", "queue is shutting down", common.ErrInvalidInput)

// ProcessorQueue runs jobs on a fixed pool of workers and reports every outcome to a handler.
type ProcessorQueue struct {
	runner  Runner
	handle  func(Outcome)
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewProcessorQueue starts the workers. handle is called from worker goroutines and must be
// safe for concurrent use; nil discards outcomes.
func NewProcessorQueue(runner Runner, handle func(Outcome), logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if handle == nil {
		handle = func(Outcome) {}
	}
	q := &ProcessorQueue{
		runner:  runner,
		handle:  handle,
		logger:  logger,
		workers: 4,
		timeout: time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)

				for job := range q.ch {
					q.handle(q.process(workerID, job))
				}

				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) process(workerID int, job Job) (out Outcome) {
	out.Job = job
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Result = nil
			out.Err = common.NewAppError("JOB_PANIC", fmt.Sprintf("job %s panicked: %v", job.ID, r), common.ErrInternal)
		}
		out.Duration = time.Since(start)
		if out.Err == nil && out.Result == nil {
			out.Err = common.NewAppError("JOB_EMPTY", "runner returned no result", common.ErrInternal)
		}
		if out.Err != nil {
			q.logger.Error("queue.job.failed", "worker_id", workerID, "job_id", job.ID, "error", out.Err)
		} else {
			q.logger.Info("queue.job.done", "worker_id", workerID, "job_id", job.ID, "trace_id", out.Result.TraceID)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	if job.TraceID != "" {
		ctx = common.WithTraceID(ctx, job.TraceID)
	}
	out.Result, out.Err = q.runner.Run(ctx, job.Input)
	return out
}

// Enqueue blocks while the buffer is full. It fails once Shutdown has been called or ctx ends.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "job_id", job.ID)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueued", "job_id", job.ID)
		return nil
	default:
	}
	q.logger.Warn("queue.full", "job_id", job.ID)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for the workers to drain the buffer or for ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.shutdown.drained")
	}
}
