package jobqueue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shuttlefleet/routeopt/internal/logging"
)

// SolveFunc runs one solve job's whole pipeline (ingest + construct +
// ALNS + report) and returns the output document's JSON bytes.
type SolveFunc func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)

// WorkerConfig controls a Worker's polling and concurrency.
type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
	JobTimeout   time.Duration
}

// DefaultWorkerConfig matches the teacher's jobs.DefaultWorkerConfig
// concurrency/poll-interval defaults, with JobTimeout widened for ALNS
// runs against large inputs.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		Concurrency:  2,
		PollInterval: 500 * time.Millisecond,
		JobTimeout:   10 * time.Minute,
	}
}

// Worker drains a Queue, running each dequeued job through solve.
type Worker struct {
	queue  *Queue
	solve  SolveFunc
	config WorkerConfig
	logger *logging.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker builds a Worker over queue, dispatching every job to solve.
func NewWorker(queue *Queue, solve SolveFunc, config WorkerConfig, logger *logging.Logger) *Worker {
	if config.Concurrency <= 0 {
		config = DefaultWorkerConfig()
	}
	return &Worker{queue: queue, solve: solve, config: config, logger: logger}
}

// Start launches config.Concurrency worker goroutines.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.config.Concurrency; i++ {
		w.wg.Add(1)
		go w.loop(ctx, i)
	}
}

// Stop signals every worker goroutine to exit and waits for them.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			w.logger.Error("dequeue failed", "worker", id, "error", err)
			time.Sleep(w.config.PollInterval)
			continue
		}
		if job == nil {
			time.Sleep(w.config.PollInterval)
			continue
		}

		w.process(ctx, id, job)
	}
}

func (w *Worker) process(ctx context.Context, id int, job *Job) {
	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	start := time.Now()
	result, err := w.solve(jobCtx, job.Input)
	if err != nil {
		w.logger.Error("job failed", "worker", id, "job_id", job.ID, "error", err)
		_ = w.queue.Fail(ctx, job.ID, err)
		return
	}

	w.logger.Info("job completed", "worker", id, "job_id", job.ID, "duration", time.Since(start))
	_ = w.queue.Complete(ctx, job.ID, result)
}
