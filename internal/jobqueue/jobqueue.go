// Package jobqueue is a Redis-backed async queue for solve requests
// submitted to the optional HTTP front end, so a slow ALNS run
// (thousands of iterations) doesn't hold an HTTP connection open.
//
// Adapted from internal/common/jobs/queue.go's JobQueue: same
// sorted-set queue shape (ZAdd, here scored by enqueue time and popped
// with ZPopMin so the oldest job runs first) and TTL'd Set/Get
// job-record storage, narrowed from a generic multi-handler job system
// (the teacher's queue dispatches to arbitrary registered JobHandlers)
// down to the one job type this service has: solving a routing document.
// There is no system of record here — every job record carries a TTL,
// the pending-id sorted set (which has none) only holds jobs not yet
// dequeued, and the queue is entirely reconstructible from a
// resubmitted input document.
package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Status is a solve job's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is one queued solve request.
type Job struct {
	ID          string          `json:"id"`
	Status      Status          `json:"status"`
	Input       json.RawMessage `json:"input"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

const defaultTTL = 24 * time.Hour

// Queue is a single-priority FIFO-ish job queue (ties broken by
// enqueue time via the sorted-set score).
type Queue struct {
	redis *redis.Client
	name  string
	ttl   time.Duration
}

// New returns a Queue backed by client, namespaced under name.
func New(client *redis.Client, name string) *Queue {
	return &Queue{redis: client, name: name, ttl: defaultTTL}
}

func (q *Queue) jobKey(id string) string {
	return fmt.Sprintf("%s:job:%s", q.name, id)
}

// Enqueue stores input as a new pending job and returns its id.
func (q *Queue) Enqueue(ctx context.Context, input json.RawMessage) (string, error) {
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Input:     input,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	if err := q.redis.ZAdd(ctx, q.name, &redis.Z{
		Score:  float64(job.CreatedAt.UnixNano()),
		Member: job.ID,
	}).Err(); err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}
	if err := q.redis.Set(ctx, q.jobKey(job.ID), data, q.ttl).Err(); err != nil {
		return "", fmt.Errorf("store job: %w", err)
	}
	return job.ID, nil
}

// Dequeue pops the oldest pending job, marking it processing. Returns
// (nil, nil) when the queue is empty.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.redis.ZPopMin(ctx, q.name).Result()
	if err != nil {
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	if len(result) == 0 {
		return nil, nil
	}

	jobID, _ := result[0].Member.(string)
	job, err := q.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job data not found: %s", jobID)
	}

	now := time.Now()
	job.Status = StatusProcessing
	job.StartedAt = &now
	if err := q.save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get fetches a job by id, or (nil, nil) if it has expired or never
// existed.
func (q *Queue) Get(ctx context.Context, id string) (*Job, error) {
	data, err := q.redis.Get(ctx, q.jobKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// Complete marks id completed with the given result document.
func (q *Queue) Complete(ctx context.Context, id string, result json.RawMessage) error {
	job, err := q.Get(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", id)
	}
	now := time.Now()
	job.Status = StatusCompleted
	job.CompletedAt = &now
	job.Result = result
	return q.save(ctx, job)
}

// Fail marks id failed with the given error message.
func (q *Queue) Fail(ctx context.Context, id string, cause error) error {
	job, err := q.Get(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job not found: %s", id)
	}
	now := time.Now()
	job.Status = StatusFailed
	job.CompletedAt = &now
	job.Error = cause.Error()
	return q.save(ctx, job)
}

func (q *Queue) save(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.redis.Set(ctx, q.jobKey(job.ID), data, q.ttl).Err()
}
