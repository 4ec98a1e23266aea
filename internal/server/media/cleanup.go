package media

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/blob"
)

type cleanupJob struct {
	bucket *blob.Bucket
	id     uuid.UUID
	reason string
}

// cleanupQueue deletes retired blobs off the request path. Failures are
// logged, never escalated; a blob that survives a failed delete is an
// orphan, which is wasteful but harmless.
type cleanupQueue struct {
	jobs chan cleanupJob
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func newCleanupQueue(size int) *cleanupQueue {
	return &cleanupQueue{
		jobs: make(chan cleanupJob, size),
	}
}

func (q *cleanupQueue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for job := range q.jobs {
			// deletes run against a background context so request
			// cancellation cannot strand a retired blob
			if err := job.bucket.Delete(context.Background(), job.id); err != nil {
				slog.Error("blob cleanup failed",
					"bucket", job.bucket.Name(), "blob", job.id, "reason", job.reason, "error", err)
				continue
			}
			slog.Debug("blob cleaned up",
				"bucket", job.bucket.Name(), "blob", job.id, "reason", job.reason)
		}
	}()
}

// Shutdown stops intake and waits for queued deletions to drain.
func (q *cleanupQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue hands a retired blob to the worker. When the queue is full or
// already shut down the delete runs inline on the caller, still best-effort.
// The send happens under q.mu so it cannot race the close in Shutdown; the
// worker never takes the mutex, so holding it across the send is safe.
func (q *cleanupQueue) enqueue(job cleanupJob) {
	q.mu.Lock()
	sent := false
	if !q.closed {
		select {
		case q.jobs <- job:
			sent = true
		default:
		}
	}
	q.mu.Unlock()

	if sent {
		return
	}

	if err := job.bucket.Delete(context.Background(), job.id); err != nil {
		slog.Error("blob cleanup failed",
			"bucket", job.bucket.Name(), "blob", job.id, "reason", job.reason, "error", err)
	}
}
