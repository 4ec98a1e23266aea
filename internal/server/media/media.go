// Package media coordinates writes across the blob store and the content
// store so that a document's blob reference is always either absent or
// valid, never dangling, and so that replaced or deleted blobs do not leak.
//
// There is no cross-store transaction; every ordering rule here exists to
// bound the damage of a crash between steps to an orphaned blob (wasteful
// but harmless) rather than a dangling reference (a document pointing at
// bytes that no longer exist).
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/server/blob"
)

// ErrCleanupFailed reports that the primary operation committed but the
// superseded blob could not be deleted under the strict policy. The new
// reference is durably in place; only the old bytes are stranded. Callers
// must not treat this as a failure of the operation itself.
var ErrCleanupFailed = errors.New("blob cleanup failed")

// Service implements the attach/replace/detach protocol. Document mutations
// are supplied as closures against the content store; the service owns the
// blob writes and the cleanup ordering around them.
type Service struct {
	policy Policy
	queue  *cleanupQueue
}

func NewService(cfg *Config) *Service {
	return &Service{
		policy: cfg.CleanupPolicy,
		queue:  newCleanupQueue(cfg.CleanupQueueSize),
	}
}

func (s *Service) Start(ctx context.Context) error {
	slog.Debug("media service start", "policy", s.policy)
	s.queue.Start(ctx)
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	slog.Debug("media service shutdown")
	return s.queue.Shutdown(ctx)
}

// CreateWithAttachment uploads the file and then runs create, which must
// persist a document holding the new blob id. If create fails, the uploaded
// blob is deleted before the error is returned so no orphan survives; a
// failure of that deletion is logged and never masks the create error.
func (s *Service) CreateWithAttachment(
	ctx context.Context,
	bucket *blob.Bucket,
	up Upload,
	create func(ctx context.Context, id uuid.UUID) error,
) (uuid.UUID, error) {
	info, err := bucket.Put(ctx, up.Filename, up.ContentType, up.Body)
	if err != nil {
		// nothing was written to the content store yet
		return uuid.Nil, fmt.Errorf("upload %q: %w", up.Filename, err)
	}

	if err := create(ctx, info.ID); err != nil {
		s.discard(ctx, bucket, info.ID, "create failed")
		return uuid.Nil, err
	}

	return info.ID, nil
}

// ReplaceAttachment uploads the file and then runs swap, which must commit
// the new blob id into the target document field and report the id it
// displaced. On swap failure the new blob is deleted and the document keeps
// its old, still-valid reference. On success the displaced blob is retired
// strictly after the swap committed, per the configured cleanup policy.
func (s *Service) ReplaceAttachment(
	ctx context.Context,
	bucket *blob.Bucket,
	up Upload,
	swap func(ctx context.Context, newID uuid.UUID) (*uuid.UUID, error),
) (uuid.UUID, error) {
	info, err := bucket.Put(ctx, up.Filename, up.ContentType, up.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upload %q: %w", up.Filename, err)
	}

	old, err := swap(ctx, info.ID)
	if err != nil {
		s.discard(ctx, bucket, info.ID, "swap failed")
		return uuid.Nil, err
	}

	if old != nil && *old != info.ID {
		if err := s.retire(ctx, bucket, *old, "replaced"); err != nil {
			// reference already points at the new blob; only strict policy
			// reports the stranded old one
			return info.ID, err
		}
	}

	return info.ID, nil
}

// DeleteAttachment runs remove, which must delete the document (or clear the
// reference field) and report the blob id it held. The blob is deleted only
// after the reference is gone: failing halfway leaves an orphan, never a
// dangling reference.
func (s *Service) DeleteAttachment(
	ctx context.Context,
	bucket *blob.Bucket,
	remove func(ctx context.Context) (*uuid.UUID, error),
) error {
	old, err := remove(ctx)
	if err != nil {
		return err
	}

	if old != nil {
		return s.retire(ctx, bucket, *old, "deleted")
	}
	return nil
}

// retire disposes of a superseded blob after its reference is durably gone.
func (s *Service) retire(ctx context.Context, bucket *blob.Bucket, id uuid.UUID, reason string) error {
	if s.policy == PolicyStrict {
		if err := bucket.Delete(ctx, id); err != nil {
			return fmt.Errorf("retire blob %s: %w: %w", id, ErrCleanupFailed, err)
		}
		return nil
	}

	s.queue.enqueue(cleanupJob{bucket: bucket, id: id, reason: reason})
	return nil
}

// discard removes a blob that was uploaded for an operation that then
// failed. Always synchronous and always best-effort: the primary error is
// what the caller must see.
func (s *Service) discard(ctx context.Context, bucket *blob.Bucket, id uuid.UUID, reason string) {
	if err := bucket.Delete(ctx, id); err != nil {
		slog.Error("orphan cleanup failed",
			"bucket", bucket.Name(), "blob", id, "reason", reason, "error", err)
	}
}
