package media

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/server/blob"
)

// Enqueues racing a shutdown must fall back to the inline delete, never
// panic on the closed channel, and every handed-off blob must be gone once
// both sides have finished.
func TestCleanupQueueEnqueueShutdownRace(t *testing.T) {
	f := newFixture(t, PolicyBestEffort)
	ctx := context.Background()

	const (
		iterations = 25
		writers    = 8
	)

	for iter := 0; iter < iterations; iter++ {
		q := newCleanupQueue(2)
		q.Start(ctx)

		ids := make([]uuid.UUID, writers)
		for i := range ids {
			info, err := f.uploads.Put(ctx, "stale.jpg", "image/jpeg",
				strings.NewReader("superseded bytes"))
			require.NoError(t, err)
			ids[i] = info.ID
		}

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				q.enqueue(cleanupJob{bucket: f.uploads, id: id, reason: "replaced"})
			}(ids[i])
		}

		require.NoError(t, q.Shutdown(ctx))
		wg.Wait()

		// queued or inline, every retired blob is unresolvable afterwards
		for _, id := range ids {
			_, err := f.uploads.Stat(ctx, id)
			assert.ErrorIs(t, err, blob.ErrNotFound)
		}
	}
}

func TestCleanupQueueEnqueueAfterShutdown(t *testing.T) {
	f := newFixture(t, PolicyBestEffort)
	ctx := context.Background()

	q := newCleanupQueue(2)
	q.Start(ctx)
	require.NoError(t, q.Shutdown(ctx))

	info, err := f.uploads.Put(ctx, "late.jpg", "image/jpeg",
		strings.NewReader("late bytes"))
	require.NoError(t, err)

	q.enqueue(cleanupJob{bucket: f.uploads, id: info.ID, reason: "replaced"})

	_, err = f.uploads.Stat(ctx, info.ID)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}
