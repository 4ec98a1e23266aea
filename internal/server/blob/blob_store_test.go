package blob

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/harborline/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open("", 1)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store, err := NewStore(database)
	require.NoError(t, err)
	return store
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return buf
}

func TestBucketRoundTrip(t *testing.T) {
	store := newTestStore(t)
	bucket := store.Bucket(BucketUploads)
	ctx := context.Background()

	// spans multiple chunks plus a short tail
	payload := randomBytes(t, 2*ChunkSize+1234)

	info, err := bucket.Put(ctx, "harbor.jpg", "image/jpeg", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "harbor.jpg", info.Filename)
	assert.Equal(t, "image/jpeg", info.ContentType)
	assert.Equal(t, int64(len(payload)), info.Length)
	assert.False(t, info.CreatedAt.IsZero())

	stream, err := bucket.Open(ctx, info.ID)
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBucketRoundTripExactChunkMultiple(t *testing.T) {
	store := newTestStore(t)
	bucket := store.Bucket(BucketUploads)
	ctx := context.Background()

	payload := randomBytes(t, 2*ChunkSize)

	info, err := bucket.Put(ctx, "exact.bin", "", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", info.ContentType)

	stream, err := bucket.Open(ctx, info.ID)
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBucketOpenUnknownID(t *testing.T) {
	store := newTestStore(t)
	bucket := store.Bucket(BucketUploads)

	_, err := bucket.Open(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = bucket.Stat(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBucketIsolation(t *testing.T) {
	store := newTestStore(t)
	uploads := store.Bucket(BucketUploads)
	services := store.Bucket(BucketServices)
	ctx := context.Background()

	info, err := uploads.Put(ctx, "a.png", "image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)

	// reading against the wrong bucket behaves like not-found
	_, err = services.Open(ctx, info.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = uploads.Open(ctx, info.ID)
	assert.NoError(t, err)
}

func TestBucketDeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	bucket := store.Bucket(BucketUploads)
	ctx := context.Background()

	info, err := bucket.Put(ctx, "gone.pdf", "application/pdf", bytes.NewReader(randomBytes(t, 4096)))
	require.NoError(t, err)

	require.NoError(t, bucket.Delete(ctx, info.ID))

	_, err = bucket.Stat(ctx, info.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// second delete of the same id must not be fatal
	assert.NoError(t, bucket.Delete(ctx, info.ID))
}

func TestUploadStreamAbortLeavesNothing(t *testing.T) {
	store := newTestStore(t)
	bucket := store.Bucket(BucketUploads)
	ctx := context.Background()

	up, err := bucket.OpenUploadStream(ctx, "partial.bin", "application/octet-stream")
	require.NoError(t, err)

	// force a chunk row to exist before aborting
	_, err = up.Write(randomBytes(t, ChunkSize+10))
	require.NoError(t, err)

	id := up.ID()
	up.Abort()

	_, err = bucket.Stat(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	var chunks int
	require.NoError(t, store.db.Get(&chunks, "SELECT COUNT(*) FROM blob_chunks WHERE blob_id = ?", id.String()))
	assert.Zero(t, chunks)
}

func TestUploadStreamIDKnownBeforeClose(t *testing.T) {
	store := newTestStore(t)
	bucket := store.Bucket(BucketUploads)
	ctx := context.Background()

	up, err := bucket.OpenUploadStream(ctx, "early.bin", "application/octet-stream")
	require.NoError(t, err)

	id := up.ID()
	assert.NotEqual(t, uuid.Nil, id)

	// not visible until Close
	_, err = bucket.Stat(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = up.Write([]byte("bytes"))
	require.NoError(t, err)
	require.NoError(t, up.Close())

	info, err := bucket.Stat(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, int64(5), info.Length)
}

func TestUploadStreamWriteAfterClose(t *testing.T) {
	store := newTestStore(t)
	bucket := store.Bucket(BucketUploads)

	up, err := bucket.OpenUploadStream(context.Background(), "x", "")
	require.NoError(t, err)
	require.NoError(t, up.Close())

	_, err = up.Write([]byte("late"))
	assert.ErrorIs(t, err, ErrStreamClosed)
}
