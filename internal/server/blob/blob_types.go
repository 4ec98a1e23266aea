package blob

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Chunk size for stored objects. Matches the conventional 255 KiB chunk
// used by document-database file stores.
const ChunkSize = 255 * 1024

// Well-known bucket names. Writers and readers must agree on the bucket;
// a read against the wrong bucket behaves like ErrNotFound.
const (
	BucketUploads  = "uploads"
	BucketServices = "services"
)

var (
	// ErrNotFound is returned when no completed object exists for an id in a bucket.
	ErrNotFound = errors.New("blob not found")

	// ErrStreamClosed is returned on writes to a closed or aborted upload stream.
	ErrStreamClosed = errors.New("upload stream closed")
)

// Info describes a stored object. An object only becomes visible once its
// upload stream has been closed successfully.
type Info struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Bucket      string    `json:"bucket" db:"bucket"`
	Filename    string    `json:"filename" db:"filename"`
	ContentType string    `json:"contentType" db:"content_type"`
	Length      int64     `json:"length" db:"length"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
