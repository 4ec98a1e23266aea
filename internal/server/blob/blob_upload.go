package blob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// UploadStream buffers writes into fixed-size chunks and inserts each chunk
// as it fills. The metadata row that makes the object visible is inserted by
// Close; until then readers cannot observe the object, and Abort removes any
// chunks already written.
type UploadStream struct {
	ctx         context.Context
	store       *Store
	bucket      string
	id          uuid.UUID
	filename    string
	contentType string

	buf     []byte
	next    int // next chunk ordinal
	written int64
	closed  bool
	aborted bool
}

// ID returns the object identifier. It is known from the moment the stream is
// opened, before any bytes complete.
func (u *UploadStream) ID() uuid.UUID {
	return u.id
}

func (u *UploadStream) Write(p []byte) (int, error) {
	if u.closed || u.aborted {
		return 0, ErrStreamClosed
	}

	total := 0
	for len(p) > 0 {
		space := ChunkSize - len(u.buf)
		n := min(space, len(p))
		u.buf = append(u.buf, p[:n]...)
		p = p[n:]
		total += n

		if len(u.buf) == ChunkSize {
			if err := u.flushChunk(); err != nil {
				return total, err
			}
		}
	}
	u.written += int64(total)
	return total, nil
}

// Close flushes the trailing chunk and commits the metadata row. If the
// commit fails the chunks are removed so no partial object survives.
func (u *UploadStream) Close() error {
	if u.closed || u.aborted {
		return ErrStreamClosed
	}
	u.closed = true

	if len(u.buf) > 0 {
		if err := u.flushChunk(); err != nil {
			u.discardChunks()
			return err
		}
	}

	_, err := u.store.db.ExecContext(u.ctx,
		`INSERT INTO blob_objects (id, bucket, filename, content_type, length, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.id.String(), u.bucket, u.filename, u.contentType, u.written,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		u.discardChunks()
		return fmt.Errorf("commit blob %s: %w", u.id, err)
	}
	return nil
}

// Abort discards the stream and any chunks written so far.
func (u *UploadStream) Abort() {
	if u.closed || u.aborted {
		return
	}
	u.aborted = true
	u.discardChunks()
}

func (u *UploadStream) flushChunk() error {
	_, err := u.store.db.ExecContext(u.ctx,
		`INSERT INTO blob_chunks (blob_id, n, data) VALUES (?, ?, ?)`,
		u.id.String(), u.next, u.buf,
	)
	if err != nil {
		return fmt.Errorf("write blob chunk %s/%d: %w", u.id, u.next, err)
	}
	u.next++
	u.buf = u.buf[:0]
	return nil
}

func (u *UploadStream) discardChunks() {
	if _, err := u.store.db.Exec(
		`DELETE FROM blob_chunks WHERE blob_id = ?`, u.id.String(),
	); err != nil {
		slog.Error("discard blob chunks", "blob", u.id, "error", err)
	}
}
