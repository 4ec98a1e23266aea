package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
)

// DownloadStream reads an object chunk-by-chunk. It is a single-pass,
// non-restartable reader; the whole object is never buffered.
type DownloadStream struct {
	ctx   context.Context
	store *Store
	info  *Info

	next   int // next chunk ordinal
	cur    []byte
	offset int
	eof    bool
	closed bool
}

// Info returns the metadata of the object being read.
func (d *DownloadStream) Info() *Info {
	return d.info
}

func (d *DownloadStream) Read(p []byte) (int, error) {
	if d.closed {
		return 0, ErrStreamClosed
	}

	for d.offset >= len(d.cur) {
		if d.eof {
			return 0, io.EOF
		}
		if err := d.fetchChunk(); err != nil {
			return 0, err
		}
		if d.eof && d.offset >= len(d.cur) {
			return 0, io.EOF
		}
	}

	n := copy(p, d.cur[d.offset:])
	d.offset += n
	return n, nil
}

func (d *DownloadStream) Close() error {
	d.closed = true
	d.cur = nil
	return nil
}

func (d *DownloadStream) fetchChunk() error {
	var data []byte
	err := d.store.db.GetContext(d.ctx, &data,
		`SELECT data FROM blob_chunks WHERE blob_id = ? AND n = ?`,
		d.info.ID.String(), d.next,
	)
	if errors.Is(err, sql.ErrNoRows) {
		d.eof = true
		d.cur = nil
		d.offset = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("read blob chunk %s/%d: %w", d.info.ID, d.next, err)
	}

	d.next++
	d.cur = data
	d.offset = 0
	if int64(len(data)) < ChunkSize {
		// short chunk terminates the object
		d.eof = true
	}
	return nil
}
