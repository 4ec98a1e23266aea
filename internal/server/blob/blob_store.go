package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS blob_objects (
	id TEXT PRIMARY KEY,
	bucket TEXT NOT NULL,
	filename TEXT NOT NULL,
	content_type TEXT NOT NULL,
	length INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_blob_objects_bucket ON blob_objects(bucket);

CREATE TABLE IF NOT EXISTS blob_chunks (
	blob_id TEXT NOT NULL,
	n INTEGER NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY (blob_id, n)
);
`

// Store is a chunked binary-object repository backed by SQLite. Objects are
// written chunk-by-chunk; the metadata row is only inserted when the upload
// stream closes, so interrupted writes are never visible to readers.
type Store struct {
	db *sqlx.DB
}

// NewStore initializes the blob schema on the given database connection.
func NewStore(db *sqlx.DB) (*Store, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("initialize blob store: %w", err)
	}
	return &Store{db: db}, nil
}

// Bucket returns a handle for a named bucket. Handles are cheap and carry no
// state beyond the name; construct them once at wire-up and inject them.
func (s *Store) Bucket(name string) *Bucket {
	return &Bucket{store: s, name: name}
}

// Bucket is a namespaced view over the store.
type Bucket struct {
	store *Store
	name  string
}

func (b *Bucket) Name() string {
	return b.name
}

// OpenUploadStream begins a streamed write. The object id is assigned here,
// before any bytes are written; the object becomes readable only after Close.
func (b *Bucket) OpenUploadStream(ctx context.Context, filename, contentType string) (*UploadStream, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &UploadStream{
		ctx:         ctx,
		store:       b.store,
		bucket:      b.name,
		id:          uuid.New(),
		filename:    filename,
		contentType: contentType,
		buf:         make([]byte, 0, ChunkSize),
	}, nil
}

// Put uploads the full contents of r as a single object. On any error the
// partial write is aborted and nothing remains visible.
func (b *Bucket) Put(ctx context.Context, filename, contentType string, r io.Reader) (*Info, error) {
	up, err := b.OpenUploadStream(ctx, filename, contentType)
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(up, r); err != nil {
		up.Abort()
		return nil, fmt.Errorf("write blob %s: %w", up.ID(), err)
	}

	if err := up.Close(); err != nil {
		return nil, fmt.Errorf("finalize blob %s: %w", up.ID(), err)
	}

	return b.Stat(ctx, up.ID())
}

// Stat returns the metadata of a completed object, or ErrNotFound.
func (b *Bucket) Stat(ctx context.Context, id uuid.UUID) (*Info, error) {
	var row blobRow
	err := b.store.db.GetContext(ctx, &row,
		`SELECT id, bucket, filename, content_type, length, created_at
		 FROM blob_objects WHERE id = ? AND bucket = ?`,
		id.String(), b.name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat blob %s: %w", id, err)
	}
	return row.info()
}

// Open returns a lazy chunk-by-chunk reader for a completed object.
func (b *Bucket) Open(ctx context.Context, id uuid.UUID) (*DownloadStream, error) {
	info, err := b.Stat(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DownloadStream{
		ctx:   ctx,
		store: b.store,
		info:  info,
	}, nil
}

// Delete removes an object and its chunks. Deleting an absent id is not an
// error; callers rely on this for cleanup after partial failures.
func (b *Bucket) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := b.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM blob_objects WHERE id = ? AND bucket = ?`, id.String(), b.name,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete blob %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM blob_chunks WHERE blob_id = ?`, id.String(),
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete blob chunks %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

type blobRow struct {
	ID          string `db:"id"`
	Bucket      string `db:"bucket"`
	Filename    string `db:"filename"`
	ContentType string `db:"content_type"`
	Length      int64  `db:"length"`
	CreatedAt   string `db:"created_at"`
}

func (r *blobRow) info() (*Info, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse blob id %q: %w", r.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse blob created_at %q: %w", r.CreatedAt, err)
	}
	return &Info{
		ID:          id,
		Bucket:      r.Bucket,
		Filename:    r.Filename,
		ContentType: r.ContentType,
		Length:      r.Length,
		CreatedAt:   createdAt,
	}, nil
}
