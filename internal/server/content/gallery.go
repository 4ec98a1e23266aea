package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GalleryEntry is a photo in the site gallery. The image reference is
// required; the creation ordering in the media protocol guarantees it always
// resolves in the blob store.
type GalleryEntry struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageID   uuid.UUID `json:"imageId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g *GalleryEntry) validate() error {
	if g.Title == "" {
		return invalid("title", "must not be empty")
	}
	if g.ImageID == uuid.Nil {
		return invalid("imageId", "must not be empty")
	}
	return nil
}

type galleryRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	ImageID   string `db:"image_id"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r *galleryRow) entry() (*GalleryEntry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse gallery id %q: %w", r.ID, err)
	}
	imageID, err := uuid.Parse(r.ImageID)
	if err != nil {
		return nil, fmt.Errorf("parse gallery image id %q: %w", r.ImageID, err)
	}
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, r.UpdatedAt)
	return &GalleryEntry{
		ID:        id,
		Title:     r.Title,
		ImageID:   imageID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// CreateGalleryEntry inserts a new entry. Validation failures happen before
// any write.
func (s *Store) CreateGalleryEntry(ctx context.Context, g *GalleryEntry) error {
	if err := g.validate(); err != nil {
		return err
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}

	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gallery_entries (id, title, image_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		g.ID.String(), g.Title, g.ImageID.String(),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create gallery entry: %w", err)
	}
	return nil
}

// GetGalleryEntry fetches an entry by id.
func (s *Store) GetGalleryEntry(ctx context.Context, id uuid.UUID) (*GalleryEntry, error) {
	var row galleryRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, title, image_id, created_at, updated_at FROM gallery_entries WHERE id = ?`,
		id.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get gallery entry %s: %w", id, err)
	}
	return row.entry()
}

// ListGallery returns all entries, newest first.
func (s *Store) ListGallery(ctx context.Context) ([]*GalleryEntry, error) {
	var rows []galleryRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, title, image_id, created_at, updated_at
		 FROM gallery_entries ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}

	entries := make([]*GalleryEntry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// UpdateGalleryTitle renames an entry without touching its image.
func (s *Store) UpdateGalleryTitle(ctx context.Context, id uuid.UUID, title string) error {
	if title == "" {
		return invalid("title", "must not be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE gallery_entries SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC().Format(time.RFC3339), id.String(),
	)
	if err != nil {
		return fmt.Errorf("update gallery entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapGalleryImage writes newID as the entry's image reference and returns
// the reference it replaced.
func (s *Store) SwapGalleryImage(ctx context.Context, id uuid.UUID, newID uuid.UUID) (*uuid.UUID, error) {
	entry, err := s.GetGalleryEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE gallery_entries SET image_id = ?, updated_at = ? WHERE id = ?`,
		newID.String(), time.Now().UTC().Format(time.RFC3339), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("swap gallery image %s: %w", id, err)
	}

	old := entry.ImageID
	return &old, nil
}

// DeleteGalleryEntry removes the document record and returns the blob
// reference it held, so the caller can retire the blob afterwards.
func (s *Store) DeleteGalleryEntry(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	entry, err := s.GetGalleryEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM gallery_entries WHERE id = ?`, id.String(),
	); err != nil {
		return nil, fmt.Errorf("delete gallery entry %s: %w", id, err)
	}

	old := entry.ImageID
	return &old, nil
}
