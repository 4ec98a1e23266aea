package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service is a listed shipping service. Its image, when present, lives in
// the services bucket rather than the general uploads bucket.
type Service struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageID     *uuid.UUID `json:"imageId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (v *Service) validate() error {
	if v.Title == "" {
		return invalid("title", "must not be empty")
	}
	if v.Slug == "" {
		return invalid("slug", "must not be empty")
	}
	return nil
}

type serviceRow struct {
	ID          string         `db:"id"`
	Slug        string         `db:"slug"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	ImageID     sql.NullString `db:"image_id"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r *serviceRow) service() (*Service, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse service id %q: %w", r.ID, err)
	}

	var imageID *uuid.UUID
	if r.ImageID.Valid && r.ImageID.String != "" {
		parsed, err := uuid.Parse(r.ImageID.String)
		if err != nil {
			return nil, fmt.Errorf("parse service image id %q: %w", r.ImageID.String, err)
		}
		imageID = &parsed
	}

	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, r.UpdatedAt)
	return &Service{
		ID:          id,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		ImageID:     imageID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// CreateService inserts a new service listing. The slug defaults to a
// normalized form of the title.
func (s *Store) CreateService(ctx context.Context, v *Service) error {
	if v.Slug == "" {
		v.Slug = NormalizeSlug(v.Title)
	} else {
		v.Slug = NormalizeSlug(v.Slug)
	}
	if err := v.validate(); err != nil {
		return err
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	var imageID any
	if v.ImageID != nil {
		imageID = v.ImageID.String()
	}

	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO services (id, slug, title, description, image_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID.String(), v.Slug, v.Title, v.Description, imageID,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create service %q: %w", v.Slug, err)
	}
	return nil
}

// GetService fetches a service by id.
func (s *Store) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	var row serviceRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, slug, title, description, image_id, created_at, updated_at
		 FROM services WHERE id = ?`,
		id.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service %s: %w", id, err)
	}
	return row.service()
}

// ListServices returns all services ordered by title.
func (s *Store) ListServices(ctx context.Context) ([]*Service, error) {
	var rows []serviceRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, slug, title, description, image_id, created_at, updated_at
		 FROM services ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	services := make([]*Service, 0, len(rows))
	for i := range rows {
		v, err := rows[i].service()
		if err != nil {
			return nil, err
		}
		services = append(services, v)
	}
	return services, nil
}

// UpdateService replaces title, slug and description; the image reference is
// only touched through SwapServiceImage.
func (s *Store) UpdateService(ctx context.Context, v *Service) error {
	v.Slug = NormalizeSlug(v.Slug)
	if err := v.validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE services SET slug = ?, title = ?, description = ?, updated_at = ? WHERE id = ?`,
		v.Slug, v.Title, v.Description,
		time.Now().UTC().Format(time.RFC3339), v.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update service %s: %w", v.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapServiceImage writes newID as the service's image reference and returns
// the reference it replaced (nil when it had none).
func (s *Store) SwapServiceImage(ctx context.Context, id uuid.UUID, newID uuid.UUID) (*uuid.UUID, error) {
	v, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE services SET image_id = ?, updated_at = ? WHERE id = ?`,
		newID.String(), time.Now().UTC().Format(time.RFC3339), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("swap service image %s: %w", id, err)
	}
	return v.ImageID, nil
}

// DeleteService removes the record and returns the blob reference it held,
// if any.
func (s *Store) DeleteService(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	v, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM services WHERE id = ?`, id.String(),
	); err != nil {
		return nil, fmt.Errorf("delete service %s: %w", id, err)
	}
	return v.ImageID, nil
}
