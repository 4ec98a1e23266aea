package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Location is a shipping location shown on the map. Coordinates are filled
// in by the geocoding collaborator when the admin omits them.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Location) validate() error {
	if l.Name == "" {
		return invalid("name", "must not be empty")
	}
	if l.Address == "" {
		return invalid("address", "must not be empty")
	}
	return nil
}

type locationRow struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Address   string          `db:"address"`
	Lat       sql.NullFloat64 `db:"lat"`
	Lng       sql.NullFloat64 `db:"lng"`
	CreatedAt string          `db:"created_at"`
}

func (r *locationRow) location() (*Location, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse location id %q: %w", r.ID, err)
	}

	loc := &Location{ID: id, Name: r.Name, Address: r.Address}
	if r.Lat.Valid {
		loc.Lat = &r.Lat.Float64
	}
	if r.Lng.Valid {
		loc.Lng = &r.Lng.Float64
	}
	loc.CreatedAt, _ = time.Parse(time.RFC3339, r.CreatedAt)
	return loc, nil
}

// CreateLocation inserts a new location.
func (s *Store) CreateLocation(ctx context.Context, l *Location) error {
	if err := l.validate(); err != nil {
		return err
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	var lat, lng any
	if l.Lat != nil {
		lat = *l.Lat
	}
	if l.Lng != nil {
		lng = *l.Lng
	}

	now := time.Now().UTC()
	l.CreatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO locations (id, name, address, lat, lng, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID.String(), l.Name, l.Address, lat, lng, now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create location %q: %w", l.Name, err)
	}
	return nil
}

// GetLocation fetches a location by id.
func (s *Store) GetLocation(ctx context.Context, id uuid.UUID) (*Location, error) {
	var row locationRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, address, lat, lng, created_at FROM locations WHERE id = ?`,
		id.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get location %s: %w", id, err)
	}
	return row.location()
}

// ListLocations returns all locations ordered by name.
func (s *Store) ListLocations(ctx context.Context) ([]*Location, error) {
	var rows []locationRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, address, lat, lng, created_at FROM locations ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	locations := make([]*Location, 0, len(rows))
	for i := range rows {
		l, err := rows[i].location()
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, nil
}

// UpdateLocation replaces all mutable fields of a location.
func (s *Store) UpdateLocation(ctx context.Context, l *Location) error {
	if err := l.validate(); err != nil {
		return err
	}

	var lat, lng any
	if l.Lat != nil {
		lat = *l.Lat
	}
	if l.Lng != nil {
		lng = *l.Lng
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE locations SET name = ?, address = ?, lat = ?, lng = ? WHERE id = ?`,
		l.Name, l.Address, lat, lng, l.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update location %s: %w", l.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLocation removes a location. Deleting an absent id is not an error.
func (s *Store) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM locations WHERE id = ?`, id.String(),
	); err != nil {
		return fmt.Errorf("delete location %s: %w", id, err)
	}
	return nil
}
