package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// scheduleKey is the fixed row id of the singleton schedule entry. The table
// carries a CHECK constraint so a second row can never exist.
const scheduleKey = 1

// Schedule points at the current sailing-schedule PDF. At most one exists.
type Schedule struct {
	FileID      uuid.UUID `json:"fileId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type scheduleRow struct {
	FileID      string `db:"file_id"`
	Filename    string `db:"filename"`
	ContentType string `db:"content_type"`
	UploadedAt  string `db:"uploaded_at"`
}

// GetSchedule returns the current schedule pointer, or ErrNotFound when no
// schedule has been uploaded yet.
func (s *Store) GetSchedule(ctx context.Context) (*Schedule, error) {
	var row scheduleRow
	err := s.db.GetContext(ctx, &row,
		`SELECT file_id, filename, content_type, uploaded_at FROM schedule WHERE id = ?`,
		scheduleKey,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	fileID, err := uuid.Parse(row.FileID)
	if err != nil {
		return nil, fmt.Errorf("parse schedule file id %q: %w", row.FileID, err)
	}
	uploadedAt, _ := time.Parse(time.RFC3339, row.UploadedAt)
	return &Schedule{
		FileID:      fileID,
		Filename:    row.Filename,
		ContentType: row.ContentType,
		UploadedAt:  uploadedAt,
	}, nil
}

// UpsertSchedule atomically replaces the singleton schedule pointer and
// returns the file reference it displaced (nil on first upload). The upsert
// keys on the fixed row id, so there is never a window with zero entries.
func (s *Store) UpsertSchedule(ctx context.Context, sc *Schedule) (*uuid.UUID, error) {
	if sc.FileID == uuid.Nil {
		return nil, invalid("fileId", "must not be empty")
	}
	if sc.Filename == "" {
		return nil, invalid("filename", "must not be empty")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}

	var old *uuid.UUID
	var prev scheduleRow
	err = tx.GetContext(ctx, &prev,
		`SELECT file_id, filename, content_type, uploaded_at FROM schedule WHERE id = ?`,
		scheduleKey,
	)
	switch {
	case err == nil:
		if parsed, perr := uuid.Parse(prev.FileID); perr == nil {
			old = &parsed
		}
	case errors.Is(err, sql.ErrNoRows):
		// first upload
	default:
		tx.Rollback()
		return nil, fmt.Errorf("read current schedule: %w", err)
	}

	now := time.Now().UTC()
	sc.UploadedAt = now
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schedule (id, file_id, filename, content_type, uploaded_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			file_id = excluded.file_id,
			filename = excluded.filename,
			content_type = excluded.content_type,
			uploaded_at = excluded.uploaded_at`,
		scheduleKey, sc.FileID.String(), sc.Filename, sc.ContentType,
		now.Format(time.RFC3339),
	); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}
	return old, nil
}

// DeleteSchedule removes the singleton pointer and returns the file
// reference it held.
func (s *Store) DeleteSchedule(ctx context.Context) (*uuid.UUID, error) {
	current, err := s.GetSchedule(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM schedule WHERE id = ?`, scheduleKey,
	); err != nil {
		return nil, fmt.Errorf("delete schedule: %w", err)
	}

	old := current.FileID
	return &old, nil
}
