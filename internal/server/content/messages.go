package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborline/harborline/internal/utils"
)

// Message is a contact-form inquiry. The body is sanitized by the handler
// before it reaches the store.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *Message) validate() error {
	if m.Name == "" {
		return invalid("name", "must not be empty")
	}
	if err := utils.ValidateEmail(m.Email); err != nil {
		return invalid("email", "must be a valid address")
	}
	if m.Body == "" {
		return invalid("body", "must not be empty")
	}
	return nil
}

type messageRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Subject   string `db:"subject"`
	Body      string `db:"body"`
	CreatedAt string `db:"created_at"`
}

func (r *messageRow) message() (*Message, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse message id %q: %w", r.ID, err)
	}
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return &Message{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Subject:   r.Subject,
		Body:      r.Body,
		CreatedAt: createdAt,
	}, nil
}

// CreateMessage stores a contact inquiry.
func (s *Store) CreateMessage(ctx context.Context, m *Message) error {
	if err := m.validate(); err != nil {
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	now := time.Now().UTC()
	m.CreatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, name, email, subject, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.Name, m.Email, m.Subject, m.Body, now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// GetMessage fetches an inquiry by id.
func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*Message, error) {
	var row messageRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, email, subject, body, created_at FROM messages WHERE id = ?`,
		id.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return row.message()
}

// ListMessages returns all inquiries, newest first.
func (s *Store) ListMessages(ctx context.Context) ([]*Message, error) {
	var rows []messageRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, email, subject, body, created_at
		 FROM messages ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]*Message, 0, len(rows))
	for i := range rows {
		m, err := rows[i].message()
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// DeleteMessage removes an inquiry. Deleting an absent id is not an error.
func (s *Store) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id = ?`, id.String(),
	); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}
