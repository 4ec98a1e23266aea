package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Page is an editable content page addressed by slug. Sections are an
// ordered list of tagged variants stored as a JSON column.
type Page struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Page) validate() error {
	if p.Slug == "" {
		return invalid("slug", "must not be empty")
	}
	if p.Title == "" {
		return invalid("title", "must not be empty")
	}
	return nil
}

type pageRow struct {
	Slug      string `db:"slug"`
	Title     string `db:"title"`
	Sections  string `db:"sections"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r *pageRow) page() (*Page, error) {
	var sections []Section
	if err := json.Unmarshal([]byte(r.Sections), &sections); err != nil {
		return nil, fmt.Errorf("decode sections for page %q: %w", r.Slug, err)
	}
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, r.UpdatedAt)
	return &Page{
		Slug:      r.Slug,
		Title:     r.Title,
		Sections:  sections,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// NormalizeSlug turns an arbitrary title or slug candidate into a URL slug.
func NormalizeSlug(s string) string {
	return slug.Make(s)
}

// CreatePage inserts a new page. The slug is normalized before insert.
func (s *Store) CreatePage(ctx context.Context, p *Page) error {
	p.Slug = NormalizeSlug(p.Slug)
	if err := p.validate(); err != nil {
		return err
	}
	if p.Sections == nil {
		p.Sections = []Section{}
	}

	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pages (slug, title, sections, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.Slug, p.Title, string(sections),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create page %q: %w", p.Slug, err)
	}
	return nil
}

// GetPage fetches a page by slug.
func (s *Store) GetPage(ctx context.Context, pageSlug string) (*Page, error) {
	var row pageRow
	err := s.db.GetContext(ctx, &row,
		`SELECT slug, title, sections, created_at, updated_at FROM pages WHERE slug = ?`,
		NormalizeSlug(pageSlug),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get page %q: %w", pageSlug, err)
	}
	return row.page()
}

// ListPages returns all pages ordered by slug.
func (s *Store) ListPages(ctx context.Context) ([]*Page, error) {
	var rows []pageRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT slug, title, sections, created_at, updated_at FROM pages ORDER BY slug`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	pages := make([]*Page, 0, len(rows))
	for i := range rows {
		p, err := rows[i].page()
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// UpdatePage replaces a page's title and sections.
func (s *Store) UpdatePage(ctx context.Context, p *Page) error {
	p.Slug = NormalizeSlug(p.Slug)
	if err := p.validate(); err != nil {
		return err
	}

	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE pages SET title = ?, sections = ?, updated_at = ? WHERE slug = ?`,
		p.Title, string(sections), now.Format(time.RFC3339), p.Slug,
	)
	if err != nil {
		return fmt.Errorf("update page %q: %w", p.Slug, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	p.UpdatedAt = now
	return nil
}

// SwapSectionImage writes newID into the image slot of the indexed section
// and returns the reference it replaced (nil when the slot was empty). Other
// sections and fields are left untouched.
func (s *Store) SwapSectionImage(ctx context.Context, pageSlug string, index int, newID uuid.UUID) (*uuid.UUID, error) {
	page, err := s.GetPage(ctx, pageSlug)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(page.Sections) {
		return nil, invalid("section", fmt.Sprintf("index %d out of range", index))
	}

	old, err := page.Sections[index].setImageRef(newID)
	if err != nil {
		return nil, err
	}

	if err := s.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	return old, nil
}
