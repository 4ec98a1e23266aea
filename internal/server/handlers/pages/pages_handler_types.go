package pages

import "github.com/harborline/harborline/internal/server/content"

type UpsertRequest struct {
	// Slug is only honored on create; updates address the page by path.
	Slug     string            `json:"slug"`
	Title    string            `json:"title" binding:"required"`
	Sections []content.Section `json:"sections"`
}
