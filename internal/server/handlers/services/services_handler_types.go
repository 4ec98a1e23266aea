package services

// UpsertRequest carries the mutable fields of a service listing. The slug is
// optional on create; it defaults to a normalized form of the title.
type UpsertRequest struct {
	Slug        string `json:"slug"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}
