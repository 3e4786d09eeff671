package model

import "time"

// Article statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Article is a blog post. Status is either "draft" or "published"; only
// published articles appear in the public view and the sitemap.
type Article struct {
	ID            string           `json:"id" db:"id"`
	Title         string           `json:"title" db:"title"`
	Slug          string           `json:"slug" db:"slug"`
	Excerpt       string           `json:"excerpt,omitempty" db:"excerpt"`
	Content       string           `json:"content" db:"content"`
	CoverImageURL string           `json:"cover_image_url,omitempty" db:"cover_image_url"`
	Status        string           `json:"status" db:"status"`
	Products      []ArticleProduct `json:"products,omitempty"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}
