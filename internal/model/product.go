package model

import "time"

// Product represents a laptop reviewed on the blog.
type Product struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Brand     string          `json:"brand,omitempty" db:"brand"`
	Model     string          `json:"model,omitempty" db:"model"`
	ImageURL  string          `json:"image_url,omitempty" db:"image_url"`
	Specs     SpecSheet       `json:"specs" db:"specs"`
	Links     []AffiliateLink `json:"affiliate_links,omitempty"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// AffiliateLink is a store listing for a product, carrying the tagged URL
// and the price data tracked for it.
type AffiliateLink struct {
	ID                 string    `json:"id" db:"id"`
	ProductID          string    `json:"product_id" db:"product_id"`
	Store              string    `json:"store" db:"store"`
	URL                string    `json:"url" db:"url"`
	BasePrice          *float64  `json:"base_price,omitempty" db:"base_price"`
	CurrentPrice       *float64  `json:"current_price,omitempty" db:"current_price"`
	OriginalPrice      *float64  `json:"original_price,omitempty" db:"original_price"`
	DiscountPercentage *float64  `json:"discount_percentage,omitempty" db:"discount_percentage"`
	IsActive           bool      `json:"is_active" db:"is_active"`
	Notes              string    `json:"notes,omitempty" db:"notes"`
	LastUpdated        time.Time `json:"last_updated" db:"last_updated"`
}

// ArticleProduct ties a product into an article (for "Top 10" style posts).
type ArticleProduct struct {
	ArticleID   string   `json:"article_id,omitempty"`
	ProductID   string   `json:"product_id,omitempty"`
	ReviewNotes string   `json:"review_notes"`
	Product     *Product `json:"product,omitempty"`
}
