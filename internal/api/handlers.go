package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/landylawliet99-blip/api-blog/internal/model"
	"github.com/landylawliet99-blip/api-blog/internal/scraper"
	"github.com/landylawliet99-blip/api-blog/internal/store"
)

// StoreInterface defines the store interface needed by handlers
type StoreInterface interface {
	// Article operations
	CreateArticle(a *model.Article) error
	GetArticles() ([]*model.Article, error)
	GetArticleByID(id string) (*model.Article, error)
	GetArticleBySlug(slug string) (*model.Article, error)
	GetPublishedArticleWithProducts(slug string) (*model.Article, error)
	UpdateArticle(id string, updates map[string]any) (*model.Article, error)
	DeleteArticle(id string) error

	// Product operations
	CreateProduct(p *model.Product) error
	GetProductsWithLinks() ([]*model.Product, error)
	GetProductByID(id string) (*model.Product, error)
	UpdateProduct(id string, updates map[string]any) (*model.Product, error)
	DeleteProduct(id string) error

	// Affiliate link operations
	AddAffiliateLink(l *model.AffiliateLink) error
	UpdateAffiliateLink(id string, updates map[string]any) (*model.AffiliateLink, error)
	DeleteAffiliateLink(id string) error

	// Article-product relations
	LinkProductToArticle(articleID, productID, reviewNotes string) error

	// User operations
	CreateUser(u *model.User) error
	GetUserByEmail(email string) (*model.User, error)
}

// Extractor runs the product-page extraction pipeline for the scrape
// endpoint.
type Extractor interface {
	Extract(url string) (*model.ProductExtraction, error)
}

// Handlers contains all API handlers
type Handlers struct {
	store      StoreInterface
	extractor  Extractor
	jwtSecret  []byte
	tokenTTL   time.Duration
	siteDomain string
	startedAt  time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(st StoreInterface, extractor Extractor, jwtSecret string, tokenTTL time.Duration, siteDomain string) *Handlers {
	return &Handlers{
		store:      st,
		extractor:  extractor,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		siteDomain: strings.TrimRight(siteDomain, "/"),
		startedAt:  time.Now(),
	}
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// ==================== Articles ====================

// CreateArticle creates a new blog article
func (h *Handlers) CreateArticle(c *gin.Context) {
	var req struct {
		Title         string `json:"title" binding:"required"`
		Slug          string `json:"slug" binding:"required"`
		Excerpt       string `json:"excerpt"`
		Content       string `json:"content" binding:"required"`
		CoverImageURL string `json:"cover_image_url"`
		Status        string `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, slug and content are required"})
		return
	}
	if req.Status != "" && req.Status != model.StatusDraft && req.Status != model.StatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or published"})
		return
	}

	article := &model.Article{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Status:        req.Status,
	}

	if err := h.store.CreateArticle(article); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "an article with that slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create article"})
		return
	}

	c.JSON(http.StatusCreated, article)
}

// GetArticles returns all articles, drafts included (admin view)
func (h *Handlers) GetArticles(c *gin.Context) {
	articles, err := h.store.GetArticles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load articles"})
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.JSON(http.StatusOK, gin.H{
		"count":    len(articles),
		"articles": articles,
	})
}

// GetArticle returns a single article by ID
func (h *Handlers) GetArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.store.GetArticleByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// GetPublishedArticle returns a published article by slug, with its
// linked products. This is the public blog view; drafts 404.
func (h *Handlers) GetPublishedArticle(c *gin.Context) {
	slug := c.Param("slug")

	article, err := h.store.GetPublishedArticleWithProducts(slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load article"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// UpdateArticle applies a partial update to an article
func (h *Handlers) UpdateArticle(c *gin.Context) {
	id := c.Param("id")

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if status, ok := updates["status"].(string); ok && status != model.StatusDraft && status != model.StatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or published"})
		return
	}

	article, err := h.store.UpdateArticle(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		case errors.Is(err, store.ErrNoFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		case isUniqueViolation(err):
			c.JSON(http.StatusConflict, gin.H{"error": "an article with that slug already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update article"})
		}
		return
	}

	c.JSON(http.StatusOK, article)
}

// DeleteArticle deletes an article
func (h *Handlers) DeleteArticle(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteArticle(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// ==================== Products ====================

// CreateProduct creates a product record, typically from an extraction
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req struct {
		Name     string          `json:"name" binding:"required"`
		Brand    string          `json:"brand"`
		Model    string          `json:"model"`
		ImageURL string          `json:"image_url"`
		Specs    model.SpecSheet `json:"specs"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	product := &model.Product{
		Name:     req.Name,
		Brand:    req.Brand,
		Model:    req.Model,
		ImageURL: req.ImageURL,
		Specs:    req.Specs,
	}

	if err := h.store.CreateProduct(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts returns all products with their affiliate links
func (h *Handlers) GetProducts(c *gin.Context) {
	products, err := h.store.GetProductsWithLinks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// GetProduct returns a single product by ID
func (h *Handlers) GetProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := h.store.GetProductByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct applies a partial update to a product
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.store.UpdateProduct(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, store.ErrNoFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct deletes a product and its affiliate links
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteProduct(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// ==================== Affiliate links ====================

// AddAffiliateLink attaches a store listing to a product
func (h *Handlers) AddAffiliateLink(c *gin.Context) {
	productID := c.Param("id")

	var req struct {
		Store         string   `json:"store" binding:"required"`
		URL           string   `json:"url" binding:"required"`
		BasePrice     *float64 `json:"base_price"`
		CurrentPrice  *float64 `json:"current_price"`
		OriginalPrice *float64 `json:"original_price"`
		Notes         string   `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store and url are required"})
		return
	}
	if !isSupportedStore(req.Store) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "unsupported store",
			"supported_stores": scraper.SupportedStores(),
		})
		return
	}

	link := &model.AffiliateLink{
		ProductID:     productID,
		Store:         req.Store,
		URL:           req.URL,
		BasePrice:     req.BasePrice,
		CurrentPrice:  req.CurrentPrice,
		OriginalPrice: req.OriginalPrice,
		Notes:         req.Notes,
	}

	if err := h.store.AddAffiliateLink(link); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add affiliate link"})
		return
	}

	c.JSON(http.StatusCreated, link)
}

// linkUpdateFields is the set of fields a link update may touch; anything
// else in the request body is rejected rather than silently dropped.
var linkUpdateFields = map[string]bool{
	"is_active":           true,
	"current_price":       true,
	"original_price":      true,
	"discount_percentage": true,
	"notes":               true,
}

// UpdateAffiliateLink updates price and status fields on a link
func (h *Handlers) UpdateAffiliateLink(c *gin.Context) {
	id := c.Param("linkId")

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for k := range updates {
		if !linkUpdateFields[k] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "field cannot be updated: " + k})
			return
		}
	}

	link, err := h.store.UpdateAffiliateLink(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "affiliate link not found"})
		case errors.Is(err, store.ErrNoFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update affiliate link"})
		}
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeleteAffiliateLink removes a single affiliate link
func (h *Handlers) DeleteAffiliateLink(c *gin.Context) {
	id := c.Param("linkId")

	if err := h.store.DeleteAffiliateLink(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "affiliate link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete affiliate link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "affiliate link deleted"})
}

// LinkProductToArticle relates a product to an article
func (h *Handlers) LinkProductToArticle(c *gin.Context) {
	articleID := c.Param("id")

	var req struct {
		ProductID   string `json:"product_id" binding:"required"`
		ReviewNotes string `json:"review_notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	if err := h.store.LinkProductToArticle(articleID, req.ProductID, req.ReviewNotes); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article or product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product linked to article"})
}

// ==================== Helpers ====================

func isSupportedStore(s string) bool {
	for _, id := range scraper.SupportedStores() {
		if string(id) == s {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
