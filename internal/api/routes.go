package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	// SEO surface lives at the site root, not under /api
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/robots.txt", h.RobotsTxt)
	r.GET("/manifest.json", h.Manifest)

	v1 := r.Group("/api")
	{
		// Health check (handle both GET and HEAD)
		v1.GET("/health", h.HealthCheck)
		v1.HEAD("/health", h.HealthCheck)

		// Auth
		v1.POST("/auth/login", h.Login)
		v1.GET("/auth/validate", h.RequireAuth(), h.ValidateToken)
		v1.POST("/auth/register", h.RequireAuth(), h.RequireAdmin(), h.Register)

		// Public blog view
		v1.GET("/blog/:slug", h.GetPublishedArticle)

		// Public catalog
		v1.GET("/articles", h.GetArticles)
		v1.GET("/articles/:id", h.GetArticle)
		v1.GET("/products", h.GetProducts)
		v1.GET("/products/:id", h.GetProduct)

		// Scraping
		v1.GET("/scrape/supported-stores", h.GetSupportedStores)
		v1.GET("/scrape/status", h.GetScrapeStatus)

		// Admin: everything below mutates content
		admin := v1.Group("", h.RequireAuth(), h.RequireAdmin())
		{
			admin.POST("/scrape/product", h.ScrapeProduct)

			admin.POST("/articles", h.CreateArticle)
			admin.PUT("/articles/:id", h.UpdateArticle)
			admin.DELETE("/articles/:id", h.DeleteArticle)
			admin.POST("/articles/:id/products", h.LinkProductToArticle)

			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.POST("/products/:id/links", h.AddAffiliateLink)
			admin.PUT("/links/:linkId", h.UpdateAffiliateLink)
			admin.DELETE("/links/:linkId", h.DeleteAffiliateLink)
		}
	}
}
