package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/landylawliet99-blip/api-blog/internal/scraper"
)

// ScrapeProduct runs the extraction pipeline against a product URL and
// returns the best-effort record. Validation happens before any network
// traffic: a bad URL or an unrecognized store never costs a fetch.
func (h *Handlers) ScrapeProduct(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product URL"})
		return
	}

	if scraper.DetectStore(req.URL) == scraper.StoreUnknown {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "unsupported store",
			"supported_stores": scraper.SupportedStores(),
		})
		return
	}

	result, err := h.extractor.Extract(req.URL)
	if err != nil {
		c.JSON(fetchErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSupportedStores lists the stores the pipeline can extract from
func (h *Handlers) GetSupportedStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stores": scraper.SupportedStores(),
	})
}

// GetScrapeStatus reports scraper service status
func (h *Handlers) GetScrapeStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"stores":         scraper.SupportedStores(),
	})
}

// fetchErrorStatus maps pipeline fetch failures onto HTTP statuses: a
// page that timed out is 408, a page that does not exist is the caller's
// mistake (400), everything else is on us.
func fetchErrorStatus(err error) int {
	var fe *scraper.FetchError
	if !errors.As(err, &fe) {
		return http.StatusInternalServerError
	}
	switch fe.Reason {
	case scraper.FetchTimeout:
		return http.StatusRequestTimeout
	case scraper.FetchNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
