package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/landylawliet99-blip/api-blog/internal/model"
	"github.com/landylawliet99-blip/api-blog/internal/scraper"
)

type stubExtractor struct {
	result *model.ProductExtraction
	err    error
	calls  int
}

func (s *stubExtractor) Extract(url string) (*model.ProductExtraction, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newScrapeRouter(ex Extractor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(nil, ex, "test-secret", time.Hour, "https://example.com")
	r := gin.New()
	r.POST("/api/scrape/product", h.ScrapeProduct)
	r.GET("/api/scrape/supported-stores", h.GetSupportedStores)
	r.GET("/api/scrape/status", h.GetScrapeStatus)
	return r
}

func postScrape(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/scrape/product", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestScrapeProductOK(t *testing.T) {
	price := 1299.99
	ex := &stubExtractor{result: &model.ProductExtraction{
		Name:  "ASUS ROG Strix G16",
		Brand: "ASUS",
		Price: model.Price{Current: &price},
		Store: "amazon",
	}}
	r := newScrapeRouter(ex)

	w := postScrape(r, `{"url":"https://www.amazon.com/dp/B0ABC123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ASUS ROG Strix G16")
	require.Equal(t, 1, ex.calls)
}

func TestScrapeProductValidation(t *testing.T) {
	ex := &stubExtractor{}
	r := newScrapeRouter(ex)

	tests := []string{
		`{}`,
		`{"url":""}`,
		`{"url":"not a url"}`,
		`{"url":"ftp://amazon.com/dp/B0"}`,
		`{"url":"/dp/B0ABC123"}`,
	}
	for _, body := range tests {
		w := postScrape(r, body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}

	// Nothing above should have reached the pipeline.
	require.Equal(t, 0, ex.calls)
}

func TestScrapeProductUnknownStore(t *testing.T) {
	ex := &stubExtractor{}
	r := newScrapeRouter(ex)

	w := postScrape(r, `{"url":"https://www.example.com/laptop/123"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "supported_stores")
	require.Contains(t, w.Body.String(), "amazon")
	// The store check fires before any network traffic.
	require.Equal(t, 0, ex.calls)
}

func TestScrapeProductFetchErrorStatus(t *testing.T) {
	tests := []struct {
		reason scraper.FetchReason
		status int
	}{
		{scraper.FetchTimeout, http.StatusRequestTimeout},
		{scraper.FetchNotFound, http.StatusBadRequest},
		{scraper.FetchConnectionRefused, http.StatusInternalServerError},
		{scraper.FetchOther, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		ex := &stubExtractor{err: &scraper.FetchError{
			URL:    "https://www.amazon.com/dp/B0",
			Reason: tt.reason,
		}}
		r := newScrapeRouter(ex)

		w := postScrape(r, `{"url":"https://www.amazon.com/dp/B0"}`)
		require.Equal(t, tt.status, w.Code, "reason %s", tt.reason)
	}
}

func TestGetSupportedStores(t *testing.T) {
	r := newScrapeRouter(&stubExtractor{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/scrape/supported-stores", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "amazon")
	require.Contains(t, w.Body.String(), "mercadolibre")
}

func TestGetScrapeStatus(t *testing.T) {
	r := newScrapeRouter(&stubExtractor{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/scrape/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "uptime_seconds")
}
