package api

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/landylawliet99-blip/api-blog/internal/model"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap serves sitemap.xml for the public site: the landing page,
// every published article and every product page. Drafts stay out.
func (h *Handlers) Sitemap(c *gin.Context) {
	articles, err := h.store.GetArticles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build sitemap"})
		return
	}
	products, err := h.store.GetProductsWithLinks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build sitemap"})
		return
	}

	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.siteDomain + "/", ChangeFreq: "daily", Priority: "1.0"},
		},
	}

	for _, a := range articles {
		if a.Status != model.StatusPublished {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteDomain + "/blog/" + a.Slug,
			LastMod:    a.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteDomain + "/product/" + p.ID,
			LastMod:    p.UpdatedAt.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build sitemap"})
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

// RobotsTxt serves robots.txt. AI crawlers are kept off the affiliate
// content; everyone else gets the sitemap pointer.
func (h *Handlers) RobotsTxt(c *gin.Context) {
	body := "User-agent: GPTBot\nDisallow: /\n\n" +
		"User-agent: ChatGPT-User\nDisallow: /\n\n" +
		"User-agent: CCBot\nDisallow: /\n\n" +
		"User-agent: *\nAllow: /\nDisallow: /api/\n\n" +
		"Sitemap: " + h.siteDomain + "/sitemap.xml\n"
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

// Manifest serves the PWA manifest for the frontend.
func (h *Handlers) Manifest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":             "Blog Laptops Gaming",
		"short_name":       "LaptopsGaming",
		"start_url":        "/",
		"display":          "standalone",
		"background_color": "#0f172a",
		"theme_color":      "#0f172a",
		"icons": []gin.H{
			{"src": "/icon-192.png", "sizes": "192x192", "type": "image/png"},
			{"src": "/icon-512.png", "sizes": "512x512", "type": "image/png"},
		},
	})
}
