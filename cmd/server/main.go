package main

import (
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/landylawliet99-blip/api-blog/internal/api"
	"github.com/landylawliet99-blip/api-blog/internal/config"
	"github.com/landylawliet99-blip/api-blog/internal/scraper"
	"github.com/landylawliet99-blip/api-blog/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	st, err := store.NewSQLite(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	metrics := scraper.NewMetrics()
	client := scraper.NewClient(cfg.ScraperUserAgent, cfg.ScraperTimeout)
	pipeline := scraper.NewPipeline(client, cfg.AffiliateTag, metrics)

	// Metrics listen on their own port so the public API surface stays
	// closed to them.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		addr := net.JoinHostPort(cfg.Host, cfg.MetricsPort)
		log.Printf("metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(api.CORSMiddleware(cfg.CORSOrigins))
	r.Use(api.SecurityHeaders())

	handlers := api.NewHandlers(st, pipeline, cfg.JWTSecret, cfg.TokenTTL, cfg.SiteDomain)
	api.SetupRoutes(r, handlers)

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	log.Printf("api listening on %s (env=%s)", addr, cfg.Environment)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
