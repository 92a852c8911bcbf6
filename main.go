package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"reelpick/api"
	"reelpick/config"
	"reelpick/handlers"
	"reelpick/services/catalog"
	"reelpick/utils"
)

func main() {
	cfg := config.Load()
	if cfg.TMDBAPIKey == "" {
		log.Printf("[startup] WARNING: TMDB_API_KEY is not set; catalog requests will fail")
	}

	svc := catalog.NewService(cfg.TMDBAPIKey, cfg.Language, nil, nil)
	h := handlers.NewCatalogHandler(svc)

	r := utils.NewRouter()
	r.Use(api.RequestLogger)

	limiter := api.NewIPRateLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst)
	register := func(path string, fn http.HandlerFunc) {
		r.HandleFunc(path, api.RateLimit(limiter, fn)).Methods(http.MethodGet)
	}
	register("/search", h.Search)
	register("/similar", h.Similar)
	register("/random", h.Random)
	register("/genre", h.Genre)
	register("/popular", h.Popular)
	register("/suggest", h.Suggest)
	register("/discover", h.Discover)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[startup] listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[startup] server error: %v", err)
	}
}
