package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/emnesok/emnesok-api/internal/catalog"
	"github.com/emnesok/emnesok-api/internal/config"
	"github.com/emnesok/emnesok-api/internal/grades"
	"github.com/emnesok/emnesok-api/internal/search"
)

type Server struct {
	catalogs    *catalog.Service
	index       *search.Index
	results     *search.ResultCache
	avail       *search.Availability
	grades      *grades.Service
	rateLimiter *RateLimiter
	cfg         config.Config
}

// newServer wires the service graph from a Config. Split from NewServer so
// tests can point the fetchers at httptest servers.
func newServer(cfg config.Config) *Server {
	avail := search.NewAvailability()
	catalogs := catalog.NewService(cfg.CatalogBaseURL, nil)
	index := search.NewIndex(catalogs, avail)
	index.LoadSnapshot(cfg.SnapshotPath)

	s := &Server{
		catalogs:    catalogs,
		index:       index,
		results:     search.NewResultCache(cfg.SearchCacheSize, cfg.SearchCacheTTL),
		avail:       avail,
		grades:      grades.NewService(grades.NewClient(cfg.GradesAPIURL, nil)),
		rateLimiter: NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateWindowSeconds)*time.Second),
		cfg:         cfg,
	}

	for _, tag := range cfg.Preload {
		s.catalogs.Preload(tag)
	}
	return s
}

// NewServer builds the HTTP server from the environment.
func NewServer() *http.Server {
	cfg := config.Load()
	s := newServer(cfg)
	s.rateLimiter.StartCleanup(5 * time.Minute)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
