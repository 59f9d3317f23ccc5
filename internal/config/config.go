// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults are suitable for local development against the public resources.
const (
	DefaultPort           = 8080
	DefaultCatalogBaseURL = "https://data.emnesok.no/catalogs"
	DefaultGradesAPIURL   = "https://data.emnesok.no/api/grades"

	DefaultRateLimit         = 60
	DefaultRateWindowSeconds = 60

	DefaultSearchCacheSize = 256
	DefaultSearchCacheTTL  = 5 * time.Minute
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port           int
	CatalogBaseURL string
	GradesAPIURL   string
	SnapshotPath   string

	// Preload lists institution tags to warm at boot, comma separated in
	// PRELOAD_INSTITUTIONS.
	Preload []string

	RateLimit         int
	RateWindowSeconds int

	SearchCacheSize int
	SearchCacheTTL  time.Duration
}

// Load builds a Config from the environment, falling back to defaults for
// anything unset or unparsable.
func Load() Config {
	return Config{
		Port:              envInt("PORT", DefaultPort),
		CatalogBaseURL:    envString("CATALOG_BASE_URL", DefaultCatalogBaseURL),
		GradesAPIURL:      envString("GRADES_API_URL", DefaultGradesAPIURL),
		SnapshotPath:      envString("SNAPSHOT_PATH", ""),
		Preload:           envList("PRELOAD_INSTITUTIONS"),
		RateLimit:         envInt("RATE_LIMIT", DefaultRateLimit),
		RateWindowSeconds: envInt("RATE_WINDOW_SECONDS", DefaultRateWindowSeconds),
		SearchCacheSize:   envInt("SEARCH_CACHE_SIZE", DefaultSearchCacheSize),
		SearchCacheTTL:    envDuration("SEARCH_CACHE_TTL", DefaultSearchCacheTTL),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
