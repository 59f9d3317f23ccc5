package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultCatalogBaseURL, cfg.CatalogBaseURL)
	assert.Equal(t, DefaultGradesAPIURL, cfg.GradesAPIURL)
	assert.Empty(t, cfg.SnapshotPath)
	assert.Nil(t, cfg.Preload)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultSearchCacheSize, cfg.SearchCacheSize)
	assert.Equal(t, DefaultSearchCacheTTL, cfg.SearchCacheTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_BASE_URL", "http://localhost:3000/catalogs")
	t.Setenv("GRADES_API_URL", "http://localhost:3000/grades")
	t.Setenv("SNAPSHOT_PATH", "/var/lib/emnesok/popular.json")
	t.Setenv("PRELOAD_INSTITUTIONS", "uio, ntnu ,uib,")
	t.Setenv("RATE_LIMIT", "120")
	t.Setenv("SEARCH_CACHE_TTL", "30s")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "http://localhost:3000/catalogs", cfg.CatalogBaseURL)
	assert.Equal(t, "http://localhost:3000/grades", cfg.GradesAPIURL)
	assert.Equal(t, "/var/lib/emnesok/popular.json", cfg.SnapshotPath)
	assert.Equal(t, []string{"uio", "ntnu", "uib"}, cfg.Preload)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
}

func TestLoadRejectsGarbageValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("RATE_LIMIT", "-5")
	t.Setenv("SEARCH_CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultSearchCacheTTL, cfg.SearchCacheTTL)
}
