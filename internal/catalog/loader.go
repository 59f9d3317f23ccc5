// Package catalog loads and memoizes per-institution course lists.
//
// Catalogs come from static per-institution JSON resources and never change
// within a session, so a successful load is kept for the process lifetime
// and concurrent loads for the same institution coalesce onto one fetch.
package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/emnesok/emnesok-api/internal/httpx"
	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/types"
)

const preloadTimeout = 20 * time.Second

// Service owns the per-institution catalog cache. All access goes through
// Load/Preload/Reset; callers never mutate a returned catalog.
type Service struct {
	baseURL string
	client  *httpx.Client

	mu       sync.RWMutex
	catalogs map[string]*types.InstitutionCatalog

	group singleflight.Group
}

// NewService returns a Service fetching catalogs from
// {baseURL}/{tag}.json.
func NewService(baseURL string, client *httpx.Client) *Service {
	if client == nil {
		client = httpx.New()
	}
	return &Service{
		baseURL:  baseURL,
		client:   client,
		catalogs: make(map[string]*types.InstitutionCatalog),
	}
}

// Load returns the institution's catalog, fetching it on first use.
// Callers arriving while a fetch is outstanding share that fetch and
// observe the identical catalog value. Fetch and parse failures are logged
// and degrade to an empty catalog; the only error Load returns is
// ErrUnknownInstitution, reported before any fetch is scheduled.
func (s *Service) Load(ctx context.Context, tag string) (*types.InstitutionCatalog, error) {
	inst, ok := institutions.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownInstitution, tag)
	}
	tag = inst.Tag

	s.mu.RLock()
	cached := s.catalogs[tag]
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(tag, func() (any, error) {
		// Re-check under the group: a previous flight may have published
		// while this caller was queueing.
		s.mu.RLock()
		existing := s.catalogs[tag]
		s.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		loaded, err := s.fetch(ctx, tag)
		if err != nil {
			return nil, err
		}

		// Publish fully built catalogs only; readers never see a partial one.
		s.mu.Lock()
		s.catalogs[tag] = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		log.Printf("catalog load failed for %s: %v", tag, err)
		return &types.InstitutionCatalog{Institution: tag}, nil
	}
	return v.(*types.InstitutionCatalog), nil
}

// Preload warms the cache for an institution without blocking the caller.
// Redundant calls are cheap: an already-cached or in-flight institution
// triggers no extra fetch.
func (s *Service) Preload(tag string) {
	if !institutions.IsKnown(tag) {
		return
	}
	s.mu.RLock()
	cached := s.catalogs[tag] != nil
	s.mu.RUnlock()
	if cached {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
		defer cancel()
		s.Load(ctx, tag)
	}()
}

// Loaded reports whether the institution's catalog is already in memory.
func (s *Service) Loaded(tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogs[tag] != nil
}

// Reset drops every cached catalog. The next Load per institution fetches
// again.
func (s *Service) Reset() {
	s.mu.Lock()
	s.catalogs = make(map[string]*types.InstitutionCatalog)
	s.mu.Unlock()
}

func (s *Service) fetch(ctx context.Context, tag string) (*types.InstitutionCatalog, error) {
	url := fmt.Sprintf("%s/%s.json", s.baseURL, tag)

	var raw types.InstitutionCatalog
	got, err := s.client.GetJSON(ctx, url, &raw)
	if err != nil {
		return nil, &types.TransportError{Op: "fetch catalog", URL: url, Err: err}
	}
	if !got {
		return &types.InstitutionCatalog{Institution: tag}, nil
	}

	out := &types.InstitutionCatalog{
		Institution: tag,
		Courses:     make([]types.CatalogCourse, 0, len(raw.Courses)),
	}
	seen := make(map[string]struct{}, len(raw.Courses))
	for _, c := range raw.Courses {
		code := institutions.ToDisplay(c.Code, tag)
		if code == "" {
			continue
		}
		info := types.CourseInfo{Code: code, Name: c.Name, Institution: tag}
		if _, dup := seen[info.Key()]; dup {
			continue
		}
		seen[info.Key()] = struct{}{}
		out.Courses = append(out.Courses, types.CatalogCourse{CourseInfo: info, Students: c.Students})
	}
	return out, nil
}
