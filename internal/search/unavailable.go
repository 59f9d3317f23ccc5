package search

import (
	"sync"

	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/types"
)

// Courses that still linger in catalog files but are known to have no
// statistics upstream. Keys are institution-qualified, see CourseInfo.Key.
var knownDead = []string{
	"uio/INF1000",
	"uio/INF2220",
	"ntnu/TDT4100",
	"uib/INFO100",
}

// Availability strips known-empty courses out of suggestions before they
// reach ranking, so autocomplete never steers the user into a guaranteed
// empty lookup. It starts from the static exclusion list and grows as the
// grades pipeline reports empty courses.
type Availability struct {
	mu   sync.RWMutex
	dead map[string]struct{}
}

func NewAvailability() *Availability {
	dead := make(map[string]struct{}, len(knownDead))
	for _, key := range knownDead {
		dead[key] = struct{}{}
	}
	return &Availability{dead: dead}
}

// IsUnavailable reports whether the course is known to have no statistics.
func (a *Availability) IsUnavailable(code, tag string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.dead[a.key(code, tag)]
	return ok
}

// MarkUnavailable records a course observed to have no statistics.
func (a *Availability) MarkUnavailable(code, tag string) {
	a.mu.Lock()
	a.dead[a.key(code, tag)] = struct{}{}
	a.mu.Unlock()
}

func (a *Availability) key(code, tag string) string {
	info := types.CourseInfo{Code: institutions.ToDisplay(code, tag), Institution: tag}
	return info.Key()
}
