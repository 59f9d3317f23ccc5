// Package search ranks loaded catalogs against user queries and owns the
// session-scoped result cache, availability filter and debounced live
// search used by the autocomplete surface.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/emnesok/emnesok-api/internal/catalog"
	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/types"
)

const defaultLimit = 10

// Match precedence tiers. Lower ranks first; popularity only breaks ties
// inside a tier, it never promotes a result across tiers.
const (
	tierExactCode = iota
	tierCodePrefix
	tierSubstring
)

// Index ranks and filters institution catalogs against a query string.
type Index struct {
	catalogs *catalog.Service
	avail    *Availability

	// snapshot, when loaded, short-circuits the all-institutions popular
	// ranking. See LoadSnapshot.
	snapshot []types.CatalogCourse
}

func NewIndex(catalogs *catalog.Service, avail *Availability) *Index {
	if avail == nil {
		avail = NewAvailability()
	}
	return &Index{catalogs: catalogs, avail: avail}
}

type scored struct {
	course   types.CatalogCourse
	tier     int
	instSort string
}

// Search returns at most q.Limit courses matching q.Query, ranked exact
// code > code prefix > code/name/institution substring, ties broken by
// recent enrollment descending, then code, then institution tag. An empty
// query returns the popular list instead of nothing: the autocomplete
// surface shows default suggestions on focus. Results never repeat a
// course key; the same bare code at two institutions is two results.
func (ix *Index) Search(ctx context.Context, q types.SearchQuery) ([]types.CourseInfo, error) {
	query := strings.ToLower(strings.TrimSpace(q.Query))
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	if q.Institution != "" && !institutions.IsKnown(q.Institution) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownInstitution, q.Institution)
	}

	if query == "" {
		popular, _, err := ix.Popular(ctx, q.Institution, limit)
		return popular, err
	}

	scope := institutions.All()
	if q.Institution != "" {
		inst, _ := institutions.Lookup(q.Institution)
		scope = []institutions.Institution{inst}
	}

	var matches []scored
	seen := make(map[string]struct{})
	for _, inst := range scope {
		// Load absorbs transport failures into an empty catalog, so one
		// broken institution never breaks search for the rest.
		cat, err := ix.catalogs.Load(ctx, inst.Tag)
		if err != nil {
			return nil, err
		}
		instHaystack := strings.ToLower(inst.Name + " " + inst.ShortName + " " + inst.Tag)

		for _, course := range cat.Courses {
			if ix.avail.IsUnavailable(course.Code, course.Institution) {
				continue
			}
			if _, dup := seen[course.Key()]; dup {
				continue
			}
			tier, ok := matchTier(course, instHaystack, query)
			if !ok {
				continue
			}
			seen[course.Key()] = struct{}{}
			matches = append(matches, scored{course: course, tier: tier, instSort: inst.Tag})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.course.Students != b.course.Students {
			return a.course.Students > b.course.Students
		}
		if a.course.Code != b.course.Code {
			return a.course.Code < b.course.Code
		}
		return a.instSort < b.instSort
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]types.CourseInfo, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.course.CourseInfo)
	}
	return out, nil
}

func matchTier(course types.CatalogCourse, instHaystack, query string) (int, bool) {
	code := strings.ToLower(course.Code)
	switch {
	case code == query:
		return tierExactCode, true
	case strings.HasPrefix(code, query):
		return tierCodePrefix, true
	case strings.Contains(code, query),
		strings.Contains(strings.ToLower(course.Name), query),
		strings.Contains(instHaystack, query):
		return tierSubstring, true
	}
	return 0, false
}
