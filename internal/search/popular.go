package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/types"
)

// Provenance tags how a popular list was ranked. A list is always wholly
// dynamic or wholly static; the two measures are never mixed in one result,
// since a curated position says nothing comparable to an enrollment count.
type Provenance string

const (
	ProvenanceDynamic Provenance = "dynamic"
	ProvenanceStatic  Provenance = "static"
)

// Curated fallback suggestions, used when no enrollment figures are
// available for a scope (catalog failed to load or carries no counts).
// Order is the ranking.
var staticPopular = map[string][]types.CourseInfo{
	"": {
		{Code: "EXPHIL03", Name: "Examen philosophicum", Institution: "uio"},
		{Code: "IN1000", Name: "Introduksjon til objektorientert programmering", Institution: "uio"},
		{Code: "TMA4100", Name: "Matematikk 1", Institution: "ntnu"},
		{Code: "EXPHIL-SVEKS", Name: "Examen philosophicum", Institution: "uib"},
		{Code: "TDT4110", Name: "Informasjonsteknologi, grunnkurs", Institution: "ntnu"},
		{Code: "IN2010", Name: "Algoritmer og datastrukturer", Institution: "uio"},
		{Code: "SOS1000", Name: "Innføring i sosiologi", Institution: "uio"},
		{Code: "BED100", Name: "Bedriftsøkonomi", Institution: "uis"},
	},
	"uio": {
		{Code: "EXPHIL03", Name: "Examen philosophicum", Institution: "uio"},
		{Code: "IN1000", Name: "Introduksjon til objektorientert programmering", Institution: "uio"},
		{Code: "IN2010", Name: "Algoritmer og datastrukturer", Institution: "uio"},
		{Code: "MAT1100", Name: "Kalkulus", Institution: "uio"},
	},
	"ntnu": {
		{Code: "TMA4100", Name: "Matematikk 1", Institution: "ntnu"},
		{Code: "TDT4110", Name: "Informasjonsteknologi, grunnkurs", Institution: "ntnu"},
		{Code: "EXPH0300", Name: "Examen philosophicum", Institution: "ntnu"},
	},
	"uib": {
		{Code: "EXPHIL-SVEKS", Name: "Examen philosophicum", Institution: "uib"},
		{Code: "INF100", Name: "Innføring i programmering", Institution: "uib"},
	},
}

// Popular returns up to count courses for the scope ranked by most recent
// enrollment, falling back to the curated static list when no dynamic
// figure exists for the scope. The returned provenance applies to the whole
// list.
func (ix *Index) Popular(ctx context.Context, scope string, count int) ([]types.CourseInfo, Provenance, error) {
	if count <= 0 {
		count = defaultLimit
	}
	if scope != "" {
		inst, ok := institutions.Lookup(scope)
		if !ok {
			return nil, ProvenanceStatic, fmt.Errorf("%w: %q", types.ErrUnknownInstitution, scope)
		}
		scope = inst.Tag
	}

	ranked := ix.dynamicPopular(ctx, scope)
	if len(ranked) > 0 {
		if len(ranked) > count {
			ranked = ranked[:count]
		}
		return ranked, ProvenanceDynamic, nil
	}

	fallback := staticPopular[scope]
	if scope != "" && len(fallback) == 0 {
		// No curated list for this institution; the global list would leak
		// other institutions into a scoped view, so return nothing.
		return []types.CourseInfo{}, ProvenanceStatic, nil
	}
	if len(fallback) > count {
		fallback = fallback[:count]
	}
	out := make([]types.CourseInfo, len(fallback))
	copy(out, fallback)
	return out, ProvenanceStatic, nil
}

func (ix *Index) dynamicPopular(ctx context.Context, scope string) []types.CourseInfo {
	if scope == "" && len(ix.snapshot) > 0 {
		return ix.snapshotPopular()
	}

	insts := institutions.All()
	if scope != "" {
		inst, _ := institutions.Lookup(scope)
		insts = []institutions.Institution{inst}
	}

	var candidates []types.CatalogCourse
	for _, inst := range insts {
		cat, err := ix.catalogs.Load(ctx, inst.Tag)
		if err != nil {
			continue
		}
		for _, course := range cat.Courses {
			if course.Students > 0 && !ix.avail.IsUnavailable(course.Code, course.Institution) {
				candidates = append(candidates, course)
			}
		}
	}
	sortByEnrollment(candidates)

	out := make([]types.CourseInfo, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.CourseInfo)
	}
	return out
}

func sortByEnrollment(courses []types.CatalogCourse) {
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Students != courses[j].Students {
			return courses[i].Students > courses[j].Students
		}
		if courses[i].Code != courses[j].Code {
			return courses[i].Code < courses[j].Code
		}
		return courses[i].Institution < courses[j].Institution
	})
}

func (ix *Index) snapshotPopular() []types.CourseInfo {
	out := make([]types.CourseInfo, 0, len(ix.snapshot))
	for _, c := range ix.snapshot {
		if !ix.avail.IsUnavailable(c.Code, c.Institution) {
			out = append(out, c.CourseInfo)
		}
	}
	return out
}

// LoadSnapshot reads a precomputed all-institutions popular-courses
// snapshot (built by cmd/snapshot). The snapshot is an accelerant only:
// a missing or unreadable file logs and leaves on-demand ranking in place.
func (ix *Index) LoadSnapshot(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("popular snapshot unavailable: %v", err)
		return
	}
	var snap []types.CatalogCourse
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("popular snapshot unreadable: %v", err)
		return
	}
	sortByEnrollment(snap)
	ix.snapshot = snap
}
