package grades

import (
	"context"
	"sort"

	"github.com/emnesok/emnesok-api/internal/institutions"
	"github.com/emnesok/emnesok-api/internal/types"
)

// CourseStatistics is the full normalized deliverable for one course: every
// available year plus the combined statistic.
type CourseStatistics struct {
	Institution string              `json:"institution"`
	CourseCode  string              `json:"course_code"`
	Years       []types.CourseStats `json:"years"`
	Combined    types.CourseStats   `json:"combined"`
}

// Service runs the full grades pipeline: fetch, normalize, aggregate.
type Service struct {
	client *Client
}

func NewService(client *Client) *Service {
	return &Service{client: client}
}

// CourseStatistics fetches and normalizes statistics for a course. year 0
// requests all years. Errors distinguish three cases: ErrUnknownInstitution
// (synchronous), ErrNotFound for a course with no recorded data, and
// TransportError when the upstream could not be reached; a transport
// failure is never downgraded to "no data", grade statistics are the
// primary deliverable.
func (s *Service) CourseStatistics(ctx context.Context, tag, code string, year int) (*CourseStatistics, error) {
	if inst, ok := institutions.Lookup(tag); ok {
		tag = inst.Tag
	}
	display := institutions.ToDisplay(code, tag)

	result := s.client.Fetch(ctx, tag, display, year)
	switch result.State {
	case Failed:
		return nil, result.Err
	case Empty:
		return nil, types.ErrNotFound
	}

	yearMap := ProcessMultiYear(display, result.Rows)
	if len(yearMap) == 0 {
		// Rows existed but every label was outside the vocabulary.
		return nil, types.ErrNotFound
	}

	years := make([]types.CourseStats, 0, len(yearMap))
	for _, stats := range yearMap {
		years = append(years, stats)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year > years[j].Year })

	return &CourseStatistics{
		Institution: tag,
		CourseCode:  display,
		Years:       years,
		Combined:    Combine(display, yearMap),
	}, nil
}
