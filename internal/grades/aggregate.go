package grades

import (
	"sort"

	"github.com/emnesok/emnesok-api/internal/types"
)

// ProcessMultiYear groups raw rows by exam year and normalizes each year
// into a CourseStats. Rows with labels outside the fixed vocabulary are
// dropped; TotalStudents per year is the exact sum of the remaining counts,
// so the count/total invariant holds regardless of percentage rounding.
func ProcessMultiYear(courseCode string, rows []types.GradeRow) map[int]types.CourseStats {
	perYear := make(map[int]map[string]int)
	for _, row := range rows {
		label := canonicalLabel(row.Grade)
		if label == "" || row.Count <= 0 {
			continue
		}
		if perYear[row.Year] == nil {
			perYear[row.Year] = make(map[string]int)
		}
		perYear[row.Year][label] += row.Count
	}

	out := make(map[int]types.CourseStats, len(perYear))
	for year, counts := range perYear {
		out[year] = buildStats(courseCode, year, counts, nil)
	}
	return out
}

// Combine merges every year of a multi-year map into one synthetic
// statistic: counts are summed per grade across years, percentages and the
// average are recomputed from the merged totals, Year is the reserved
// CombinedYear marker and Years carries the contributing calendar years for
// display.
func Combine(courseCode string, yearMap map[int]types.CourseStats) types.CourseStats {
	merged := make(map[string]int)
	years := make([]int, 0, len(yearMap))
	for year, stats := range yearMap {
		years = append(years, year)
		for _, d := range stats.Distributions {
			merged[d.Grade] += d.Count
		}
	}
	sort.Ints(years)

	return buildStats(courseCode, types.CombinedYear, merged, years)
}

func buildStats(courseCode string, year int, counts map[string]int, years []int) types.CourseStats {
	total := 0
	for _, count := range counts {
		total += count
	}
	return types.CourseStats{
		CourseCode:    courseCode,
		Year:          year,
		TotalStudents: total,
		AverageGrade:  averageGrade(counts),
		Distributions: Normalize(counts, total),
		Years:         years,
	}
}
