// Package grades fetches raw grade rows from the upstream statistics
// service and reshapes them into per-year and combined course statistics
// with a fixed, complete grade vocabulary.
package grades

import (
	"math"
	"strings"

	"github.com/emnesok/emnesok-api/internal/types"
)

var (
	letterOrder   = []string{types.GradeA, types.GradeB, types.GradeC, types.GradeD, types.GradeE, types.GradeF}
	passFailOrder = []string{types.GradePass, types.GradeFail}
	numericOrder  = []string{"1", "2", "3", "4", "5", "6"}
)

// canonicalLabel maps a raw upstream grade label onto the fixed vocabulary.
// The upstream service is inconsistent about pass/fail spelling across
// institutions and years; everything it has been observed to emit is folded
// here. Unknown labels return "" and the row is dropped.
func canonicalLabel(raw string) string {
	label := strings.ToUpper(strings.TrimSpace(raw))
	switch label {
	case "A", "B", "C", "D", "E", "F":
		return label
	case "1", "2", "3", "4", "5", "6":
		return label
	case "G", "GODKJENT", "BESTÅTT", "BESTATT":
		return types.GradePass
	case "H", "IKKE GODKJENT", "IKKE BESTÅTT", "IKKE BESTATT":
		return types.GradeFail
	}
	return ""
}

// Normalize turns a partial grade→count mapping into a complete ordered
// distribution for the vocabulary the counts imply.
//
// If any letter grade is present with a nonzero count, all six letters are
// emitted, zero-filled. If either pass/fail label is present, both are. The
// 1–6 scale fills the same way. A sub-vocabulary with no data at all is
// omitted entirely rather than padded with zero rows. Percentages are
// round(100*count/total) per bucket, independently; no correction is
// applied when they do not sum to exactly 100.
func Normalize(counts map[string]int, totalStudents int) []types.GradeDistribution {
	var vocabulary []string
	if anyPresent(counts, letterOrder) {
		vocabulary = append(vocabulary, letterOrder...)
	}
	if anyPresent(counts, passFailOrder) {
		vocabulary = append(vocabulary, passFailOrder...)
	}
	if anyPresent(counts, numericOrder) {
		vocabulary = append(vocabulary, numericOrder...)
	}

	out := make([]types.GradeDistribution, 0, len(vocabulary))
	for _, grade := range vocabulary {
		count := counts[grade]
		pct := 0
		if totalStudents > 0 {
			pct = int(math.Round(100 * float64(count) / float64(totalStudents)))
		}
		out = append(out, types.GradeDistribution{Grade: grade, Count: count, Percentage: pct})
	}
	return out
}

func anyPresent(counts map[string]int, vocabulary []string) bool {
	for _, grade := range vocabulary {
		if counts[grade] > 0 {
			return true
		}
	}
	return false
}

// averageGrade computes the optional grade average: letters map A..F to
// 5..0, the 1–6 scale uses face value, and pass/fail counts carry no
// numeric weight. Returns nil when no weighted grades are present.
func averageGrade(counts map[string]int) *float64 {
	weights := map[string]float64{
		types.GradeA: 5, types.GradeB: 4, types.GradeC: 3,
		types.GradeD: 2, types.GradeE: 1, types.GradeF: 0,
		"1": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6,
	}

	var sum float64
	var n int
	for grade, count := range counts {
		w, weighted := weights[grade]
		if !weighted || count <= 0 {
			continue
		}
		sum += w * float64(count)
		n += count
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(100*sum/float64(n)) / 100
	return &avg
}
