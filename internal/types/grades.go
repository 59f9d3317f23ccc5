package types

// Grade labels as they appear in normalized statistics. The letter scale
// and the pass/fail scale can occur together for one course (typically a
// graded exam plus a pass/fail lab); the 1-6 secondary-school scale never
// mixes with either.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeE = "E"
	GradeF = "F"

	GradePass = "Bestått"
	GradeFail = "Ikke bestått"
)

// CombinedYear marks a CourseStats synthesized by merging every available
// year. 0 is reserved; it is never a real exam year.
const CombinedYear = 0

// GradeRow is one raw (course, year, grade) bucket exactly as returned by
// the upstream statistics service.
type GradeRow struct {
	InstitutionCode string `json:"institusjonskode"`
	CourseCode      string `json:"emnekode"`
	Grade           string `json:"karakter"`
	Year            int    `json:"arstall"`
	Count           int    `json:"antall"`
}

// GradeDistribution is one bucket of a normalized distribution. Every grade
// of the course's vocabulary is present, zero-filled when the source rows
// lacked it. Percentage is independently rounded per bucket; the column may
// therefore sum to 99 or 101.
type GradeDistribution struct {
	Grade      string `json:"grade"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// CourseStats is the normalized statistic for one course and one year, or
// for all years combined when Year == CombinedYear. TotalStudents always
// equals the sum of the distribution counts.
type CourseStats struct {
	CourseCode    string              `json:"course_code"`
	Year          int                 `json:"year"`
	TotalStudents int                 `json:"total_students"`
	AverageGrade  *float64            `json:"average_grade,omitempty"`
	Distributions []GradeDistribution `json:"distributions"`

	// Years lists the calendar years that contributed to a combined
	// statistic, ascending. Empty for single-year stats.
	Years []int `json:"years,omitempty"`
}
