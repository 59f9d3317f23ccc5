package types

// CourseInfo identifies a single course at a single institution.
//
// Institutions reuse bare course codes (two schools can both offer an
// "IN2010"), so identity is always the (institution, code) pair; Key
// returns that pair in a form usable as a map key. Code is the canonical
// display form: upper case, no whitespace, wire suffixes stripped.
type CourseInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
}

// Key returns the institution-qualified identity of the course.
func (c CourseInfo) Key() string {
	return c.Institution + "/" + c.Code
}

// CatalogCourse is a catalog entry: a course plus its most recent known
// enrollment figure, used as the popularity signal. Students is 0 when the
// catalog carries no enrollment annotation for the course.
type CatalogCourse struct {
	CourseInfo
	Students int `json:"students"`
}

// InstitutionCatalog holds one institution's full course list. A catalog is
// loaded at most once per process and is never mutated after publication;
// cache resets replace it wholesale.
type InstitutionCatalog struct {
	Institution string          `json:"institution"`
	Courses     []CatalogCourse `json:"courses"`
}

// SearchQuery contains parameters for searching the course index.
type SearchQuery struct {
	Query       string // raw user input, normalized by the index
	Institution string // optional scope; empty means all institutions
	Limit       int    // max results to return
}
