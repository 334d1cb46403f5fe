package models

// Degree identifies a degree programme
type Degree string

const (
	DegreeBTech Degree = "B.Tech"
	DegreeMTech Degree = "M.Tech"
)

// Degrees lists every supported degree programme
var Degrees = []Degree{DegreeBTech, DegreeMTech}

// maxSemesters maps a degree to its final semester
var maxSemesters = map[Degree]int{
	DegreeBTech: 8,
	DegreeMTech: 4,
}

// deptNames maps a department code to its display name. Display only; never
// used for eligibility decisions.
var deptNames = map[string]string{
	"101": "Civil Engineering",
	"103": "Mechanical Engineering",
	"104": "EEE",
	"105": "CSE",
	"106": "ECE",
}

// IsValid reports whether the degree is a known programme
func (d Degree) IsValid() bool {
	_, ok := maxSemesters[d]
	return ok
}

// MaxSemesters returns the final semester for a degree, 0 for unknown degrees
func MaxSemesters(degree Degree) int {
	return maxSemesters[degree]
}

// DeriveYear converts a semester to an academic year: ceil(semester/2).
// Year is always derived, never stored.
func DeriveYear(semester int) int {
	if semester <= 0 {
		return 0
	}
	return (semester + 1) / 2
}

// DeptName returns the display name for a department code, falling back to
// the code itself.
func DeptName(code string) string {
	if name, ok := deptNames[code]; ok {
		return name
	}
	return code
}
