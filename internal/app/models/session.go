package models

// Session is an academic term ("YYYY-YY") scoped to a department and degree.
// At most one session per (department, degree) is active; activation
// deactivates siblings inside one transaction.
type Session struct {
	ID           int64  `json:"id" db:"id"`
	DepartmentID int64  `json:"departmentId" db:"department_id"`
	Name         string `json:"name" db:"name"`
	Degree       Degree `json:"degree" db:"degree"`
	IsActive     bool   `json:"isActive" db:"is_active"`
}
