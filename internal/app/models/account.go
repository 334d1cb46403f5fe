package models

import (
	"fmt"
	"time"

	"github.com/devansh/fms/internal/pkg/apperrors"
)

// Role identifies the kind of account
type Role string

const (
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleDepartment Role = "department"
	RoleAdmin      Role = "admin"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleDepartment, RoleAdmin:
		return true
	}
	return false
}

// Status is the approval state of an account
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// StatusEvent drives the approval state machine
type StatusEvent string

const (
	EventApprove StatusEvent = "approve"
	EventReject  StatusEvent = "reject"
)

// Transition is the single entry point for status changes. Only a pending
// account may move; approved and rejected are terminal.
func (s Status) Transition(event StatusEvent) (Status, error) {
	if s != StatusPending {
		return s, fmt.Errorf("%w: cannot %s account with status %q",
			apperrors.ErrInvalidTransition, event, s)
	}
	switch event {
	case EventApprove:
		return StatusApproved, nil
	case EventReject:
		return StatusRejected, nil
	}
	return s, fmt.Errorf("%w: unknown event %q", apperrors.ErrInvalidTransition, event)
}

// StudentProfile holds the student-specific part of an account
type StudentProfile struct {
	RegNum         string `json:"regNum" db:"reg_num"`
	DepartmentCode string `json:"department" db:"department_code"`
	Degree         Degree `json:"degree" db:"degree"`
	Semester       int    `json:"semester" db:"semester"`
	Session        string `json:"session" db:"session"`
}

// Year derives the academic year from the stored semester
func (p *StudentProfile) Year() int {
	return DeriveYear(p.Semester)
}

// TeacherProfile holds the teacher-specific part of an account
type TeacherProfile struct {
	DepartmentCode string    `json:"department" db:"department_code"`
	IsReviewOpen   bool      `json:"isReviewOpen" db:"is_review_open"`
	Subjects       []Subject `json:"subjects,omitempty"` // Relation, no db tag
}

// DepartmentProfile holds the department-specific part of an account
type DepartmentProfile struct {
	DeptID   string    `json:"deptId" db:"dept_id"`
	Sessions []Session `json:"sessions,omitempty"` // Relation, no db tag
}

// Account is an identity record with a role and an approval status. Exactly
// one of the role profiles is set, matching Role.
type Account struct {
	ID        int64     `json:"id" db:"id"`
	Role      Role      `json:"role" db:"role"`
	Status    Status    `json:"status" db:"status"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Student    *StudentProfile    `json:"student,omitempty"`
	Teacher    *TeacherProfile    `json:"teacher,omitempty"`
	Department *DepartmentProfile `json:"department,omitempty"`
}

// SyntheticEmail builds the login email for id-based roles. Students and
// departments sign in with their registration number / department id, which is
// mapped onto a synthetic address under the portal domain.
func SyntheticEmail(role Role, id, domain string) string {
	switch role {
	case RoleStudent:
		return fmt.Sprintf("%s@student.%s", id, domain)
	case RoleDepartment:
		return fmt.Sprintf("%s@dept.%s", id, domain)
	}
	return id
}
