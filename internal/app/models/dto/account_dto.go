package dto

import (
	"time"

	"github.com/devansh/fms/internal/app/models"
)

// AccountResponse is the wire shape of an account
type AccountResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`

	// Student fields
	RegNum   string `json:"regNum,omitempty"`
	Degree   string `json:"degree,omitempty"`
	Semester int    `json:"semester,omitempty"`
	Year     int    `json:"year,omitempty"`
	Session  string `json:"session,omitempty"`

	// Teacher / student department code, department display name
	Department     string `json:"department,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
	IsReviewOpen   *bool  `json:"isReviewOpen,omitempty"`

	// Department fields
	DeptID string `json:"deptId,omitempty"`
}

// NewAccountResponse maps a domain account onto the wire shape. Year is
// always derived from the semester, never read from storage.
func NewAccountResponse(account *models.Account) AccountResponse {
	resp := AccountResponse{
		ID:        account.ID,
		Role:      string(account.Role),
		Status:    string(account.Status),
		Name:      account.Name,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}

	switch {
	case account.Student != nil:
		resp.RegNum = account.Student.RegNum
		resp.Department = account.Student.DepartmentCode
		resp.DepartmentName = models.DeptName(account.Student.DepartmentCode)
		resp.Degree = string(account.Student.Degree)
		resp.Semester = account.Student.Semester
		resp.Year = account.Student.Year()
		resp.Session = account.Student.Session
	case account.Teacher != nil:
		resp.Department = account.Teacher.DepartmentCode
		resp.DepartmentName = models.DeptName(account.Teacher.DepartmentCode)
		isOpen := account.Teacher.IsReviewOpen
		resp.IsReviewOpen = &isOpen
	case account.Department != nil:
		resp.DeptID = account.Department.DeptID
		resp.DepartmentName = models.DeptName(account.Department.DeptID)
	}

	return resp
}

// NewAccountResponses maps a slice of accounts
func NewAccountResponses(accounts []*models.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewAccountResponse(a))
	}
	return out
}

// CreateTeacherRequest provisions a teacher account (department/admin only)
type CreateTeacherRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateStudentRequest provisions a student account under the caller's
// active session
type CreateStudentRequest struct {
	RegNum   string `json:"regNum" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required"`
	Degree   string `json:"degree" validate:"required"`
	Semester int    `json:"semester" validate:"required,min=1"`
}

// BulkStudentsRequest provisions many students at once. Rows are already
// parsed client-side; CSV/XLSX handling never reaches the API.
type BulkStudentsRequest struct {
	Students []CreateStudentRequest `json:"students" validate:"required,min=1,dive"`
}

// BulkResult tallies a batch operation
type BulkResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failedIds,omitempty"`
}

// PromotionRequest shifts a set of students by one semester
type PromotionRequest struct {
	StudentIDs []int64 `json:"studentIds" validate:"required,min=1"`
}

// PromotionResponse tallies a promotion/demotion batch
type PromotionResponse struct {
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	FailedIDs []int64 `json:"failedIds,omitempty"`
}

// RosterEntryRequest adds one roster record
type RosterEntryRequest struct {
	RegNum     string `json:"regNum" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department,omitempty"`
	Semester   int    `json:"semester,omitempty"`
}

// BulkRosterRequest imports many roster records
type BulkRosterRequest struct {
	Entries []RosterEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// SystemStatsResponse is the admin dashboard summary
type SystemStatsResponse struct {
	Students    int `json:"students"`
	Teachers    int `json:"teachers"`
	Departments int `json:"departments"`
	Pending     int `json:"pending"`
}
