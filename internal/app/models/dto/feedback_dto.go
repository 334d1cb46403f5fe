package dto

import (
	"time"

	"github.com/devansh/fms/internal/app/models"
)

// SubmitFeedbackRequest is a student's rating for one subject of one teacher
type SubmitFeedbackRequest struct {
	TeacherID int64  `json:"teacherId" validate:"required,min=1"`
	Subject   string `json:"subject" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comments  string `json:"comments,omitempty" validate:"max=2000"`
}

// FeedbackResponse is the wire shape of a feedback record
type FeedbackResponse struct {
	ID          int64     `json:"id"`
	TeacherID   int64     `json:"teacherId"`
	TeacherName string    `json:"teacherName,omitempty"`
	Subject     string    `json:"subject"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments,omitempty"`
	Department  string    `json:"department,omitempty"`
	Session     string    `json:"session,omitempty"`
	Degree      string    `json:"degree,omitempty"`
	Semester    int       `json:"semester,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewFeedbackResponse maps a feedback record onto the wire shape
func NewFeedbackResponse(fb *models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          fb.ID,
		TeacherID:   fb.TeacherID,
		Subject:     fb.Subject,
		Rating:      fb.Rating,
		Comments:    fb.Comments,
		Department:  fb.Department,
		Session:     fb.Session,
		Degree:      string(fb.Degree),
		Semester:    fb.Semester,
		SubmittedAt: fb.SubmittedAt,
	}
}

// SubjectResponse is the wire shape of a subject
type SubjectResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Degree   string `json:"degree,omitempty"`
	Semester int    `json:"semester"`
	Session  string `json:"session,omitempty"`
	IsOpen   bool   `json:"isOpen"`
}

// NewSubjectResponse maps a subject onto the wire shape
func NewSubjectResponse(s models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:       s.ID,
		Name:     s.Name,
		Degree:   string(s.Degree),
		Semester: s.Semester,
		Session:  s.Session,
		IsOpen:   s.IsOpen,
	}
}

// EligibleTeacherResponse lists a teacher together with the subjects the
// calling student may currently review
type EligibleTeacherResponse struct {
	TeacherID      int64             `json:"teacherId"`
	Name           string            `json:"name"`
	Department     string            `json:"department,omitempty"`
	DepartmentName string            `json:"departmentName,omitempty"`
	Subjects       []SubjectResponse `json:"subjects"`
}

// StudentStatsResponse summarizes a student's own submission activity
type StudentStatsResponse struct {
	TotalSubmitted int     `json:"totalSubmitted"`
	AverageGiven   float64 `json:"averageGiven"`
}

// CreateSubjectRequest adds a subject to a teacher's list
type CreateSubjectRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Degree   string `json:"degree,omitempty"`
	Semester int    `json:"semester" validate:"required,min=1"`
	Session  string `json:"session,omitempty"`
	IsOpen   bool   `json:"isOpen"`
}

// ToggleSubjectRequest opens or closes a review window
type ToggleSubjectRequest struct {
	IsOpen bool `json:"isOpen"`
}

// ToggleReviewRequest flips a teacher's global review flag
type ToggleReviewRequest struct {
	IsReviewOpen bool `json:"isReviewOpen"`
}

// CreateSessionRequest registers an academic session on a department
type CreateSessionRequest struct {
	Name     string `json:"name" validate:"required"`
	Degree   string `json:"degree" validate:"required"`
	Activate bool   `json:"activate"`
}

// SessionResponse is the wire shape of a session
type SessionResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Degree   string `json:"degree"`
	IsActive bool   `json:"isActive"`
}

// NewSessionResponse maps a session onto the wire shape
func NewSessionResponse(s models.Session) SessionResponse {
	return SessionResponse{
		ID:       s.ID,
		Name:     s.Name,
		Degree:   string(s.Degree),
		IsActive: s.IsActive,
	}
}
