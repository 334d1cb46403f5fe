package services

import (
	"context"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/validation"
)

// SubjectService manages a teacher's subject list and review windows
type SubjectService struct {
	subjects *repositories.SubjectRepository
	accounts *repositories.AccountRepository
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(subjects *repositories.SubjectRepository, accounts *repositories.AccountRepository) *SubjectService {
	return &SubjectService{subjects: subjects, accounts: accounts}
}

// List returns all subjects owned by the teacher
func (s *SubjectService) List(ctx context.Context, teacherID int64) ([]models.Subject, error) {
	return s.subjects.ListByTeacher(ctx, teacherID)
}

// Create adds a subject to the teacher's list. Blank degree and session act
// as wildcards matching every student; the semester window is mandatory.
func (s *SubjectService) Create(ctx context.Context, teacherID int64, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	if req.Degree != "" && !models.Degree(req.Degree).IsValid() {
		return nil, apperrors.NewValidationError("Unknown degree programme")
	}
	if req.Session != "" {
		if err := validation.ValidateSession(req.Session); err != nil {
			return nil, err
		}
	}

	maxSem := models.MaxSemesters(models.DegreeBTech)
	if req.Degree != "" {
		maxSem = models.MaxSemesters(models.Degree(req.Degree))
	}
	if req.Semester < 1 || req.Semester > maxSem {
		return nil, apperrors.NewValidationError("Semester is out of range for the degree")
	}

	subject := &models.Subject{
		TeacherID: teacherID,
		Name:      req.Name,
		Degree:    models.Degree(req.Degree),
		Semester:  req.Semester,
		Session:   req.Session,
		IsOpen:    req.IsOpen,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// SetOpen toggles one subject's review window
func (s *SubjectService) SetOpen(ctx context.Context, teacherID, subjectID int64, open bool) error {
	return s.subjects.SetOpen(ctx, subjectID, teacherID, open)
}

// Delete removes a subject from the teacher's list
func (s *SubjectService) Delete(ctx context.Context, teacherID, subjectID int64) error {
	return s.subjects.Delete(ctx, subjectID, teacherID)
}

// SetReviewOpen flips the teacher's global review flag. A closed flag hides
// every subject regardless of individual windows.
func (s *SubjectService) SetReviewOpen(ctx context.Context, teacherID int64, open bool) error {
	return s.accounts.UpdateReviewOpen(ctx, teacherID, open)
}
