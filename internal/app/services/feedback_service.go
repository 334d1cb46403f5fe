package services

import (
	"context"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/logger"
)

// feedbackBroadcaster pushes accepted submissions to live dashboard
// subscribers. Nil disables streaming.
type feedbackBroadcaster interface {
	BroadcastFeedback(fb *models.Feedback)
}

// FeedbackService accepts and serves feedback submissions. Eligibility and
// duplicate rules are enforced here; the storage layer only backstops the
// duplicate check with a unique index.
type FeedbackService struct {
	accounts    *repositories.AccountRepository
	subjects    *repositories.SubjectRepository
	feedback    *repositories.FeedbackRepository
	broadcaster feedbackBroadcaster
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(
	accounts *repositories.AccountRepository,
	subjects *repositories.SubjectRepository,
	feedback *repositories.FeedbackRepository,
	broadcaster feedbackBroadcaster,
) *FeedbackService {
	return &FeedbackService{
		accounts:    accounts,
		subjects:    subjects,
		feedback:    feedback,
		broadcaster: broadcaster,
	}
}

func (s *FeedbackService) getStudent(ctx context.Context, studentID int64) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if account.Student == nil {
		return nil, apperrors.ErrPermissionDenied
	}
	if account.Status != models.StatusApproved {
		return nil, apperrors.ErrAccountPending
	}
	return account, nil
}

// EligibleTeachers lists the approved teachers of the student's department
// together with the subjects the student can still review. Teachers with
// nothing open, and subjects already rated this slot, are filtered out.
func (s *FeedbackService) EligibleTeachers(ctx context.Context, studentID int64) ([]dto.EligibleTeacherResponse, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	teachers, _, err := s.accounts.List(ctx, repositories.AccountFilter{
		Role:           models.RoleTeacher,
		Status:         models.StatusApproved,
		DepartmentCode: student.Student.DepartmentCode,
	}, 0, 500)
	if err != nil {
		return nil, err
	}

	teacherIDs := make([]int64, 0, len(teachers))
	for _, t := range teachers {
		teacherIDs = append(teacherIDs, t.ID)
	}
	subjectsByTeacher, err := s.subjects.ListByTeachers(ctx, teacherIDs)
	if err != nil {
		return nil, err
	}

	history, err := s.feedback.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	submitted := SubmittedKeys(student.Student, history)

	var out []dto.EligibleTeacherResponse
	for _, t := range teachers {
		profile := *t.Teacher
		profile.Subjects = subjectsByTeacher[t.ID]

		var open []dto.SubjectResponse
		for _, subject := range OpenSubjectsFor(student.Student, &profile) {
			if IsDuplicate(submitted, t.ID, subject.Name, student.Student.Session,
				student.Student.Degree, student.Student.Semester) {
				continue
			}
			open = append(open, dto.NewSubjectResponse(subject))
		}
		if len(open) == 0 {
			continue
		}

		out = append(out, dto.EligibleTeacherResponse{
			TeacherID:      t.ID,
			Name:           t.Name,
			Department:     profile.DepartmentCode,
			DepartmentName: models.DeptName(profile.DepartmentCode),
			Subjects:       open,
		})
	}

	return out, nil
}

// Submit records one rating. The subject must be currently open to the
// student, and the (teacher, subject, session, degree, semester) slot must be
// unused.
func (s *FeedbackService) Submit(ctx context.Context, studentID int64, req *dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	teacher, err := s.accounts.GetByID(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Teacher == nil || teacher.Status != models.StatusApproved {
		return nil, apperrors.ErrAccountNotFound
	}

	subjects, err := s.subjects.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, err
	}

	var match *models.Subject
	for i := range subjects {
		if subjects[i].Name == req.Subject {
			match = &subjects[i]
			break
		}
	}
	if match == nil {
		return nil, apperrors.ErrSubjectNotFound
	}
	if !teacher.Teacher.IsReviewOpen || !SubjectEligible(student.Student, *match) {
		return nil, apperrors.ErrReviewsClosed
	}

	history, err := s.feedback.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	submitted := SubmittedKeys(student.Student, history)
	if IsDuplicate(submitted, teacher.ID, req.Subject, student.Student.Session,
		student.Student.Degree, student.Student.Semester) {
		return nil, apperrors.ErrDuplicateFeedback
	}

	fb := &models.Feedback{
		StudentID:  studentID,
		TeacherID:  teacher.ID,
		Subject:    req.Subject,
		Rating:     req.Rating,
		Comments:   req.Comments,
		Department: teacher.Teacher.DepartmentCode,
		Session:    student.Student.Session,
		Degree:     student.Student.Degree,
		Semester:   student.Student.Semester,
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastFeedback(fb)
	}

	logger.Info().
		Int64("teacherID", teacher.ID).
		Str("subject", req.Subject).
		Int("rating", req.Rating).
		Msg("Feedback submitted")

	return fb, nil
}

// History returns a student's own submissions
func (s *FeedbackService) History(ctx context.Context, studentID int64) ([]*models.Feedback, error) {
	return s.feedback.ListByStudent(ctx, studentID)
}

// StudentStats summarizes the caller's own submission activity
func (s *FeedbackService) StudentStats(ctx context.Context, studentID int64) (*dto.StudentStatsResponse, error) {
	history, err := s.feedback.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var sum int
	for _, fb := range history {
		sum += fb.Rating
	}
	avg := 0.0
	if len(history) > 0 {
		avg = round2(float64(sum) / float64(len(history)))
	}

	return &dto.StudentStatsResponse{
		TotalSubmitted: len(history),
		AverageGiven:   avg,
	}, nil
}

// ForTeacher returns the feedback a teacher has received
func (s *FeedbackService) ForTeacher(ctx context.Context, teacherID int64) ([]*models.Feedback, error) {
	return s.feedback.ListByTeacher(ctx, teacherID)
}

// ForDepartment returns all feedback for a department's teachers
func (s *FeedbackService) ForDepartment(ctx context.Context, departmentCode string) ([]*models.Feedback, error) {
	return s.feedback.ListByDepartment(ctx, departmentCode)
}
