package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/dberrors"
)

const feedbackColumns = `
	id, student_id, teacher_id, subject, rating, comments,
	department, session, degree, semester, submitted_at
`

// FeedbackRepository handles database operations for feedback records
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback record. A partial unique index on the submission
// key backs up the service-level duplicate check.
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	query := `
		INSERT INTO feedback (
			student_id, teacher_id, subject, rating, comments,
			department, session, degree, semester
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, submitted_at
	`

	err := r.db.QueryRow(ctx, query,
		fb.StudentID, fb.TeacherID, fb.Subject, fb.Rating, fb.Comments,
		fb.Department, fb.Session, fb.Degree, fb.Semester,
	).Scan(&fb.ID, &fb.SubmittedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateFeedback
		}
		return fmt.Errorf("error creating feedback: %w", err)
	}

	return nil
}

func scanFeedbackRows(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]*models.Feedback, error) {
	var list []*models.Feedback
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(
			&fb.ID,
			&fb.StudentID,
			&fb.TeacherID,
			&fb.Subject,
			&fb.Rating,
			&fb.Comments,
			&fb.Department,
			&fb.Session,
			&fb.Degree,
			&fb.Semester,
			&fb.SubmittedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &fb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByStudent retrieves a student's submissions, newest first
func (r *FeedbackRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE student_id = $1 ORDER BY submitted_at DESC`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedbackRows(rows)
}

// ListByTeacher retrieves feedback received by a teacher, newest first
func (r *FeedbackRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE teacher_id = $1 ORDER BY submitted_at DESC`

	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedbackRows(rows)
}

// ListByDepartment retrieves feedback for all teachers of a department
func (r *FeedbackRepository) ListByDepartment(ctx context.Context, departmentCode string) ([]*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE department = $1 ORDER BY submitted_at DESC`

	rows, err := r.db.Query(ctx, query, departmentCode)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedbackRows(rows)
}

// ListAll retrieves every feedback record, newest first
func (r *FeedbackRepository) ListAll(ctx context.Context) ([]*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback ORDER BY submitted_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedbackRows(rows)
}

// CountByStudent counts a student's submissions
func (r *FeedbackRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM feedback WHERE student_id = $1`, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting feedback: %w", err)
	}
	return count, nil
}
