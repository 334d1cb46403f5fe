package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/pkg/apperrors"
)

// SubjectRepository handles database operations for teacher subjects
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Create inserts a new subject for a teacher
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (teacher_id, name, degree, semester, session, is_open)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		subject.TeacherID, subject.Name, subject.Degree,
		subject.Semester, subject.Session, subject.IsOpen,
	).Scan(&subject.ID)
	if err != nil {
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := `
		SELECT id, teacher_id, name, degree, semester, session, is_open
		FROM subjects
		WHERE id = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.TeacherID,
		&subject.Name,
		&subject.Degree,
		&subject.Semester,
		&subject.Session,
		&subject.IsOpen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}

// ListByTeacher retrieves all subjects belonging to a teacher
func (r *SubjectRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.Subject, error) {
	query := `
		SELECT id, teacher_id, name, degree, semester, session, is_open
		FROM subjects
		WHERE teacher_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.TeacherID,
			&subject.Name,
			&subject.Degree,
			&subject.Semester,
			&subject.Session,
			&subject.IsOpen,
		); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// ListByTeachers retrieves subjects for a set of teachers keyed by teacher id
func (r *SubjectRepository) ListByTeachers(ctx context.Context, teacherIDs []int64) (map[int64][]models.Subject, error) {
	if len(teacherIDs) == 0 {
		return map[int64][]models.Subject{}, nil
	}

	query := `
		SELECT id, teacher_id, name, degree, semester, session, is_open
		FROM subjects
		WHERE teacher_id = ANY($1)
		ORDER BY teacher_id, id
	`

	rows, err := r.db.Query(ctx, query, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	byTeacher := make(map[int64][]models.Subject, len(teacherIDs))
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.TeacherID,
			&subject.Name,
			&subject.Degree,
			&subject.Semester,
			&subject.Session,
			&subject.IsOpen,
		); err != nil {
			return nil, err
		}
		byTeacher[subject.TeacherID] = append(byTeacher[subject.TeacherID], subject)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byTeacher, nil
}

// SetOpen toggles one subject's review window. Ownership is enforced by the
// teacher_id predicate so a teacher cannot flip another teacher's subject.
func (r *SubjectRepository) SetOpen(ctx context.Context, id, teacherID int64, open bool) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE subjects SET is_open = $1 WHERE id = $2 AND teacher_id = $3`,
		open, id, teacherID)
	if err != nil {
		return fmt.Errorf("error updating subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Delete removes a subject owned by the teacher
func (r *SubjectRepository) Delete(ctx context.Context, id, teacherID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM subjects WHERE id = $1 AND teacher_id = $2`, id, teacherID)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}
