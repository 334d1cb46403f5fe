package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/db"
	"github.com/devansh/fms/internal/pkg/apperrors"
)

// SessionRepository handles database operations for department sessions
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session in the inactive state
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (department_id, name, degree, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		session.DepartmentID, session.Name, session.Degree, session.IsActive,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `
		SELECT id, department_id, name, degree, is_active
		FROM sessions
		WHERE id = $1
	`

	var session models.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.DepartmentID,
		&session.Name,
		&session.Degree,
		&session.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return &session, nil
}

// ListByDepartment retrieves all sessions registered on a department account
func (r *SessionRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Session, error) {
	query := `
		SELECT id, department_id, name, degree, is_active
		FROM sessions
		WHERE department_id = $1
		ORDER BY name DESC, degree
	`

	rows, err := r.db.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.DepartmentID,
			&session.Name,
			&session.Degree,
			&session.IsActive,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ExistsByNameDegree checks whether a department already registered the
// name/degree pair
func (r *SessionRepository) ExistsByNameDegree(ctx context.Context, departmentID int64, name string, degree models.Degree) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM sessions WHERE department_id = $1 AND name = $2 AND degree = $3)`,
		departmentID, name, degree).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking session existence: %w", err)
	}
	return exists, nil
}

// GetActive retrieves the active session of a department for a degree
func (r *SessionRepository) GetActive(ctx context.Context, departmentID int64, degree models.Degree) (*models.Session, error) {
	query := `
		SELECT id, department_id, name, degree, is_active
		FROM sessions
		WHERE department_id = $1 AND degree = $2 AND is_active
	`

	var session models.Session
	err := r.db.QueryRow(ctx, query, departmentID, degree).Scan(
		&session.ID,
		&session.DepartmentID,
		&session.Name,
		&session.Degree,
		&session.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoActiveSession
		}
		return nil, fmt.Errorf("error retrieving active session: %w", err)
	}

	return &session, nil
}

// Activate marks one session active and deactivates its same-degree siblings
// in a single transaction, so exactly one session per degree is live.
func (r *SessionRepository) Activate(ctx context.Context, departmentID, sessionID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var degree string
		err := tx.QueryRow(ctx,
			`SELECT degree FROM sessions WHERE id = $1 AND department_id = $2`,
			sessionID, departmentID).Scan(&degree)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrSessionNotFound
			}
			return fmt.Errorf("error retrieving session: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE sessions SET is_active = FALSE WHERE department_id = $1 AND degree = $2 AND id != $3`,
			departmentID, degree, sessionID); err != nil {
			return fmt.Errorf("error deactivating sessions: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE sessions SET is_active = TRUE WHERE id = $1`, sessionID); err != nil {
			return fmt.Errorf("error activating session: %w", err)
		}

		return nil
	})
}

// Delete removes a session owned by the department
func (r *SessionRepository) Delete(ctx context.Context, id, departmentID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1 AND department_id = $2`, id, departmentID)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}
