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

// RosterRepository handles database operations for the admin-maintained
// student roster. Rows are keyed by registration number.
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// Upsert inserts or replaces a roster entry
func (r *RosterRepository) Upsert(ctx context.Context, entry *models.RosterEntry) error {
	query := `
		INSERT INTO roster (reg_num, name, department, semester, email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (reg_num) DO UPDATE
		SET name = EXCLUDED.name,
			department = EXCLUDED.department,
			semester = EXCLUDED.semester,
			email = EXCLUDED.email
	`

	_, err := r.db.Exec(ctx, query,
		entry.RegNum, entry.Name, entry.Department, entry.Semester, entry.Email)
	if err != nil {
		return fmt.Errorf("error upserting roster entry: %w", err)
	}

	return nil
}

// GetByRegNum retrieves a roster entry
func (r *RosterRepository) GetByRegNum(ctx context.Context, regNum string) (*models.RosterEntry, error) {
	query := `
		SELECT reg_num, name, department, semester, email
		FROM roster
		WHERE reg_num = $1
	`

	var entry models.RosterEntry
	err := r.db.QueryRow(ctx, query, regNum).Scan(
		&entry.RegNum,
		&entry.Name,
		&entry.Department,
		&entry.Semester,
		&entry.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving roster entry: %w", err)
	}

	return &entry, nil
}

// List retrieves all roster entries ordered by registration number
func (r *RosterRepository) List(ctx context.Context) ([]models.RosterEntry, error) {
	query := `
		SELECT reg_num, name, department, semester, email
		FROM roster
		ORDER BY reg_num
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing roster: %w", err)
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var entry models.RosterEntry
		if err := rows.Scan(
			&entry.RegNum,
			&entry.Name,
			&entry.Department,
			&entry.Semester,
			&entry.Email,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Delete removes a roster entry
func (r *RosterRepository) Delete(ctx context.Context, regNum string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM roster WHERE reg_num = $1`, regNum)
	if err != nil {
		return fmt.Errorf("error deleting roster entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
