package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/dberrors"
)

const accountColumns = `
	id, role, status, name, email, password,
	reg_num, department_code, degree, semester, session,
	is_review_open, dept_id, created_at, updated_at
`

// AccountRepository handles database operations for accounts of every role.
// Role-specific fields live as nullable columns on the accounts table; the
// scan routine folds them back into the matching profile struct.
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var (
		account      models.Account
		regNum       *string
		deptCode     *string
		degree       *string
		semester     *int
		session      *string
		isReviewOpen *bool
		deptID       *string
	)

	err := row.Scan(
		&account.ID,
		&account.Role,
		&account.Status,
		&account.Name,
		&account.Email,
		&account.Password,
		&regNum,
		&deptCode,
		&degree,
		&semester,
		&session,
		&isReviewOpen,
		&deptID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch account.Role {
	case models.RoleStudent:
		profile := &models.StudentProfile{}
		if regNum != nil {
			profile.RegNum = *regNum
		}
		if deptCode != nil {
			profile.DepartmentCode = *deptCode
		}
		if degree != nil {
			profile.Degree = models.Degree(*degree)
		}
		if semester != nil {
			profile.Semester = *semester
		}
		if session != nil {
			profile.Session = *session
		}
		account.Student = profile
	case models.RoleTeacher:
		profile := &models.TeacherProfile{}
		if deptCode != nil {
			profile.DepartmentCode = *deptCode
		}
		if isReviewOpen != nil {
			profile.IsReviewOpen = *isReviewOpen
		}
		account.Teacher = profile
	case models.RoleDepartment:
		profile := &models.DepartmentProfile{}
		if deptID != nil {
			profile.DeptID = *deptID
		}
		account.Department = profile
	}

	return &account, nil
}

// Create inserts a new account. Uniqueness violations on email, reg_num or
// dept_id are mapped to the matching sentinel.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (
			role, status, name, email, password,
			reg_num, department_code, degree, semester, session,
			is_review_open, dept_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	var (
		regNum       *string
		deptCode     *string
		degree       *string
		semester     *int
		session      *string
		isReviewOpen *bool
		deptID       *string
	)

	switch {
	case account.Student != nil:
		regNum = &account.Student.RegNum
		deptCode = &account.Student.DepartmentCode
		d := string(account.Student.Degree)
		degree = &d
		semester = &account.Student.Semester
		session = &account.Student.Session
	case account.Teacher != nil:
		deptCode = &account.Teacher.DepartmentCode
		isReviewOpen = &account.Teacher.IsReviewOpen
	case account.Department != nil:
		deptID = &account.Department.DeptID
	}

	err := r.db.QueryRow(ctx, query,
		account.Role, account.Status, account.Name, account.Email, account.Password,
		regNum, deptCode, degree, semester, session, isReviewOpen, deptID,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "accounts_email_key"):
			return apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "accounts_reg_num_key"):
			return apperrors.ErrRegNumAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "accounts_dept_id_key"):
			return apperrors.ErrDeptIDAlreadyExists
		}
		return fmt.Errorf("error creating account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}

	return account, nil
}

// GetByEmail retrieves an account by its login email, synthetic or real
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error retrieving account by email: %w", err)
	}

	return account, nil
}

// GetDepartmentByCode retrieves the department account owning the given code
func (r *AccountRepository) GetDepartmentByCode(ctx context.Context, code string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = 'department' AND dept_id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error retrieving department account: %w", err)
	}

	return account, nil
}

// ExistsByEmail checks if any account already uses the email
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// ExistsByRegNum checks if a student account already uses the registration number
func (r *AccountRepository) ExistsByRegNum(ctx context.Context, regNum string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE reg_num = $1)`, regNum).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking registration number existence: %w", err)
	}
	return exists, nil
}

// ExistsByDeptID checks if a department account already uses the department id
func (r *AccountRepository) ExistsByDeptID(ctx context.Context, deptID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE dept_id = $1)`, deptID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking department id existence: %w", err)
	}
	return exists, nil
}

// AccountFilter narrows listing queries. Zero values mean "any".
type AccountFilter struct {
	Role           models.Role
	Status         models.Status
	DepartmentCode string
	Session        string
	Degree         string
	Semester       int
}

func (f AccountFilter) where() (string, []interface{}) {
	clause := " WHERE 1=1"
	args := make([]interface{}, 0, 6)

	add := func(cond string, v interface{}) {
		args = append(args, v)
		clause += fmt.Sprintf(cond, len(args))
	}

	if f.Role != "" {
		add(" AND role = $%d", f.Role)
	}
	if f.Status != "" {
		add(" AND status = $%d", f.Status)
	}
	if f.DepartmentCode != "" {
		add(" AND (department_code = $%d OR dept_id = $%[1]d)", f.DepartmentCode)
	}
	if f.Session != "" {
		add(" AND session = $%d", f.Session)
	}
	if f.Degree != "" {
		add(" AND degree = $%d", f.Degree)
	}
	if f.Semester > 0 {
		add(" AND semester = $%d", f.Semester)
	}

	return clause, args
}

// List retrieves accounts matching the filter, newest first, with paging
func (r *AccountRepository) List(ctx context.Context, filter AccountFilter, offset, limit int) ([]*models.Account, int, error) {
	clause, args := filter.where()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts` + clause +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// UpdateStatus moves an account to a new approval status
func (r *AccountRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE accounts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating account status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// UpdateStudentLevel sets a student's semester. The derived year is never
// stored.
func (r *AccountRepository) UpdateStudentLevel(ctx context.Context, id int64, semester int) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE accounts SET semester = $1, updated_at = NOW() WHERE id = $2 AND role = 'student'`,
		semester, id)
	if err != nil {
		return fmt.Errorf("error updating student level: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// UpdateReviewOpen flips a teacher's global review flag
func (r *AccountRepository) UpdateReviewOpen(ctx context.Context, id int64, open bool) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE accounts SET is_review_open = $1, updated_at = NOW() WHERE id = $2 AND role = 'teacher'`,
		open, id)
	if err != nil {
		return fmt.Errorf("error updating review flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// Delete removes an account and, through ON DELETE CASCADE, its subjects,
// sessions and refresh tokens
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// CountByRole counts approved accounts of a role
func (r *AccountRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE role = $1 AND status = 'approved'`, role).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting accounts: %w", err)
	}
	return count, nil
}

// CountPending counts accounts awaiting approval
func (r *AccountRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE status = 'pending'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting pending accounts: %w", err)
	}
	return count, nil
}
