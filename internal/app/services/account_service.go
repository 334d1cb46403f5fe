package services

import (
	"context"
	"fmt"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/auth"
	"github.com/devansh/fms/internal/pkg/logger"
	"github.com/devansh/fms/internal/pkg/validation"
)

// accountStore is the slice of the account repository the provisioning flows
// need
type accountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetDepartmentByCode(ctx context.Context, code string) (*models.Account, error)
	ExistsByRegNum(ctx context.Context, regNum string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter repositories.AccountFilter, offset, limit int) ([]*models.Account, int, error)
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role models.Role) (int, error)
	CountPending(ctx context.Context) (int, error)
}

// accountSessionStore resolves the active session for provisioning
type accountSessionStore interface {
	GetActive(ctx context.Context, departmentID int64, degree models.Degree) (*models.Session, error)
}

// accountTokenStore revokes credentials of deleted accounts
type accountTokenStore interface {
	RevokeAllForAccount(ctx context.Context, accountID int64) error
}

// AccountService provisions and manages accounts on behalf of departments
// and admins. Provisioned accounts skip the approval queue.
type AccountService struct {
	accounts accountStore
	sessions accountSessionStore
	tokens   accountTokenStore
	domain   string
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts accountStore, sessions accountSessionStore, tokens accountTokenStore, domain string) *AccountService {
	return &AccountService{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		domain:   domain,
	}
}

// CreateTeacher provisions an approved teacher account under the department
func (s *AccountService) CreateTeacher(ctx context.Context, departmentCode string, req *dto.CreateTeacherRequest) (*models.Account, error) {
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Role:     models.RoleTeacher,
		Status:   models.StatusApproved,
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Teacher: &models.TeacherProfile{
			DepartmentCode: departmentCode,
		},
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// CreateStudent provisions an approved student account under the
// department's active session for the requested degree
func (s *AccountService) CreateStudent(ctx context.Context, departmentCode string, req *dto.CreateStudentRequest) (*models.Account, error) {
	if err := validation.ValidateRegNum(req.RegNum); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	degree := models.Degree(req.Degree)
	if !degree.IsValid() {
		return nil, apperrors.NewValidationError("Unknown degree programme")
	}
	if req.Semester < 1 || req.Semester > models.MaxSemesters(degree) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Semester must be between 1 and %d for %s", models.MaxSemesters(degree), degree))
	}

	dept, err := s.accounts.GetDepartmentByCode(ctx, departmentCode)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.GetActive(ctx, dept.ID, degree)
	if err != nil {
		return nil, err
	}

	exists, err := s.accounts.ExistsByRegNum(ctx, req.RegNum)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrRegNumAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Role:     models.RoleStudent,
		Status:   models.StatusApproved,
		Name:     req.Name,
		Email:    models.SyntheticEmail(models.RoleStudent, req.RegNum, s.domain),
		Password: hashed,
		Student: &models.StudentProfile{
			RegNum:         req.RegNum,
			DepartmentCode: departmentCode,
			Degree:         degree,
			Semester:       req.Semester,
			Session:        session.Name,
		},
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// BulkCreateStudents provisions many students, tallying per-row failures by
// registration number rather than aborting the batch
func (s *AccountService) BulkCreateStudents(ctx context.Context, departmentCode string, req *dto.BulkStudentsRequest) *dto.BulkResult {
	result := &dto.BulkResult{}

	for i := range req.Students {
		row := &req.Students[i]
		if _, err := s.CreateStudent(ctx, departmentCode, row); err != nil {
			logger.Warn().Err(err).Str("regNum", row.RegNum).Msg("Failed to provision student")
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, row.RegNum)
			continue
		}
		result.Succeeded++
	}

	return result
}

// List retrieves accounts matching the filter with pagination
func (s *AccountService) List(ctx context.Context, filter repositories.AccountFilter, offset, limit int) ([]*models.Account, int, error) {
	return s.accounts.List(ctx, filter, offset, limit)
}

// GetByID retrieves one account
func (s *AccountService) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Delete removes an account and revokes its live tokens
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if err := s.tokens.RevokeAllForAccount(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("accountID", id).Msg("Failed to revoke tokens of deleted account")
	}
	return s.accounts.Delete(ctx, id)
}

// Stats returns the admin dashboard counters
func (s *AccountService) Stats(ctx context.Context) (*dto.SystemStatsResponse, error) {
	students, err := s.accounts.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	teachers, err := s.accounts.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}
	departments, err := s.accounts.CountByRole(ctx, models.RoleDepartment)
	if err != nil {
		return nil, err
	}
	pending, err := s.accounts.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.SystemStatsResponse{
		Students:    students,
		Teachers:    teachers,
		Departments: departments,
		Pending:     pending,
	}, nil
}
