package auth

import (
	"context"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/pkg/apperrors"
)

// accountStore is the slice of the account repository ownership checks need
type accountStore interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}

// AuthorizationService answers ownership questions the role gates cannot:
// whether the caller may act on a particular department's resources.
type AuthorizationService struct {
	accounts accountStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(accounts accountStore) *AuthorizationService {
	return &AuthorizationService{accounts: accounts}
}

// ResolveDepartmentCode returns the department code the caller operates as.
// Department accounts act as their own code; an admin may act as any
// department by naming it explicitly.
func (s *AuthorizationService) ResolveDepartmentCode(ctx context.Context, accountID int64, requested string) (string, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	switch {
	case account.Role == models.RoleAdmin:
		if requested == "" {
			return "", apperrors.NewValidationError("Department code is required for admin operations")
		}
		return requested, nil
	case account.Department != nil:
		if requested != "" && requested != account.Department.DeptID {
			return "", apperrors.ErrPermissionDenied
		}
		return account.Department.DeptID, nil
	}

	return "", apperrors.ErrPermissionDenied
}

// CanManageTeacher reports whether the caller may manage the given teacher
// account. Departments manage their own teachers; admins manage everyone.
func (s *AuthorizationService) CanManageTeacher(ctx context.Context, accountID, teacherID int64) error {
	caller, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.Department == nil {
		return apperrors.ErrPermissionDenied
	}

	teacher, err := s.accounts.GetByID(ctx, teacherID)
	if err != nil {
		return err
	}
	if teacher.Teacher == nil || teacher.Teacher.DepartmentCode != caller.Department.DeptID {
		return apperrors.ErrPermissionDenied
	}

	return nil
}

// CanDecideAccount reports whether the caller may approve or reject the given
// pending account. Admins decide everything; a department decides the students
// and teachers registered under its own code. Pending department accounts are
// an admin-only decision.
func (s *AuthorizationService) CanDecideAccount(ctx context.Context, accountID, targetID int64) error {
	caller, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.Department == nil {
		return apperrors.ErrPermissionDenied
	}

	target, err := s.accounts.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	switch {
	case target.Student != nil && target.Student.DepartmentCode == caller.Department.DeptID:
		return nil
	case target.Teacher != nil && target.Teacher.DepartmentCode == caller.Department.DeptID:
		return nil
	}

	return apperrors.ErrPermissionDenied
}

// CanManageStudent reports whether the caller may manage the given student
// account
func (s *AuthorizationService) CanManageStudent(ctx context.Context, accountID, studentID int64) error {
	caller, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if caller.Role == models.RoleAdmin {
		return nil
	}
	if caller.Department == nil {
		return apperrors.ErrPermissionDenied
	}

	student, err := s.accounts.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student.Student == nil || student.Student.DepartmentCode != caller.Department.DeptID {
		return apperrors.ErrPermissionDenied
	}

	return nil
}
