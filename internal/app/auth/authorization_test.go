package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/pkg/apperrors"
)

type fakeAccountStore struct {
	accounts map[int64]*models.Account
}

func newFakeAccountStore(accounts ...*models.Account) *fakeAccountStore {
	s := &fakeAccountStore{accounts: make(map[int64]*models.Account)}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *fakeAccountStore) GetByID(_ context.Context, id int64) (*models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

func adminAccount(id int64) *models.Account {
	return &models.Account{ID: id, Role: models.RoleAdmin, Status: models.StatusApproved}
}

func deptAccount(id int64, code string) *models.Account {
	return &models.Account{
		ID:         id,
		Role:       models.RoleDepartment,
		Status:     models.StatusApproved,
		Department: &models.DepartmentProfile{DeptID: code},
	}
}

func teacherAccount(id int64, code string) *models.Account {
	return &models.Account{
		ID:      id,
		Role:    models.RoleTeacher,
		Status:  models.StatusApproved,
		Teacher: &models.TeacherProfile{DepartmentCode: code},
	}
}

func studentAccount(id int64, code string) *models.Account {
	return &models.Account{
		ID:     id,
		Role:   models.RoleStudent,
		Status: models.StatusPending,
		Student: &models.StudentProfile{
			RegNum:         "12345678901",
			DepartmentCode: code,
			Degree:         models.DegreeBTech,
			Semester:       1,
		},
	}
}

func TestResolveDepartmentCode(t *testing.T) {
	svc := NewAuthorizationService(newFakeAccountStore(
		adminAccount(1),
		deptAccount(10, "105"),
		teacherAccount(20, "105"),
	))
	ctx := context.Background()

	code, err := svc.ResolveDepartmentCode(ctx, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "105", code)

	// Departments cannot act as another department
	_, err = svc.ResolveDepartmentCode(ctx, 10, "106")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Admins must name the department explicitly
	_, err = svc.ResolveDepartmentCode(ctx, 1, "")
	assert.Error(t, err)
	code, err = svc.ResolveDepartmentCode(ctx, 1, "106")
	require.NoError(t, err)
	assert.Equal(t, "106", code)

	// Other roles never resolve
	_, err = svc.ResolveDepartmentCode(ctx, 20, "105")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCanManageTeacher(t *testing.T) {
	svc := NewAuthorizationService(newFakeAccountStore(
		adminAccount(1),
		deptAccount(10, "105"),
		teacherAccount(20, "105"),
		teacherAccount(21, "106"),
	))
	ctx := context.Background()

	assert.NoError(t, svc.CanManageTeacher(ctx, 10, 20))
	assert.ErrorIs(t, svc.CanManageTeacher(ctx, 10, 21), apperrors.ErrPermissionDenied)
	assert.NoError(t, svc.CanManageTeacher(ctx, 1, 21))
	assert.ErrorIs(t, svc.CanManageTeacher(ctx, 10, 99), apperrors.ErrAccountNotFound)
}

func TestCanDecideAccount(t *testing.T) {
	svc := NewAuthorizationService(newFakeAccountStore(
		adminAccount(1),
		deptAccount(10, "105"),
		deptAccount(11, "106"),
		studentAccount(30, "105"),
		teacherAccount(20, "105"),
	))
	ctx := context.Background()

	// A department decides its own students and teachers
	assert.NoError(t, svc.CanDecideAccount(ctx, 10, 30))
	assert.NoError(t, svc.CanDecideAccount(ctx, 10, 20))

	// But not another department's
	assert.ErrorIs(t, svc.CanDecideAccount(ctx, 11, 30), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.CanDecideAccount(ctx, 11, 20), apperrors.ErrPermissionDenied)

	// Department accounts themselves are an admin-only decision
	assert.ErrorIs(t, svc.CanDecideAccount(ctx, 10, 11), apperrors.ErrPermissionDenied)
	assert.NoError(t, svc.CanDecideAccount(ctx, 1, 11))

	// Admins decide everything
	assert.NoError(t, svc.CanDecideAccount(ctx, 1, 30))

	// Non-department callers never decide
	assert.ErrorIs(t, svc.CanDecideAccount(ctx, 20, 30), apperrors.ErrPermissionDenied)
}
