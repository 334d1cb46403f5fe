package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/apperrors"
)

// fakeApprovalAccounts backs the approval workflow with an in-memory map
type fakeApprovalAccounts struct {
	accounts map[int64]*models.Account
	statuses map[int64]models.Status
	deleted  []int64
}

func newFakeApprovalAccounts(accounts ...*models.Account) *fakeApprovalAccounts {
	s := &fakeApprovalAccounts{
		accounts: make(map[int64]*models.Account),
		statuses: make(map[int64]models.Status),
	}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *fakeApprovalAccounts) GetByID(_ context.Context, id int64) (*models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *fakeApprovalAccounts) GetDepartmentByCode(_ context.Context, code string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.Department != nil && a.Department.DeptID == code {
			return a, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (s *fakeApprovalAccounts) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	s.statuses[id] = status
	return nil
}

func (s *fakeApprovalAccounts) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	delete(s.accounts, id)
	return nil
}

func (s *fakeApprovalAccounts) List(_ context.Context, filter repositories.AccountFilter, _, _ int) ([]*models.Account, int, error) {
	var out []*models.Account
	for _, a := range s.accounts {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.DepartmentCode != "" {
			var code string
			switch {
			case a.Student != nil:
				code = a.Student.DepartmentCode
			case a.Teacher != nil:
				code = a.Teacher.DepartmentCode
			}
			if code != filter.DepartmentCode {
				continue
			}
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

// fakeApprovalSessions records sessions registered during approval
type fakeApprovalSessions struct {
	created []*models.Session
}

func (s *fakeApprovalSessions) ExistsByNameDegree(_ context.Context, departmentID int64, name string, degree models.Degree) (bool, error) {
	for _, sess := range s.created {
		if sess.DepartmentID == departmentID && sess.Name == name && sess.Degree == degree {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeApprovalSessions) Create(_ context.Context, session *models.Session) error {
	s.created = append(s.created, session)
	return nil
}

// fakeApprovalTokens records revocations
type fakeApprovalTokens struct {
	revoked []int64
}

func (s *fakeApprovalTokens) RevokeAllForAccount(_ context.Context, accountID int64) error {
	s.revoked = append(s.revoked, accountID)
	return nil
}

func pendingStudent(id int64, session string) *models.Account {
	return &models.Account{
		ID:     id,
		Role:   models.RoleStudent,
		Status: models.StatusPending,
		Name:   "Test Student",
		Student: &models.StudentProfile{
			RegNum:         "12345678901",
			DepartmentCode: "105",
			Degree:         models.DegreeBTech,
			Semester:       1,
			Session:        session,
		},
	}
}

func pendingTeacher(id int64, code string) *models.Account {
	return &models.Account{
		ID:      id,
		Role:    models.RoleTeacher,
		Status:  models.StatusPending,
		Name:    "Test Teacher",
		Teacher: &models.TeacherProfile{DepartmentCode: code},
	}
}

func departmentAccount(id int64, code string) *models.Account {
	return &models.Account{
		ID:         id,
		Role:       models.RoleDepartment,
		Status:     models.StatusApproved,
		Department: &models.DepartmentProfile{DeptID: code},
	}
}

func TestApproveStudentRegistersSession(t *testing.T) {
	accounts := newFakeApprovalAccounts(
		pendingStudent(1, "2023-27"),
		departmentAccount(10, "105"),
	)
	sessions := &fakeApprovalSessions{}
	tokens := &fakeApprovalTokens{}
	svc := NewApprovalService(accounts, sessions, tokens, nil)

	account, err := svc.Approve(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, account.Status)
	assert.Equal(t, models.StatusApproved, accounts.statuses[1])

	require.Len(t, sessions.created, 1)
	assert.Equal(t, int64(10), sessions.created[0].DepartmentID)
	assert.Equal(t, "2023-27", sessions.created[0].Name)
	assert.Equal(t, models.DegreeBTech, sessions.created[0].Degree)
	assert.False(t, sessions.created[0].IsActive)
}

func TestApproveSessionRegistrationIsIdempotent(t *testing.T) {
	accounts := newFakeApprovalAccounts(
		pendingStudent(1, "2023-27"),
		pendingStudent(2, "2023-27"),
		departmentAccount(10, "105"),
	)
	sessions := &fakeApprovalSessions{}
	svc := NewApprovalService(accounts, sessions, &fakeApprovalTokens{}, nil)

	_, err := svc.Approve(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), 2)
	require.NoError(t, err)

	// Two approvals from the same cohort register the session once
	assert.Len(t, sessions.created, 1)
}

func TestApproveSucceedsWithoutDepartmentAccount(t *testing.T) {
	accounts := newFakeApprovalAccounts(pendingStudent(1, "2023-27"))
	sessions := &fakeApprovalSessions{}
	svc := NewApprovalService(accounts, sessions, &fakeApprovalTokens{}, nil)

	// A department that has no account yet does not block the approval;
	// there is nothing to register the session on
	account, err := svc.Approve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, account.Status)
	assert.Empty(t, sessions.created)
}

func TestApproveNonPendingFails(t *testing.T) {
	approved := pendingStudent(1, "2023-27")
	approved.Status = models.StatusApproved
	accounts := newFakeApprovalAccounts(approved)
	svc := NewApprovalService(accounts, &fakeApprovalSessions{}, &fakeApprovalTokens{}, nil)

	_, err := svc.Approve(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Empty(t, accounts.statuses)
}

func TestApproveUnknownAccount(t *testing.T) {
	svc := NewApprovalService(newFakeApprovalAccounts(), &fakeApprovalSessions{}, &fakeApprovalTokens{}, nil)

	_, err := svc.Approve(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestRejectDeletesAccount(t *testing.T) {
	accounts := newFakeApprovalAccounts(pendingStudent(1, "2023-27"))
	tokens := &fakeApprovalTokens{}
	svc := NewApprovalService(accounts, &fakeApprovalSessions{}, tokens, nil)

	err := svc.Reject(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, accounts.deleted)
	assert.Equal(t, []int64{1}, tokens.revoked)
	_, err = svc.Approve(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestRejectNonPendingFails(t *testing.T) {
	approved := pendingStudent(1, "2023-27")
	approved.Status = models.StatusApproved
	accounts := newFakeApprovalAccounts(approved)
	svc := NewApprovalService(accounts, &fakeApprovalSessions{}, &fakeApprovalTokens{}, nil)

	err := svc.Reject(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Empty(t, accounts.deleted)
}

func TestListPendingScopedToDepartment(t *testing.T) {
	other := pendingStudent(2, "2023-27")
	other.Student.DepartmentCode = "106"
	accounts := newFakeApprovalAccounts(
		pendingStudent(1, "2023-27"),
		other,
		pendingTeacher(3, "105"),
		pendingTeacher(4, "106"),
	)
	svc := NewApprovalService(accounts, &fakeApprovalSessions{}, &fakeApprovalTokens{}, nil)

	// A department's queue holds only its own students and teachers
	pending, total, err := svc.ListPending(context.Background(), "", "105", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	ids := make([]int64, 0, len(pending))
	for _, a := range pending {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []int64{1, 3}, ids)
}

func TestListPendingFiltersByRole(t *testing.T) {
	accounts := newFakeApprovalAccounts(
		pendingStudent(1, "2023-27"),
		departmentAccount(10, "105"),
	)
	svc := NewApprovalService(accounts, &fakeApprovalSessions{}, &fakeApprovalTokens{}, nil)

	pending, total, err := svc.ListPending(context.Background(), models.RoleStudent, "", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].ID)
}
