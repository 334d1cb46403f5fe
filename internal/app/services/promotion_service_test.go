package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/pkg/apperrors"
)

func TestNextLevel(t *testing.T) {
	tests := []struct {
		name     string
		degree   models.Degree
		semester int
		delta    int
		want     int
	}{
		{"promote mid programme", models.DegreeBTech, 5, 1, 6},
		{"demote mid programme", models.DegreeBTech, 5, -1, 4},
		{"promote clamps at final semester", models.DegreeBTech, 8, 1, 8},
		{"demote clamps at first semester", models.DegreeBTech, 1, -1, 1},
		{"mtech final semester", models.DegreeMTech, 4, 1, 4},
		{"mtech promote", models.DegreeMTech, 3, 1, 4},
		{"unknown degree is untouched", models.Degree("PhD"), 3, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextLevel(tt.degree, tt.semester, tt.delta))
		})
	}
}

// fakePromotionStore records level writes and serves canned accounts
type fakePromotionStore struct {
	accounts map[int64]*models.Account
	writes   map[int64]int
}

func newFakePromotionStore(accounts ...*models.Account) *fakePromotionStore {
	s := &fakePromotionStore{
		accounts: make(map[int64]*models.Account),
		writes:   make(map[int64]int),
	}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *fakePromotionStore) GetByID(_ context.Context, id int64) (*models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *fakePromotionStore) UpdateStudentLevel(_ context.Context, id int64, semester int) error {
	s.writes[id] = semester
	return nil
}

func approvedStudent(id int64, degree models.Degree, semester int) *models.Account {
	return &models.Account{
		ID:     id,
		Role:   models.RoleStudent,
		Status: models.StatusApproved,
		Student: &models.StudentProfile{
			RegNum:   "12345678901",
			Degree:   degree,
			Semester: semester,
		},
	}
}

func TestPromotionShiftBatch(t *testing.T) {
	store := newFakePromotionStore(
		approvedStudent(1, models.DegreeBTech, 5),
		approvedStudent(2, models.DegreeBTech, 8),
		&models.Account{ID: 3, Role: models.RoleTeacher, Status: models.StatusApproved,
			Teacher: &models.TeacherProfile{DepartmentCode: "105"}},
	)
	svc := NewPromotionService(store)

	// ID 4 does not exist; ID 3 is a teacher; ID 2 is clamped at the final
	// semester and counts as succeeded without a write
	result := svc.Shift(context.Background(), []int64{1, 2, 3, 4}, 1)

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.ElementsMatch(t, []int64{3, 4}, result.FailedIDs)

	assert.Equal(t, map[int64]int{1: 6}, store.writes)
}

func TestPromotionShiftRejectsPendingStudent(t *testing.T) {
	pending := approvedStudent(1, models.DegreeBTech, 5)
	pending.Status = models.StatusPending
	store := newFakePromotionStore(pending)
	svc := NewPromotionService(store)

	result := svc.Shift(context.Background(), []int64{1}, 1)

	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, store.writes)
}

func TestPromotionShiftDemote(t *testing.T) {
	store := newFakePromotionStore(approvedStudent(1, models.DegreeMTech, 2))
	svc := NewPromotionService(store)

	result := svc.Shift(context.Background(), []int64{1}, -1)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, map[int64]int{1: 1}, store.writes)
}
