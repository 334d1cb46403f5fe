package services

import (
	"context"
	"errors"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/logger"
)

// NextLevel shifts a semester by delta within the degree's range. The result
// is clamped to [1, max], so promoting a final-semester student or demoting a
// first-semester student is a no-op rather than an error.
func NextLevel(degree models.Degree, semester, delta int) int {
	max := models.MaxSemesters(degree)
	if max == 0 {
		return semester
	}

	next := semester + delta
	if next < 1 {
		next = 1
	}
	if next > max {
		next = max
	}
	return next
}

// promotionStore is the slice of the account repository the promotion engine
// needs
type promotionStore interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	UpdateStudentLevel(ctx context.Context, id int64, semester int) error
}

// PromotionService shifts students between semesters in batches
type PromotionService struct {
	store promotionStore
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(store promotionStore) *PromotionService {
	return &PromotionService{store: store}
}

// Shift moves each listed student by delta semesters (+1 promote, -1 demote).
// The batch is best-effort: a failure on one student is tallied and the rest
// proceed.
func (s *PromotionService) Shift(ctx context.Context, studentIDs []int64, delta int) *dto.PromotionResponse {
	result := &dto.PromotionResponse{}

	for _, id := range studentIDs {
		if err := s.shiftOne(ctx, id, delta); err != nil {
			logger.Warn().Err(err).Int64("studentID", id).Msg("Failed to shift student level")
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Succeeded++
	}

	return result
}

func (s *PromotionService) shiftOne(ctx context.Context, id int64, delta int) error {
	account, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account.Student == nil {
		return errors.New("account is not a student")
	}
	if account.Status != models.StatusApproved {
		return apperrors.ErrAccountPending
	}

	next := NextLevel(account.Student.Degree, account.Student.Semester, delta)
	if next == account.Student.Semester {
		// Clamped at a boundary; nothing to write
		return nil
	}

	return s.store.UpdateStudentLevel(ctx, id, next)
}
