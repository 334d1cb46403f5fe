package services

import (
	"context"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/logger"
	"github.com/devansh/fms/internal/pkg/validation"
)

// RosterService maintains the admin-imported student roster. The roster is
// advisory data used for cross-checking registrations, not an account source.
type RosterService struct {
	roster *repositories.RosterRepository
}

// NewRosterService creates a new RosterService
func NewRosterService(roster *repositories.RosterRepository) *RosterService {
	return &RosterService{roster: roster}
}

// List returns the whole roster
func (s *RosterService) List(ctx context.Context) ([]models.RosterEntry, error) {
	return s.roster.List(ctx)
}

// Upsert adds or replaces one roster entry
func (s *RosterService) Upsert(ctx context.Context, req *dto.RosterEntryRequest) (*models.RosterEntry, error) {
	if err := validation.ValidateRegNum(req.RegNum); err != nil {
		return nil, err
	}
	if req.Department != "" {
		if err := validation.ValidateDeptCode(req.Department); err != nil {
			return nil, err
		}
	}

	entry := &models.RosterEntry{
		RegNum:     req.RegNum,
		Name:       req.Name,
		Department: req.Department,
		Semester:   req.Semester,
	}
	if err := s.roster.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// BulkImport upserts many roster entries, tallying per-row failures by
// registration number
func (s *RosterService) BulkImport(ctx context.Context, req *dto.BulkRosterRequest) *dto.BulkResult {
	result := &dto.BulkResult{}

	for i := range req.Entries {
		row := &req.Entries[i]
		if _, err := s.Upsert(ctx, row); err != nil {
			logger.Warn().Err(err).Str("regNum", row.RegNum).Msg("Failed to import roster entry")
			result.Failed++
			result.FailedIDs = append(result.FailedIDs, row.RegNum)
			continue
		}
		result.Succeeded++
	}

	return result
}

// Delete removes one roster entry
func (s *RosterService) Delete(ctx context.Context, regNum string) error {
	return s.roster.Delete(ctx, regNum)
}
