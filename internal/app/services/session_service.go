package services

import (
	"context"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/validation"
)

// SessionService manages a department's academic session catalog
type SessionService struct {
	sessions *repositories.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions *repositories.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions}
}

// List returns the sessions registered on a department account
func (s *SessionService) List(ctx context.Context, departmentID int64) ([]models.Session, error) {
	return s.sessions.ListByDepartment(ctx, departmentID)
}

// Create registers a session on the department. New sessions start inactive
// unless activation is requested, in which case the same-degree siblings are
// deactivated atomically.
func (s *SessionService) Create(ctx context.Context, departmentID int64, req *dto.CreateSessionRequest) (*models.Session, error) {
	if err := validation.ValidateSession(req.Name); err != nil {
		return nil, err
	}

	degree := models.Degree(req.Degree)
	if !degree.IsValid() {
		return nil, apperrors.NewValidationError("Unknown degree programme")
	}

	exists, err := s.sessions.ExistsByNameDegree(ctx, departmentID, req.Name, degree)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrSessionAlreadyExists
	}

	session := &models.Session{
		DepartmentID: departmentID,
		Name:         req.Name,
		Degree:       degree,
		IsActive:     false,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	if req.Activate {
		if err := s.sessions.Activate(ctx, departmentID, session.ID); err != nil {
			return nil, err
		}
		session.IsActive = true
	}

	return session, nil
}

// Activate makes one session the live one for its degree
func (s *SessionService) Activate(ctx context.Context, departmentID, sessionID int64) error {
	return s.sessions.Activate(ctx, departmentID, sessionID)
}

// Delete removes a session from the department catalog
func (s *SessionService) Delete(ctx context.Context, departmentID, sessionID int64) error {
	return s.sessions.Delete(ctx, sessionID, departmentID)
}
