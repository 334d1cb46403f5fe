package services

import (
	"context"
	"errors"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/repositories"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/email"
	"github.com/devansh/fms/internal/pkg/logger"
)

// approvalAccountStore is the slice of the account repository the approval
// workflow needs
type approvalAccountStore interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetDepartmentByCode(ctx context.Context, code string) (*models.Account, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repositories.AccountFilter, offset, limit int) ([]*models.Account, int, error)
}

// approvalSessionStore registers sessions discovered during student approval
type approvalSessionStore interface {
	ExistsByNameDegree(ctx context.Context, departmentID int64, name string, degree models.Degree) (bool, error)
	Create(ctx context.Context, session *models.Session) error
}

// approvalTokenStore revokes credentials of rejected accounts
type approvalTokenStore interface {
	RevokeAllForAccount(ctx context.Context, accountID int64) error
}

// ApprovalService drives the pending/approved/rejected account lifecycle
type ApprovalService struct {
	accounts approvalAccountStore
	sessions approvalSessionStore
	tokens   approvalTokenStore
	mailer   email.Service
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(accounts approvalAccountStore, sessions approvalSessionStore, tokens approvalTokenStore, mailer email.Service) *ApprovalService {
	return &ApprovalService{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		mailer:   mailer,
	}
}

// ListPending returns accounts awaiting a decision, optionally narrowed to
// one role or department
func (s *ApprovalService) ListPending(ctx context.Context, role models.Role, departmentCode string, offset, limit int) ([]*models.Account, int, error) {
	filter := repositories.AccountFilter{
		Status:         models.StatusPending,
		Role:           role,
		DepartmentCode: departmentCode,
	}
	return s.accounts.List(ctx, filter, offset, limit)
}

// Approve moves a pending account to approved. Approving a student also
// registers the student's session on the owning department, inactive, so the
// department sees it without another admin step.
func (s *ApprovalService) Approve(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := account.Status.Transition(models.EventApprove)
	if err != nil {
		return nil, err
	}

	if account.Student != nil {
		if err := s.registerStudentSession(ctx, account.Student); err != nil {
			return nil, err
		}
	}

	if err := s.accounts.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	account.Status = next

	s.notify(ctx, account, true)

	return account, nil
}

// Reject removes a pending account entirely, matching the portal's original
// behavior where a declined registration leaves no trace. Live refresh tokens
// are revoked first in case the applicant somehow obtained one.
func (s *ApprovalService) Reject(ctx context.Context, id int64) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := account.Status.Transition(models.EventReject); err != nil {
		return err
	}

	if err := s.tokens.RevokeAllForAccount(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("accountID", id).Msg("Failed to revoke tokens of rejected account")
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(ctx, account, false)

	return nil
}

// registerStudentSession is idempotent: approving two students from the same
// session registers it once. Storage failures surface and block the approval,
// which stays retryable since the account is still pending. A department that
// simply has no account yet is tolerated; there is nothing to register on.
func (s *ApprovalService) registerStudentSession(ctx context.Context, student *models.StudentProfile) error {
	if student.Session == "" || student.DepartmentCode == "" {
		return nil
	}

	dept, err := s.accounts.GetDepartmentByCode(ctx, student.DepartmentCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			logger.Warn().
				Str("department", student.DepartmentCode).
				Msg("No department account for student session registration")
			return nil
		}
		return err
	}

	exists, err := s.sessions.ExistsByNameDegree(ctx, dept.ID, student.Session, student.Degree)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	session := &models.Session{
		DepartmentID: dept.ID,
		Name:         student.Session,
		Degree:       student.Degree,
		IsActive:     false,
	}
	return s.sessions.Create(ctx, session)
}

// notify sends a lifecycle email on a best-effort basis. Students and
// departments carry synthetic addresses nothing routes, so only teacher and
// admin accounts are mailed.
func (s *ApprovalService) notify(ctx context.Context, account *models.Account, approved bool) {
	if s.mailer == nil {
		return
	}
	if account.Role != models.RoleTeacher && account.Role != models.RoleAdmin {
		return
	}

	var err error
	if approved {
		err = s.mailer.SendApprovalNotification(ctx, account.Email, account.Name)
	} else {
		err = s.mailer.SendRejectionNotification(ctx, account.Email, account.Name)
	}
	if err != nil {
		logger.Warn().Err(err).Str("email", account.Email).Msg("Failed to send lifecycle notification")
	}
}
