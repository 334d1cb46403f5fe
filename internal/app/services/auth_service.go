package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/auth"
	"github.com/devansh/fms/internal/pkg/logger"
	"github.com/devansh/fms/internal/pkg/validation"
)

// authAccountStore is the slice of the account repository the auth flows need
type authAccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ExistsByRegNum(ctx context.Context, regNum string) (bool, error)
	ExistsByDeptID(ctx context.Context, deptID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// authTokenStore persists refresh tokens
type authTokenStore interface {
	CreateToken(ctx context.Context, token string, accountID int64, expiryDate time.Time) error
	GetTokenAccount(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
}

// AuthService handles registration, sign-in and token rotation
type AuthService struct {
	accounts authAccountStore
	tokens   authTokenStore
	jwt      *auth.JWTService
	domain   string
}

// NewAuthService creates a new AuthService
func NewAuthService(accounts authAccountStore, tokens authTokenStore, jwt *auth.JWTService, domain string) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		jwt:      jwt,
		domain:   domain,
	}
}

// Register creates a pending account from a self-registration request.
// Students and departments get synthetic login emails derived from their
// identifier; teachers register with a real address. Admin accounts are
// seeded, never self-registered.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.Account, error) {
	role := models.Role(req.Role)
	if !role.IsValid() || role == models.RoleAdmin {
		return nil, apperrors.NewValidationError("Unsupported registration role")
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	account := &models.Account{
		Role:   role,
		Status: models.StatusPending,
		Name:   req.Name,
	}

	switch role {
	case models.RoleStudent:
		if err := s.fillStudent(ctx, account, req); err != nil {
			return nil, err
		}
	case models.RoleTeacher:
		if err := s.fillTeacher(ctx, account, req); err != nil {
			return nil, err
		}
	case models.RoleDepartment:
		if err := s.fillDepartment(ctx, account, req); err != nil {
			return nil, err
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	account.Password = hashed

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	logger.Info().
		Str("role", req.Role).
		Str("email", account.Email).
		Msg("Account registered, awaiting approval")

	return account, nil
}

func (s *AuthService) fillStudent(ctx context.Context, account *models.Account, req *dto.RegisterRequest) error {
	if err := validation.ValidateRegNum(req.RegNum); err != nil {
		return err
	}
	if err := validation.ValidateDeptCode(req.Department); err != nil {
		return err
	}
	if err := validation.ValidateSession(req.Session); err != nil {
		return err
	}

	degree := models.Degree(req.Degree)
	if !degree.IsValid() {
		return apperrors.NewValidationError("Unknown degree programme")
	}
	if req.Semester < 1 || req.Semester > models.MaxSemesters(degree) {
		return apperrors.NewValidationError(
			fmt.Sprintf("Semester must be between 1 and %d for %s", models.MaxSemesters(degree), degree))
	}

	exists, err := s.accounts.ExistsByRegNum(ctx, req.RegNum)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrRegNumAlreadyExists
	}

	account.Email = models.SyntheticEmail(models.RoleStudent, req.RegNum, s.domain)
	account.Student = &models.StudentProfile{
		RegNum:         req.RegNum,
		DepartmentCode: req.Department,
		Degree:         degree,
		Semester:       req.Semester,
		Session:        req.Session,
	}
	return nil
}

func (s *AuthService) fillTeacher(ctx context.Context, account *models.Account, req *dto.RegisterRequest) error {
	if req.Email == "" {
		return apperrors.NewValidationError("Email is required for teacher registration")
	}
	if err := validation.ValidateDeptCode(req.Department); err != nil {
		return err
	}

	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	account.Email = req.Email
	account.Teacher = &models.TeacherProfile{
		DepartmentCode: req.Department,
	}
	return nil
}

func (s *AuthService) fillDepartment(ctx context.Context, account *models.Account, req *dto.RegisterRequest) error {
	if err := validation.ValidateDeptCode(req.DeptID); err != nil {
		return err
	}

	exists, err := s.accounts.ExistsByDeptID(ctx, req.DeptID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrDeptIDAlreadyExists
	}

	account.Email = models.SyntheticEmail(models.RoleDepartment, req.DeptID, s.domain)
	account.Department = &models.DepartmentProfile{
		DeptID: req.DeptID,
	}
	return nil
}

// Login verifies credentials for the selected role and issues a token pair.
// The account's real role must match the portal the user signed in through,
// except that an admin may enter any portal.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	role := models.Role(req.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("Unknown role")
	}

	email := models.SyntheticEmail(role, req.Identifier, s.domain)

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			// Admins signing in through another portal use their real address
			if account, err = s.accounts.GetByEmail(ctx, req.Identifier); err != nil {
				return nil, apperrors.ErrInvalidCredentials
			}
		} else {
			return nil, err
		}
	}

	if account.Role != role && account.Role != models.RoleAdmin {
		return nil, apperrors.ErrRoleMismatch
	}

	if !auth.CheckPassword(account.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	switch account.Status {
	case models.StatusPending:
		return nil, apperrors.ErrAccountPending
	case models.StatusRejected:
		return nil, apperrors.ErrAccountRejected
	}

	return s.issueTokens(ctx, account)
}

// RefreshToken rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	accountID, err := s.tokens.GetTokenAccount(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != models.StatusApproved {
		return nil, apperrors.ErrAccountPending
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, account)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.RevokeToken(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, account *models.Account) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(account)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, refreshToken, account.ID, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		Account:          dto.NewAccountResponse(account),
	}, nil
}
