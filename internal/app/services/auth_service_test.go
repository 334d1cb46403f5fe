package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devansh/fms/internal/app/models"
	"github.com/devansh/fms/internal/app/models/dto"
	"github.com/devansh/fms/internal/pkg/apperrors"
	"github.com/devansh/fms/internal/pkg/auth"
)

// fakeAuthAccounts keys accounts by email and hands out sequential ids
type fakeAuthAccounts struct {
	byEmail map[string]*models.Account
	nextID  int64
}

func newFakeAuthAccounts(accounts ...*models.Account) *fakeAuthAccounts {
	s := &fakeAuthAccounts{byEmail: make(map[string]*models.Account), nextID: 100}
	for _, a := range accounts {
		s.byEmail[a.Email] = a
	}
	return s
}

func (s *fakeAuthAccounts) Create(_ context.Context, account *models.Account) error {
	if _, ok := s.byEmail[account.Email]; ok {
		return apperrors.ErrEmailAlreadyExists
	}
	s.nextID++
	account.ID = s.nextID
	s.byEmail[account.Email] = account
	return nil
}

func (s *fakeAuthAccounts) GetByID(_ context.Context, id int64) (*models.Account, error) {
	for _, a := range s.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (s *fakeAuthAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	if a, ok := s.byEmail[email]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAccountNotFound
}

func (s *fakeAuthAccounts) ExistsByRegNum(_ context.Context, regNum string) (bool, error) {
	for _, a := range s.byEmail {
		if a.Student != nil && a.Student.RegNum == regNum {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAuthAccounts) ExistsByDeptID(_ context.Context, deptID string) (bool, error) {
	for _, a := range s.byEmail {
		if a.Department != nil && a.Department.DeptID == deptID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeAuthAccounts) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := s.byEmail[email]
	return ok, nil
}

// fakeAuthTokens tracks issued and revoked refresh tokens
type fakeAuthTokens struct {
	tokens  map[string]int64
	revoked map[string]bool
}

func newFakeAuthTokens() *fakeAuthTokens {
	return &fakeAuthTokens{tokens: make(map[string]int64), revoked: make(map[string]bool)}
}

func (s *fakeAuthTokens) CreateToken(_ context.Context, token string, accountID int64, _ time.Time) error {
	s.tokens[token] = accountID
	return nil
}

func (s *fakeAuthTokens) GetTokenAccount(_ context.Context, token string) (int64, error) {
	if s.revoked[token] {
		return 0, apperrors.ErrTokenRevoked
	}
	accountID, ok := s.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	return accountID, nil
}

func (s *fakeAuthTokens) RevokeToken(_ context.Context, token string) error {
	s.revoked[token] = true
	return nil
}

func newTestAuthService(accounts authAccountStore, tokens authTokenStore) *AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "fms.test",
	})
	return NewAuthService(accounts, tokens, jwtService, "fms.local")
}

func studentRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Role:       "student",
		Name:       "Test Student",
		Password:   "Passw0rd!",
		RegNum:     "12345678901",
		Department: "105",
		Degree:     "B.Tech",
		Semester:   5,
		Session:    "2023-27",
	}
}

func TestRegisterStudent(t *testing.T) {
	accounts := newFakeAuthAccounts()
	svc := newTestAuthService(accounts, newFakeAuthTokens())

	account, err := svc.Register(context.Background(), studentRegistration())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, account.Status)
	assert.Equal(t, "12345678901@student.fms.local", account.Email)
	require.NotNil(t, account.Student)
	assert.Equal(t, models.DegreeBTech, account.Student.Degree)
	// The stored password is hashed, never the plaintext
	assert.NotEqual(t, "Passw0rd!", account.Password)
	assert.True(t, auth.CheckPassword(account.Password, "Passw0rd!"))
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newTestAuthService(newFakeAuthAccounts(), newFakeAuthTokens())

	req := studentRegistration()
	req.Role = "admin"
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newTestAuthService(newFakeAuthAccounts(), newFakeAuthTokens())

	req := studentRegistration()
	req.Password = "short"
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegisterRejectsDuplicateRegNum(t *testing.T) {
	accounts := newFakeAuthAccounts()
	svc := newTestAuthService(accounts, newFakeAuthTokens())

	_, err := svc.Register(context.Background(), studentRegistration())
	require.NoError(t, err)

	dup := studentRegistration()
	dup.Name = "Another Student"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, apperrors.ErrRegNumAlreadyExists)
}

func TestRegisterRejectsBadSemester(t *testing.T) {
	svc := newTestAuthService(newFakeAuthAccounts(), newFakeAuthTokens())

	req := studentRegistration()
	req.Degree = "M.Tech"
	req.Semester = 5
	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegisterDepartment(t *testing.T) {
	svc := newTestAuthService(newFakeAuthAccounts(), newFakeAuthTokens())

	account, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Role:     "department",
		Name:     "CSE Department",
		Password: "Passw0rd!",
		DeptID:   "105",
	})
	require.NoError(t, err)

	assert.Equal(t, "105@dept.fms.local", account.Email)
	require.NotNil(t, account.Department)
	assert.Equal(t, "105", account.Department.DeptID)
}

func approvedLoginAccount(t *testing.T, role models.Role, email, password string) *models.Account {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	account := &models.Account{
		ID:       7,
		Role:     role,
		Status:   models.StatusApproved,
		Name:     "Login Account",
		Email:    email,
		Password: hashed,
	}
	switch role {
	case models.RoleStudent:
		account.Student = &models.StudentProfile{RegNum: "12345678901", Semester: 1, Degree: models.DegreeBTech}
	case models.RoleTeacher:
		account.Teacher = &models.TeacherProfile{DepartmentCode: "105"}
	}
	return account
}

func TestLoginStudent(t *testing.T) {
	student := approvedLoginAccount(t, models.RoleStudent, "12345678901@student.fms.local", "Passw0rd!")
	tokens := newFakeAuthTokens()
	svc := newTestAuthService(newFakeAuthAccounts(student), tokens)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Role:       "student",
		Identifier: "12345678901",
		Password:   "Passw0rd!",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, student.ID, tokens.tokens[resp.RefreshToken])
}

func TestLoginWrongPassword(t *testing.T) {
	student := approvedLoginAccount(t, models.RoleStudent, "12345678901@student.fms.local", "Passw0rd!")
	svc := newTestAuthService(newFakeAuthAccounts(student), newFakeAuthTokens())

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Role:       "student",
		Identifier: "12345678901",
		Password:   "WrongPass1!",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginRoleMismatch(t *testing.T) {
	teacher := approvedLoginAccount(t, models.RoleTeacher, "jane@example.com", "Passw0rd!")
	svc := newTestAuthService(newFakeAuthAccounts(teacher), newFakeAuthTokens())

	// A teacher cannot enter the student portal
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Role:       "student",
		Identifier: "jane@example.com",
		Password:   "Passw0rd!",
	})
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)
}

func TestLoginAdminMayEnterAnyPortal(t *testing.T) {
	admin := approvedLoginAccount(t, models.RoleAdmin, "admin@fms.local", "Passw0rd!")
	svc := newTestAuthService(newFakeAuthAccounts(admin), newFakeAuthTokens())

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Role:       "teacher",
		Identifier: "admin@fms.local",
		Password:   "Passw0rd!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginPendingAccount(t *testing.T) {
	student := approvedLoginAccount(t, models.RoleStudent, "12345678901@student.fms.local", "Passw0rd!")
	student.Status = models.StatusPending
	svc := newTestAuthService(newFakeAuthAccounts(student), newFakeAuthTokens())

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Role:       "student",
		Identifier: "12345678901",
		Password:   "Passw0rd!",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountPending)
}

func TestRefreshTokenRotates(t *testing.T) {
	student := approvedLoginAccount(t, models.RoleStudent, "12345678901@student.fms.local", "Passw0rd!")
	tokens := newFakeAuthTokens()
	svc := newTestAuthService(newFakeAuthAccounts(student), tokens)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Role:       "student",
		Identifier: "12345678901",
		Password:   "Passw0rd!",
	})
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The old token is dead after rotation
	_, err = svc.RefreshToken(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestLogoutRevokesToken(t *testing.T) {
	tokens := newFakeAuthTokens()
	tokens.tokens["some-token"] = 7
	svc := newTestAuthService(newFakeAuthAccounts(), tokens)

	require.NoError(t, svc.Logout(context.Background(), "some-token"))
	assert.True(t, tokens.revoked["some-token"])
}
