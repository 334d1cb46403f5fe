package dto

// RegisterRequest is the self-registration payload. The identifier carries
// the role-specific id: registration number for students, department id for
// departments, a real email for teachers and admins.
type RegisterRequest struct {
	Role     string `json:"role" validate:"required,oneof=student teacher department admin"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required"`

	// Student fields
	RegNum     string `json:"regNum,omitempty"`
	Department string `json:"department,omitempty"`
	Degree     string `json:"degree,omitempty"`
	Semester   int    `json:"semester,omitempty"`
	Session    string `json:"session,omitempty"`

	// Department fields
	DeptID string `json:"deptId,omitempty"`

	// Teacher/admin fields
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// LoginRequest is the sign-in payload. Identifier is the regNum, deptId or
// email depending on the role.
type LoginRequest struct {
	Role       string `json:"role" validate:"required,oneof=student teacher department admin"`
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken      string          `json:"accessToken"`
	RefreshToken     string          `json:"refreshToken"`
	ExpiresIn        int             `json:"expiresIn"`
	RefreshExpiresIn int             `json:"refreshExpiresIn"`
	Account          AccountResponse `json:"account"`
}
