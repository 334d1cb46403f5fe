package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/devansh/fms/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Student registration number - exactly 11 digits
	RegNumPattern = `^\d{11}$`

	// Department code - exactly 3 digits
	DeptCodePattern = `^\d{3}$`

	// Academic session - "YYYY-YY" (suffix checked separately)
	SessionPattern = `^\d{4}-\d{2}$`

	// Password policy
	PasswordMinLength = 8
	PasswordSymbols   = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	RegNum   *regexp.Regexp
	DeptCode *regexp.Regexp
	Session  *regexp.Regexp
}{
	RegNum:   regexp.MustCompile(RegNumPattern),
	DeptCode: regexp.MustCompile(DeptCodePattern),
	Session:  regexp.MustCompile(SessionPattern),
}

// sessionSpanYears is the fixed span of an academic session: "2023-27" covers
// four years, so the two-digit suffix must equal (2023 mod 100) + 4.
const sessionSpanYears = 4

// ValidateRegNum checks a student registration number.
func ValidateRegNum(s string) error {
	if !CompiledPatterns.RegNum.MatchString(s) {
		return apperrors.NewValidationError("Registration Number must be 11 digits")
	}
	return nil
}

// ValidateDeptCode checks a department code.
func ValidateDeptCode(s string) error {
	if !CompiledPatterns.DeptCode.MatchString(s) {
		return apperrors.NewValidationError("Department Code must be 3 digits")
	}
	return nil
}

// ValidateSession checks an academic session string. The suffix must be the
// start year plus the fixed session span, modulo 100.
func ValidateSession(s string) error {
	if !CompiledPatterns.Session.MatchString(s) {
		return apperrors.NewValidationError("Session must be in YYYY-YY format, e.g. 2023-27")
	}

	startYear, err := strconv.Atoi(s[:4])
	if err != nil {
		return apperrors.NewValidationError("Session must start with a valid year")
	}
	suffix, err := strconv.Atoi(s[5:])
	if err != nil {
		return apperrors.NewValidationError("Session must end with a valid two-digit year")
	}

	if suffix != (startYear%100+sessionSpanYears)%100 {
		return apperrors.NewValidationError(
			fmt.Sprintf("Session %q must span %d years, e.g. %d-%02d",
				s, sessionSpanYears, startYear, (startYear%100+sessionSpanYears)%100))
	}
	return nil
}

// ValidatePassword enforces the portal password policy: minimum length plus at
// least one lowercase letter, one uppercase letter, one digit and one symbol.
func ValidatePassword(s string) error {
	if len(s) < PasswordMinLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters", PasswordMinLength))
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasLower:
		return apperrors.NewValidationError("Password must contain a lowercase letter")
	case !hasUpper:
		return apperrors.NewValidationError("Password must contain an uppercase letter")
	case !hasDigit:
		return apperrors.NewValidationError("Password must contain a digit")
	case !hasSymbol:
		return apperrors.NewValidationError("Password must contain a symbol")
	}
	return nil
}
