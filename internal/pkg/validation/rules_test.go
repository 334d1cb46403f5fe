package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegNum(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid 11 digits", "12345678901", false},
		{"too short", "1234567890", true},
		{"too long", "123456789012", true},
		{"letters", "1234567890a", true},
		{"empty", "", true},
		{"spaces", "12345 78901", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegNum(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDeptCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "105", false},
		{"leading zero", "001", false},
		{"two digits", "10", true},
		{"four digits", "1050", true},
		{"letters", "1a5", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeptCode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSession(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid span", "2023-27", false},
		{"valid other year", "2020-24", false},
		{"century rollover", "2097-01", false},
		{"wrong suffix", "2023-26", true},
		{"wrong suffix high", "2023-28", true},
		{"missing dash", "202327", true},
		{"one digit suffix", "2023-7", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSession(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Passw0rd!", false},
		{"valid other symbol", "aB3#defg", false},
		{"too short", "aB3#def", true},
		{"no lowercase", "PASSW0RD!", true},
		{"no uppercase", "passw0rd!", true},
		{"no digit", "Password!", true},
		{"no symbol", "Passw0rdX", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
