package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegreeIsValid(t *testing.T) {
	assert.True(t, DegreeBTech.IsValid())
	assert.True(t, DegreeMTech.IsValid())
	assert.False(t, Degree("PhD").IsValid())
	assert.False(t, Degree("").IsValid())
}

func TestMaxSemesters(t *testing.T) {
	assert.Equal(t, 8, MaxSemesters(DegreeBTech))
	assert.Equal(t, 4, MaxSemesters(DegreeMTech))
	assert.Equal(t, 0, MaxSemesters(Degree("PhD")))
}

func TestDeriveYear(t *testing.T) {
	tests := []struct {
		semester int
		year     int
	}{
		{0, 0},
		{-1, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{7, 4},
		{8, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.year, DeriveYear(tt.semester), "semester %d", tt.semester)
	}
}

func TestDeptName(t *testing.T) {
	assert.Equal(t, "CSE", DeptName("105"))
	assert.Equal(t, "Civil Engineering", DeptName("101"))
	// Unknown codes fall back to the code itself
	assert.Equal(t, "999", DeptName("999"))
}
