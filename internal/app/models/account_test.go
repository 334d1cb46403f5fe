package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devansh/fms/internal/pkg/apperrors"
)

func TestStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		event   StatusEvent
		want    Status
		wantErr bool
	}{
		{"pending approve", StatusPending, EventApprove, StatusApproved, false},
		{"pending reject", StatusPending, EventReject, StatusRejected, false},
		{"approved is terminal", StatusApproved, EventApprove, StatusApproved, true},
		{"approved cannot be rejected", StatusApproved, EventReject, StatusApproved, true},
		{"rejected is terminal", StatusRejected, EventApprove, StatusRejected, true},
		{"unknown event", StatusPending, StatusEvent("revive"), StatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.event)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSyntheticEmail(t *testing.T) {
	assert.Equal(t, "12345678901@student.fms.local", SyntheticEmail(RoleStudent, "12345678901", "fms.local"))
	assert.Equal(t, "105@dept.fms.local", SyntheticEmail(RoleDepartment, "105", "fms.local"))
	// Teachers and admins log in with their real address
	assert.Equal(t, "jane@example.com", SyntheticEmail(RoleTeacher, "jane@example.com", "fms.local"))
}

func TestStudentProfileYear(t *testing.T) {
	p := StudentProfile{Semester: 5}
	assert.Equal(t, 3, p.Year())
}
