package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devansh/fms/internal/app/models"
)

func testStudent() *models.StudentProfile {
	return &models.StudentProfile{
		RegNum:         "12345678901",
		DepartmentCode: "105",
		Degree:         models.DegreeBTech,
		Semester:       5,
		Session:        "2023-27",
	}
}

func TestSubjectEligible(t *testing.T) {
	student := testStudent()

	tests := []struct {
		name    string
		subject models.Subject
		want    bool
	}{
		{
			"open exact match",
			models.Subject{Name: "Networks", Degree: models.DegreeBTech, Semester: 5, Session: "2023-27", IsOpen: true},
			true,
		},
		{
			"blank degree is a wildcard",
			models.Subject{Name: "Networks", Degree: "", Semester: 5, Session: "2023-27", IsOpen: true},
			true,
		},
		{
			"blank session is a wildcard",
			models.Subject{Name: "Networks", Degree: models.DegreeBTech, Semester: 5, Session: "", IsOpen: true},
			true,
		},
		{
			"closed subject",
			models.Subject{Name: "Networks", Degree: models.DegreeBTech, Semester: 5, Session: "2023-27", IsOpen: false},
			false,
		},
		{
			"wrong semester",
			models.Subject{Name: "Networks", Degree: models.DegreeBTech, Semester: 6, Session: "2023-27", IsOpen: true},
			false,
		},
		{
			"wrong degree",
			models.Subject{Name: "Networks", Degree: models.DegreeMTech, Semester: 5, Session: "2023-27", IsOpen: true},
			false,
		},
		{
			"wrong session",
			models.Subject{Name: "Networks", Degree: models.DegreeBTech, Semester: 5, Session: "2022-26", IsOpen: true},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubjectEligible(student, tt.subject))
		})
	}
}

func TestOpenSubjectsFor(t *testing.T) {
	student := testStudent()

	open := models.Subject{Name: "Networks", Semester: 5, IsOpen: true}
	closed := models.Subject{Name: "Compilers", Semester: 5, IsOpen: false}
	wrongSem := models.Subject{Name: "Algorithms", Semester: 3, IsOpen: true}

	teacher := &models.TeacherProfile{
		DepartmentCode: "105",
		IsReviewOpen:   true,
		Subjects:       []models.Subject{open, closed, wrongSem},
	}

	got := OpenSubjectsFor(student, teacher)
	assert.Len(t, got, 1)
	assert.Equal(t, "Networks", got[0].Name)
	assert.True(t, HasOpenSubjects(student, teacher))
}

func TestOpenSubjectsForClosedTeacher(t *testing.T) {
	student := testStudent()
	teacher := &models.TeacherProfile{
		DepartmentCode: "105",
		IsReviewOpen:   false,
		Subjects:       []models.Subject{{Name: "Networks", Semester: 5, IsOpen: true}},
	}

	// The global review flag closes everything regardless of subject state
	assert.Nil(t, OpenSubjectsFor(student, teacher))
	assert.False(t, HasOpenSubjects(student, teacher))
}

func TestOpenSubjectsForNilProfiles(t *testing.T) {
	assert.Nil(t, OpenSubjectsFor(nil, &models.TeacherProfile{IsReviewOpen: true}))
	assert.Nil(t, OpenSubjectsFor(testStudent(), nil))
}

func TestFeedbackKeyDistinguishesSlots(t *testing.T) {
	base := FeedbackKey(7, "Networks", "2023-27", models.DegreeBTech, 5)

	assert.Equal(t, base, FeedbackKey(7, "Networks", "2023-27", models.DegreeBTech, 5))
	assert.NotEqual(t, base, FeedbackKey(8, "Networks", "2023-27", models.DegreeBTech, 5))
	assert.NotEqual(t, base, FeedbackKey(7, "Compilers", "2023-27", models.DegreeBTech, 5))
	assert.NotEqual(t, base, FeedbackKey(7, "Networks", "2022-26", models.DegreeBTech, 5))
	assert.NotEqual(t, base, FeedbackKey(7, "Networks", "2023-27", models.DegreeMTech, 5))
	assert.NotEqual(t, base, FeedbackKey(7, "Networks", "2023-27", models.DegreeBTech, 6))
}

func TestFeedbackKeySeparatorSafety(t *testing.T) {
	// Subject names containing delimiters common in CSV exports must not
	// collide with adjacent fields
	a := FeedbackKey(7, "Nets|2023-27", "", models.DegreeBTech, 5)
	b := FeedbackKey(7, "Nets", "2023-27", models.DegreeBTech, 5)
	assert.NotEqual(t, a, b)
}

func TestSubmittedKeysLegacyFallback(t *testing.T) {
	student := testStudent()

	history := []*models.Feedback{
		// Full submission key recorded
		{TeacherID: 7, Subject: "Networks", Session: "2023-27", Degree: models.DegreeBTech, Semester: 5},
		// Legacy row without degree and semester
		{TeacherID: 9, Subject: "Compilers", Session: "2023-27"},
	}

	keys := SubmittedKeys(student, history)
	assert.Len(t, keys, 2)

	assert.True(t, IsDuplicate(keys, 7, "Networks", "2023-27", models.DegreeBTech, 5))

	// The legacy row blocks resubmission at the student's current level
	assert.True(t, IsDuplicate(keys, 9, "Compilers", "2023-27", student.Degree, student.Semester))

	// A different slot on the same teacher stays open
	assert.False(t, IsDuplicate(keys, 7, "Networks", "2023-27", models.DegreeBTech, 6))
	assert.False(t, IsDuplicate(keys, 7, "Compilers", "2023-27", models.DegreeBTech, 5))
}
