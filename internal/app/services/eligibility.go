package services

import (
	"strconv"
	"strings"

	"github.com/devansh/fms/internal/app/models"
)

// keySeparator joins feedback key parts. A non-printable separator keeps
// subject names containing pipes or commas from colliding.
const keySeparator = "\x1f"

// SubjectEligible reports whether one subject is currently reviewable by the
// student. The semester must match exactly; degree and session windows are
// wildcards when blank.
func SubjectEligible(student *models.StudentProfile, subject models.Subject) bool {
	if !subject.IsOpen {
		return false
	}
	if subject.Semester != student.Semester {
		return false
	}
	if subject.Degree != "" && subject.Degree != student.Degree {
		return false
	}
	if subject.Session != "" && subject.Session != student.Session {
		return false
	}
	return true
}

// OpenSubjectsFor returns the subjects of one teacher the student may review
// right now. A teacher whose global review flag is closed, or who has no
// subjects at all, exposes nothing; there is no permissive fallback.
func OpenSubjectsFor(student *models.StudentProfile, teacher *models.TeacherProfile) []models.Subject {
	if student == nil || teacher == nil || !teacher.IsReviewOpen {
		return nil
	}

	var open []models.Subject
	for _, subject := range teacher.Subjects {
		if SubjectEligible(student, subject) {
			open = append(open, subject)
		}
	}
	return open
}

// HasOpenSubjects reports whether the teacher currently exposes any subject
// to the student
func HasOpenSubjects(student *models.StudentProfile, teacher *models.TeacherProfile) bool {
	return len(OpenSubjectsFor(student, teacher)) > 0
}

// FeedbackKey identifies one submission slot: a student may rate a given
// teacher/subject once per session, degree and semester.
func FeedbackKey(teacherID int64, subject, session string, degree models.Degree, semester int) string {
	return strings.Join([]string{
		strconv.FormatInt(teacherID, 10),
		subject,
		session,
		string(degree),
		strconv.Itoa(semester),
	}, keySeparator)
}

// SubmittedKeys collects the submission slots a student has already used.
// Rows written before degree and semester were recorded fall back to the
// student's current values, so old submissions still block resubmission.
func SubmittedKeys(student *models.StudentProfile, history []*models.Feedback) map[string]struct{} {
	keys := make(map[string]struct{}, len(history))
	for _, fb := range history {
		degree := fb.Degree
		semester := fb.Semester
		if degree == "" {
			degree = student.Degree
		}
		if semester == 0 {
			semester = student.Semester
		}
		keys[FeedbackKey(fb.TeacherID, fb.Subject, fb.Session, degree, semester)] = struct{}{}
	}
	return keys
}

// IsDuplicate reports whether the candidate submission slot was already used
func IsDuplicate(keys map[string]struct{}, teacherID int64, subject, session string, degree models.Degree, semester int) bool {
	_, ok := keys[FeedbackKey(teacherID, subject, session, degree, semester)]
	return ok
}
