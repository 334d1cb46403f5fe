package models

import "time"

// Feedback is one student→teacher→subject→session submission. Records are
// immutable once created. Degree and Semester may be empty on rows written
// before those fields existed; readers fall back to the student's current
// values when computing the feedback key.
type Feedback struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	TeacherID   int64     `json:"teacherId" db:"teacher_id"`
	Subject     string    `json:"subject" db:"subject"`
	Rating      int       `json:"rating" db:"rating"`
	Comments    string    `json:"comments" db:"comments"`
	Department  string    `json:"department" db:"department"`
	Session     string    `json:"session" db:"session"`
	Degree      Degree    `json:"degree,omitempty" db:"degree"`
	Semester    int       `json:"semester,omitempty" db:"semester"`
	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
}
