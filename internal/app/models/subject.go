package models

// Subject is a reviewable unit owned by a teacher, scoped to a degree and
// semester window with an independent open/closed flag. Subjects are
// id-addressable rows rather than an embedded list so concurrent edits by a
// department cannot clobber each other.
type Subject struct {
	ID        int64  `json:"id" db:"id"`
	TeacherID int64  `json:"teacherId" db:"teacher_id"`
	Name      string `json:"name" db:"name"`
	Degree    Degree `json:"degree,omitempty" db:"degree"`    // empty = all degrees
	Semester  int    `json:"semester" db:"semester"`
	Session   string `json:"session,omitempty" db:"session"`  // empty = all sessions
	IsOpen    bool   `json:"isOpen" db:"is_open"`
}
