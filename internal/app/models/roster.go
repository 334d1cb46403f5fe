package models

// RosterEntry is a denormalized student roster record keyed by registration
// number, kept independent of accounts. It backs the legacy bulk-import path:
// admins preload the roster and students later claim an account against it.
type RosterEntry struct {
	RegNum     string `json:"regNum" db:"reg_num"`
	Name       string `json:"name" db:"name"`
	Department string `json:"department" db:"department"`
	Semester   int    `json:"semester" db:"semester"`
	Email      string `json:"email" db:"email"`
}
