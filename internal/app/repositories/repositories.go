package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	AccountRepository  *AccountRepository
	TokenRepository    *TokenRepository
	SubjectRepository  *SubjectRepository
	SessionRepository  *SessionRepository
	FeedbackRepository *FeedbackRepository
	RosterRepository   *RosterRepository
}

// NewRepositories creates a new Repositories instance wired to the pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AccountRepository:  NewAccountRepository(db),
		TokenRepository:    NewTokenRepository(db),
		SubjectRepository:  NewSubjectRepository(db),
		SessionRepository:  NewSessionRepository(db),
		FeedbackRepository: NewFeedbackRepository(db),
		RosterRepository:   NewRosterRepository(db),
	}
}
