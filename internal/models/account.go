package models

import "time"

// Account represents a registered user: credential plus study progress.
// Usernames are unique and case-sensitive.
type Account struct {
	ID            int64
	Username      string
	PasswordHash  string
	Email         string
	IsAdmin       bool
	Streak        int
	LastStudyDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasStudyHistory reports whether the account has recorded a study action.
// Invariant: Streak == 0 exactly when this is false.
func (a *Account) HasStudyHistory() bool {
	return a.LastStudyDate != nil
}

// Session represents an authenticated session
type Session struct {
	ID        string
	AccountID int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// PasswordResetToken represents a token for password reset
type PasswordResetToken struct {
	Token     string
	AccountID int64
	ExpiresAt time.Time
	CreatedAt time.Time
	Used      bool
}

// IsExpired checks if the reset token has expired
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
