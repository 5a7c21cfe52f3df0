package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mentraiq/internal/database"
	"mentraiq/internal/models"
)

// ErrConcurrentModification is returned when an optimistic update finds that
// another writer changed the row first.
var ErrConcurrentModification = errors.New("account was modified concurrently")

// dateLayout is how calendar dates are stored; streak arithmetic works on
// whole days, never clock times.
const dateLayout = "2006-01-02"

// AccountRepository handles database operations for accounts, sessions and
// password reset tokens
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, username, password_hash, COALESCE(email, ''), is_admin, streak, COALESCE(last_study_date, ''), created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var lastStudy string
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Email,
		&account.IsAdmin,
		&account.Streak,
		&lastStudy,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if lastStudy != "" {
		d, err := time.Parse(dateLayout, lastStudy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last study date %q: %w", lastStudy, err)
		}
		account.LastStudyDate = &d
	}
	return account, nil
}

// CreateAccount inserts a new account. The first account ever created
// becomes the admin.
func (r *AccountRepository) CreateAccount(username, passwordHash, email string) (*models.Account, error) {
	// The count and the insert share one transaction so concurrent first
	// registrations cannot both claim admin.
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var accountCount int
	if err := tx.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&accountCount); err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	isAdmin := accountCount == 0

	query := `
		INSERT INTO accounts (username, password_hash, email, is_admin)
		VALUES (?, ?, ?, ?)
	`
	id, err := tx.ExecReturningID(query, username, passwordHash, email, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit account: %w", err)
	}

	return &models.Account{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		IsAdmin:      isAdmin,
		Streak:       0,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetAccountByUsername retrieves an account by username (case-sensitive)
func (r *AccountRepository) GetAccountByUsername(username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`
	return scanAccount(r.db.QueryRow(query, username))
}

// GetAccountByID retrieves an account by ID
func (r *AccountRepository) GetAccountByID(id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	return scanAccount(r.db.QueryRow(query, id))
}

// GetAllAccounts retrieves all accounts ordered by creation time
func (r *AccountRepository) GetAllAccounts() ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		var lastStudy string
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.PasswordHash,
			&account.Email,
			&account.IsAdmin,
			&account.Streak,
			&lastStudy,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if lastStudy != "" {
			d, err := time.Parse(dateLayout, lastStudy)
			if err != nil {
				return nil, fmt.Errorf("failed to parse last study date %q: %w", lastStudy, err)
			}
			account.LastStudyDate = &d
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateStreak sets the streak counter and last study date with an optimistic
// guard on the previous values. Returns ErrConcurrentModification when another
// writer advanced the streak between read and write.
func (r *AccountRepository) UpdateStreak(id int64, prevStreak int, prevDate *time.Time, newStreak int, newDate time.Time) error {
	query := `
		UPDATE accounts
		SET streak = ?, last_study_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND streak = ? AND COALESCE(last_study_date, '') = ?
	`
	prev := ""
	if prevDate != nil {
		prev = prevDate.Format(dateLayout)
	}
	result, err := r.db.Exec(query, newStreak, newDate.Format(dateLayout), id, prevStreak, prev)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read streak update result: %w", err)
	}
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// SetProgress overwrites streak state without a guard. Used by the snapshot
// importer, never by request handling.
func (r *AccountRepository) SetProgress(id int64, streak int, lastStudyDate *time.Time) error {
	var date interface{}
	if lastStudyDate != nil {
		date = lastStudyDate.Format(dateLayout)
	}
	query := `
		UPDATE accounts
		SET streak = ?, last_study_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, streak, date, id); err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}
	return nil
}

// UpdatePassword updates an account's password hash
func (r *AccountRepository) UpdatePassword(id int64, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := r.db.Exec(query, passwordHash, id); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// DeleteAccount deletes an account and all associated data
func (r *AccountRepository) DeleteAccount(id int64) error {
	if _, err := r.db.Exec("DELETE FROM accounts WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// CreateSession creates a new session for an account
func (r *AccountRepository) CreateSession(sessionID string, accountID int64, expiresAt time.Time) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, account_id, expires_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.Exec(query, sessionID, accountID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.Session{
		ID:        sessionID,
		AccountID: accountID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID
func (r *AccountRepository) GetSession(sessionID string) (*models.Session, error) {
	query := `
		SELECT id, account_id, expires_at, created_at
		FROM sessions
		WHERE id = ?
	`
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session from the database
func (r *AccountRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *AccountRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

// CreatePasswordResetToken creates a password reset token
func (r *AccountRepository) CreatePasswordResetToken(token string, accountID int64, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (token, account_id, expires_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.Exec(query, token, accountID, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetPasswordResetToken retrieves a password reset token
func (r *AccountRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	query := `
		SELECT token, account_id, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = ?
	`
	t := &models.PasswordResetToken{}
	err := r.db.QueryRow(query, token).Scan(
		&t.Token,
		&t.AccountID,
		&t.ExpiresAt,
		&t.Used,
		&t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return t, nil
}

// MarkPasswordResetTokenAsUsed marks a reset token as consumed
func (r *AccountRepository) MarkPasswordResetTokenAsUsed(token string) error {
	query := "UPDATE password_reset_tokens SET used = ? WHERE token = ?"
	if _, err := r.db.Exec(query, true, token); err != nil {
		return fmt.Errorf("failed to mark reset token as used: %w", err)
	}
	return nil
}

// DeleteAccountPasswordResetTokens removes all reset tokens for an account
func (r *AccountRepository) DeleteAccountPasswordResetTokens(accountID int64) error {
	if _, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE account_id = ?", accountID); err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	return nil
}

// DeleteExpiredPasswordResetTokens removes all expired reset tokens
func (r *AccountRepository) DeleteExpiredPasswordResetTokens() error {
	if _, err := r.db.Exec("DELETE FROM password_reset_tokens WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return nil
}
