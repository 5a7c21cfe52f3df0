package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"mentraiq/internal/models"
	"mentraiq/internal/repository"
	"mentraiq/internal/security"
	"mentraiq/internal/validation"
)

var (
	ErrUsernameTaken   = errors.New("username already taken")
	ErrUnknownUser     = errors.New("unknown user")
	ErrWrongCredential = errors.New("wrong credential")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// AuthService handles account registration, authentication and sessions
type AuthService struct {
	accountRepo     *repository.AccountRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(accountRepo *repository.AccountRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		accountRepo:     accountRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a new account with an empty flashcard collection and no
// study history. Fails with ErrUsernameTaken if the username exists.
func (s *AuthService) Register(username, password, email string) (*models.Account, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.GetAccountByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accountRepo.CreateAccount(username, passwordHash, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Authenticate verifies a credential. Returns ErrUnknownUser when the
// username does not exist and ErrWrongCredential on a mismatch; callers
// facing untrusted clients should collapse the two.
func (s *AuthService) Authenticate(username, password string) (*models.Account, error) {
	account, err := s.accountRepo.GetAccountByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrUnknownUser
	}

	if !security.CheckPassword(password, account.PasswordHash) {
		return nil, ErrWrongCredential
	}

	return account, nil
}

// Login authenticates an account and creates a session
func (s *AuthService) Login(username, password string) (*models.Session, *models.Account, error) {
	account, err := s.Authenticate(username, password)
	if err != nil {
		return nil, nil, err
	}

	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.accountRepo.CreateSession(sessionID, account.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, account, nil
}

// ValidateSession checks if a session is valid and returns the associated account
func (s *AuthService) ValidateSession(sessionID string) (*models.Account, error) {
	session, err := s.accountRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		// Clean up expired session
		_ = s.accountRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	account, err := s.accountRepo.GetAccountByID(session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrSessionNotFound
	}

	return account, nil
}

// GetAccount retrieves an account by id. Used by bearer-token authentication.
func (s *AuthService) GetAccount(id int64) (*models.Account, error) {
	account, err := s.accountRepo.GetAccountByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.accountRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions and reset tokens
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.accountRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	if err := s.accountRepo.DeleteExpiredPasswordResetTokens(); err != nil {
		return fmt.Errorf("failed to cleanup reset tokens: %w", err)
	}
	return nil
}

// RequestPasswordReset creates a reset token and mails it to the account's
// email address. Accounts without an email address are silently skipped, as
// are unknown usernames, so the endpoint does not reveal which accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailService *EmailService, username string) error {
	account, err := s.accountRepo.GetAccountByUsername(username)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil || account.Email == "" {
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	// Invalidate any outstanding tokens first
	_ = s.accountRepo.DeleteAccountPasswordResetTokens(account.ID)

	expiresAt := time.Now().Add(1 * time.Hour)
	if err := s.accountRepo.CreatePasswordResetToken(token, account.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if emailService != nil && emailService.IsEnabled() {
		if err := emailService.SendPasswordResetEmail(ctx, account.Email, account.Username, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}

	return nil
}

// ResetPassword resets an account's password using a valid token
func (s *AuthService) ResetPassword(token, newPassword string) error {
	resetToken, err := s.accountRepo.GetPasswordResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	if resetToken == nil {
		return errors.New("invalid or expired reset token")
	}
	if resetToken.Used {
		return errors.New("this reset link has already been used")
	}
	if resetToken.IsExpired() {
		return errors.New("this reset link has expired")
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accountRepo.UpdatePassword(resetToken.AccountID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.accountRepo.MarkPasswordResetTokenAsUsed(token); err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}

	return nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
