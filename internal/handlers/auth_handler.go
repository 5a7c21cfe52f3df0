package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mentraiq/internal/security"
	"mentraiq/internal/service"
	"mentraiq/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	tokens       *security.TokenIssuer
	csrf         *security.CSRFGenerator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, tokens *security.TokenIssuer, csrf *security.CSRFGenerator) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		tokens:       tokens,
		csrf:         csrf,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Register handles account creation
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	account, err := h.authService.Register(req.Username, req.Password, req.Email)
	if err != nil {
		var valErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			respondWithError(w, http.StatusConflict, "Username already taken", "", nil)
		case errors.As(err, &valErr):
			respondWithError(w, http.StatusBadRequest, valErr.Message, "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Registration failed", "Error registering account", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"account": newAccountView(account),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a credential and issues a session cookie plus a
// bearer token. Unknown usernames and wrong passwords get the same answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	session, account, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnknownUser) || errors.Is(err, service.ErrWrongCredential) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password", "", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Login failed", "Error logging in", err)
		}
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.ID, session.ExpiresAt))

	bearerToken, err := h.tokens.Issue(account.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", "Error issuing token", err)
		return
	}

	csrfToken, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", "Error generating CSRF token", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":      bearerToken,
		"csrf_token": csrfToken,
		"account":    newAccountView(account),
	})
}

// Logout invalidates the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Error deleting session: %v", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type passwordResetRequest struct {
	Username string `json:"username"`
}

// RequestPasswordReset starts the password reset flow. Always answers 200
// so the endpoint does not reveal which accounts exist.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, req.Username); err != nil {
		log.Printf("Error requesting password reset: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "if the account has an email address, a reset link has been sent",
	})
}

type passwordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ConfirmPasswordReset sets a new password using a reset token
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		var valErr validation.ValidationError
		if errors.As(err, &valErr) {
			respondWithError(w, http.StatusBadRequest, valErr.Message, "", nil)
		} else {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
