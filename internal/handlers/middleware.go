package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"mentraiq/internal/models"
	"mentraiq/internal/security"
	"mentraiq/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const AccountContextKey ContextKey = "account"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	tokens      *security.TokenIssuer
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, tokens *security.TokenIssuer, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		tokens:      tokens,
		csrf:        csrf,
		limiter:     limiter,
	}
}

// RequireAuth requires a valid bearer token or session cookie. The
// authenticated account is placed in the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := m.authenticate(w, r)
		if account == nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), AccountContextKey, account)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin requires an authenticated admin account
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		account := GetAccountFromContext(r.Context())
		if account == nil || !account.IsAdmin {
			respondWithError(w, http.StatusForbidden, "Admin access required", "", nil)
			return
		}
		next(w, r)
	})
}

// authenticate resolves the request's account from a bearer token first,
// then from the session cookie. Returns nil when neither is valid.
func (m *Middleware) authenticate(w http.ResponseWriter, r *http.Request) *models.Account {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		accountID, err := m.tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return nil
		}
		account, err := m.authService.GetAccount(accountID)
		if err != nil {
			log.Printf("Error loading account %d: %v", accountID, err)
			return nil
		}
		return account
	}

	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil {
		return nil
	}

	account, err := m.authService.ValidateSession(cookie.Value)
	if err != nil {
		// Clear invalid cookie
		http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
		return nil
	}
	return account
}

// isBearerRequest reports whether the request authenticates with a bearer
// token. Such requests carry no ambient credential, so CSRF does not apply.
func isBearerRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// CSRFProtect validates the X-CSRF-Token header on state-changing requests
// that authenticate with a session cookie
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || isBearerRequest(r) {
			next(w, r)
			return
		}

		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusForbidden, "Invalid request token", "", nil)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if !m.csrf.ValidateToken(cookie.Value, token) {
			respondWithError(w, http.StatusForbidden, "Invalid request token", "", nil)
			return
		}

		next(w, r)
	}
}

// RateLimit limits requests per client IP. Used on authentication endpoints.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests, please try again later", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetAccountFromContext retrieves the account from the request context
func GetAccountFromContext(ctx context.Context) *models.Account {
	account, ok := ctx.Value(AccountContextKey).(*models.Account)
	if !ok {
		return nil
	}
	return account
}
