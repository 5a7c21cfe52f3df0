package security

import (
	"testing"
	"time"
)

func TestTokenIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	accountID, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if accountID != 42 {
		t.Errorf("Parse() = %d, want 42", accountID)
	}
}

func TestTokenParseFailures(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name   string
		issuer *TokenIssuer
		token  string
	}{
		{
			name:   "garbage token",
			issuer: issuer,
			token:  "not.a.token",
		},
		{
			name:   "empty token",
			issuer: issuer,
			token:  "",
		},
		{
			name:   "wrong secret",
			issuer: NewTokenIssuer("other-secret", time.Hour),
			token:  token,
		},
		{
			name:   "tampered token",
			issuer: issuer,
			token:  token + "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.issuer.Parse(tt.token); err != ErrInvalidToken {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := issuer.Parse(token); err != ErrInvalidToken {
		t.Errorf("Parse() of expired token error = %v, want ErrInvalidToken", err)
	}
}
