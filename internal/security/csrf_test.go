package security

import "testing"

func TestCSRFGenerateAndValidate(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")
	sessionID := GenerateSessionID()

	token, err := gen.GenerateToken(sessionID)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	if !gen.ValidateToken(sessionID, token) {
		t.Error("ValidateToken() rejected a freshly generated token")
	}
}

func TestCSRFValidationFailures(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")
	sessionID := GenerateSessionID()
	token, err := gen.GenerateToken(sessionID)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		token     string
	}{
		{
			name:      "wrong session",
			sessionID: GenerateSessionID(),
			token:     token,
		},
		{
			name:      "tampered token",
			sessionID: sessionID,
			token:     token + "x",
		},
		{
			name:      "empty token",
			sessionID: sessionID,
			token:     "",
		},
		{
			name:      "empty session",
			sessionID: "",
			token:     token,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if gen.ValidateToken(tt.sessionID, tt.token) {
				t.Error("ValidateToken() accepted an invalid token")
			}
		})
	}
}

func TestCSRFDifferentSecretsProduceDifferentTokens(t *testing.T) {
	sessionID := GenerateSessionID()

	t1, err := NewCSRFGenerator("secret-one").GenerateToken(sessionID)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	t2, err := NewCSRFGenerator("secret-two").GenerateToken(sessionID)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if t1 == t2 {
		t.Error("tokens from different secrets should differ")
	}
}

func TestGenerateTokenRequiresSession(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")
	if _, err := gen.GenerateToken(""); err == nil {
		t.Error("GenerateToken() should fail without a session ID")
	}
}
