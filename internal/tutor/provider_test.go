package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProviderAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Subject != "Biology" {
			t.Errorf("Subject = %q, want Biology", req.Subject)
		}
		if req.Question != "What is a cell?" {
			t.Errorf("Question = %q, want 'What is a cell?'", req.Question)
		}

		json.NewEncoder(w).Encode(askResponse{Answer: "The basic unit of life."})
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second)
	answer, err := provider.Ask(context.Background(), "Biology", "What is a cell?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != "The basic unit of life." {
		t.Errorf("Ask() = %q, want the provider's answer", answer)
	}
}

func TestHTTPProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			name: "empty answer",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(askResponse{Answer: ""})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			provider := NewHTTPProvider(server.URL, 5*time.Second)
			_, err := provider.Ask(context.Background(), "", "question")
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("Ask() error = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestHTTPProviderUnreachableEndpoint(t *testing.T) {
	// Nothing listens here
	provider := NewHTTPProvider("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := provider.Ask(context.Background(), "", "question")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ask() error = %v, want ErrUnavailable", err)
	}
}
