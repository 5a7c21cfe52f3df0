// Package tutor defines the boundary to the external answer provider.
//
// The provider itself (which model answers the question, with what prompt)
// lives outside this service; this package only forwards a question to a
// configured endpoint and reports failures as a single opaque condition, so
// callers surface one generic "unavailable" message regardless of cause.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable is returned for every provider failure: transport errors,
// non-200 responses and malformed replies alike.
var ErrUnavailable = errors.New("answer provider unavailable")

// Provider answers a study question, optionally scoped to a subject
type Provider interface {
	Ask(ctx context.Context, subject, question string) (string, error)
}

// HTTPProvider forwards questions to a configured HTTP endpoint
type HTTPProvider struct {
	endpoint string
	client   *http.Client
}

// NewHTTPProvider creates a provider that POSTs to the given endpoint
func NewHTTPProvider(endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type askRequest struct {
	Subject  string `json:"subject,omitempty"`
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// Ask forwards the question and returns the provider's answer
func (p *HTTPProvider) Ask(ctx context.Context, subject, question string) (string, error) {
	body, err := json.Marshal(askRequest{Subject: subject, Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var answer askResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if answer.Answer == "" {
		return "", fmt.Errorf("%w: empty answer", ErrUnavailable)
	}

	return answer.Answer, nil
}
