package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mentraiq/internal/tutor"
)

// TutorHandler forwards questions to the configured tutor provider
type TutorHandler struct {
	provider tutor.Provider
}

// NewTutorHandler creates a new tutor handler. The provider may be nil when
// no tutor backend is configured.
func NewTutorHandler(provider tutor.Provider) *TutorHandler {
	return &TutorHandler{provider: provider}
}

type tutorAskRequest struct {
	Subject  string `json:"subject"`
	Question string `json:"question"`
}

// Ask forwards a question to the tutor provider. Provider failures are not
// distinguished to the client; the tutor is simply unavailable.
func (h *TutorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req tutorAskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		respondWithError(w, http.StatusBadRequest, "A question is required", "", nil)
		return
	}

	if h.provider == nil {
		respondWithError(w, http.StatusServiceUnavailable, "The tutor is not available right now", "", nil)
		return
	}

	answer, err := h.provider.Ask(r.Context(), req.Subject, req.Question)
	if err != nil {
		if errors.Is(err, tutor.ErrUnavailable) {
			respondWithError(w, http.StatusServiceUnavailable, "The tutor is not available right now", "Tutor provider error", err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to ask the tutor", "Error asking tutor", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
