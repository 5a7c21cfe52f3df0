package handlers

import (
	"errors"
	"net/http"
	"time"

	"mentraiq/internal/repository"
	"mentraiq/internal/service"
)

// StudyHandler handles study session HTTP requests
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// RecordStudy registers a study action for today and returns the resulting
// streak. Concurrent updates to the same account surface as a conflict the
// client can retry.
func (h *StudyHandler) RecordStudy(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	updated, err := h.studyService.RecordStudy(account.ID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrConcurrentModification) {
			respondWithError(w, http.StatusConflict, "Progress was updated concurrently, please retry", "", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to record study", "Error recording study", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"account": newAccountView(updated),
	})
}
