package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mentraiq/internal/service"
	"mentraiq/internal/validation"
)

// DeckHandler handles flashcard collection HTTP requests
type DeckHandler struct {
	deckService *service.DeckService
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(deckService *service.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

// ListCards returns the account's cards, optionally filtered by the
// category query parameter
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	category := r.URL.Query().Get("category")
	cards, err := h.deckService.ListCards(account.ID, category)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load cards", "Error listing cards", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cards": newCardViews(cards),
	})
}

type addCardRequest struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	Category string `json:"category"`
	Origin   string `json:"origin"`
}

// AddCard appends a card to the account's collection
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	var req addCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return
	}

	card, err := h.deckService.AddCard(account.ID, req.Front, req.Back, req.Category, req.Origin)
	if err != nil {
		var valErr validation.ValidationError
		switch {
		case errors.As(err, &valErr):
			respondWithError(w, http.StatusBadRequest, valErr.Message, "", nil)
		case errors.Is(err, service.ErrInvalidOrigin):
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to add card", "Error adding card", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"card": newCardView(card),
	})
}

// ToggleFavorite flips the favorite flag of the card at the position in the
// URL. The position addresses the full collection, not a filtered view.
func (h *DeckHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid card index", "", nil)
		return
	}

	card, err := h.deckService.ToggleFavorite(account.ID, index)
	if err != nil {
		if errors.Is(err, service.ErrIndexOutOfRange) {
			respondWithError(w, http.StatusNotFound, "No card at that index", "", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update card", "Error toggling favorite", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"card": newCardView(card),
	})
}

// Progress returns collection totals and streak state
func (h *DeckHandler) Progress(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	progress, err := h.deckService.Progress(account)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load progress", "Error loading progress", err)
		return
	}

	respondJSON(w, http.StatusOK, newProgressView(progress))
}
