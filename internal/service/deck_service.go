package service

import (
	"errors"
	"fmt"
	"strings"

	"mentraiq/internal/models"
	"mentraiq/internal/repository"
	"mentraiq/internal/validation"
)

var (
	ErrIndexOutOfRange = errors.New("card index out of range")
	ErrInvalidOrigin   = errors.New("card origin must be tutor or custom")
)

// DeckService handles flashcard collection business logic
type DeckService struct {
	cardRepo    *repository.CardRepository
	accountRepo *repository.AccountRepository
}

// NewDeckService creates a new deck service
func NewDeckService(cardRepo *repository.CardRepository, accountRepo *repository.AccountRepository) *DeckService {
	return &DeckService{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
	}
}

// AddCard appends a card to the account's collection. Blank or
// whitespace-only faces are rejected; an empty category defaults to
// "General"; an empty origin defaults to custom.
func (s *DeckService) AddCard(accountID int64, front, back, category, origin string) (*models.Flashcard, error) {
	if err := validation.ValidateCardText("front", front); err != nil {
		return nil, err
	}
	if err := validation.ValidateCardText("back", back); err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = models.DefaultCategory
	}

	if origin == "" {
		origin = models.OriginCustom
	}
	if origin != models.OriginTutor && origin != models.OriginCustom {
		return nil, ErrInvalidOrigin
	}

	card, err := s.cardRepo.InsertCard(accountID, front, back, category, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to add card: %w", err)
	}
	return card, nil
}

// ListCards returns the account's cards in insertion order, optionally
// restricted to one category. "All" (or empty) returns the full collection.
func (s *DeckService) ListCards(accountID int64, category string) ([]models.Flashcard, error) {
	cards, err := s.cardRepo.ListCards(accountID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// ToggleFavorite flips the favorite flag of the card at the given position.
// The index addresses the full, unfiltered collection; clients filtering by
// category use the absolute position carried on each listed card.
func (s *DeckService) ToggleFavorite(accountID int64, index int) (*models.Flashcard, error) {
	if index < 0 {
		return nil, ErrIndexOutOfRange
	}

	card, err := s.cardRepo.GetCardByPosition(accountID, index)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card == nil {
		return nil, ErrIndexOutOfRange
	}

	card.Favorite = !card.Favorite
	if err := s.cardRepo.SetFavorite(card.ID, card.Favorite); err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return card, nil
}

// Progress returns collection totals plus streak state for the dashboard
func (s *DeckService) Progress(account *models.Account) (*models.Progress, error) {
	stats, err := s.cardRepo.GetCardStats(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card stats: %w", err)
	}

	return &models.Progress{
		Cards:         *stats,
		Streak:        account.Streak,
		LastStudyDate: account.LastStudyDate,
	}, nil
}
