package handlers

import (
	"time"

	"mentraiq/internal/models"
)

// accountView is the API representation of an account. The credential hash
// never leaves the server.
type accountView struct {
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	IsAdmin       bool   `json:"is_admin,omitempty"`
	Streak        int    `json:"streak"`
	LastStudyDate string `json:"last_study_date,omitempty"`
}

func newAccountView(account *models.Account) accountView {
	view := accountView{
		Username: account.Username,
		Email:    account.Email,
		IsAdmin:  account.IsAdmin,
		Streak:   account.Streak,
	}
	if account.LastStudyDate != nil {
		view.LastStudyDate = account.LastStudyDate.Format("2006-01-02")
	}
	return view
}

// cardView carries the card's absolute position so clients can toggle
// favorites even when listing a filtered category.
type cardView struct {
	Position  int       `json:"position"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Category  string    `json:"category"`
	Origin    string    `json:"origin"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
}

func newCardView(card *models.Flashcard) cardView {
	return cardView{
		Position:  card.Position,
		Front:     card.Front,
		Back:      card.Back,
		Category:  card.Category,
		Origin:    card.Origin,
		Favorite:  card.Favorite,
		CreatedAt: card.CreatedAt,
	}
}

func newCardViews(cards []models.Flashcard) []cardView {
	views := make([]cardView, 0, len(cards))
	for i := range cards {
		views = append(views, newCardView(&cards[i]))
	}
	return views
}

// progressView is the dashboard payload
type progressView struct {
	TotalCards    int    `json:"total_cards"`
	TutorCards    int    `json:"tutor_cards"`
	CustomCards   int    `json:"custom_cards"`
	Favorites     int    `json:"favorites"`
	Streak        int    `json:"streak"`
	LastStudyDate string `json:"last_study_date,omitempty"`
}

func newProgressView(p *models.Progress) progressView {
	view := progressView{
		TotalCards:  p.Cards.Total,
		TutorCards:  p.Cards.Tutor,
		CustomCards: p.Cards.Custom,
		Favorites:   p.Cards.Favorites,
		Streak:      p.Streak,
	}
	if p.LastStudyDate != nil {
		view.LastStudyDate = p.LastStudyDate.Format("2006-01-02")
	}
	return view
}
