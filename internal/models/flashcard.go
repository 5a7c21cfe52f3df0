package models

import "time"

// Card origins. Tutor cards are saved from a tutor answer, custom cards
// are authored by the user. Both live in one flat collection.
const (
	OriginTutor  = "tutor"
	OriginCustom = "custom"
)

// DefaultCategory is applied when a card is saved without a category.
const DefaultCategory = "General"

// CategoryAll is the list filter that matches every card.
const CategoryAll = "All"

// Flashcard represents a front/back study pair owned by exactly one account.
// Position is the zero-based insertion index within the account's collection;
// insertion order is the only defined order.
type Flashcard struct {
	ID        int64
	AccountID int64
	Position  int
	Front     string
	Back      string
	Category  string
	Origin    string
	Favorite  bool
	CreatedAt time.Time
}

// CardStats summarizes an account's flashcard collection
type CardStats struct {
	Total     int
	Tutor     int
	Custom    int
	Favorites int
}

// Progress combines card statistics with streak state for the dashboard
type Progress struct {
	Cards         CardStats
	Streak        int
	LastStudyDate *time.Time
}
