package repository

import (
	"database/sql"
	"fmt"
	"time"

	"mentraiq/internal/database"
	"mentraiq/internal/models"
)

// CardRepository handles flashcard database operations
type CardRepository struct {
	db *database.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{db: db}
}

// InsertCard appends a card to the end of an account's collection. The
// position is assigned inside a transaction so concurrent appends cannot
// claim the same slot.
func (r *CardRepository) InsertCard(accountID int64, front, back, category, origin string) (*models.Flashcard, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	countQuery := "SELECT COUNT(*) FROM flashcards WHERE account_id = ?"
	if err := tx.QueryRow(countQuery, accountID).Scan(&position); err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}

	insertQuery := `
		INSERT INTO flashcards (account_id, position, front_text, back_text, category, origin, favorite)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := tx.ExecReturningID(insertQuery, accountID, position, front, back, category, origin, false)
	if err != nil {
		return nil, fmt.Errorf("failed to insert card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit card insert: %w", err)
	}

	return &models.Flashcard{
		ID:        id,
		AccountID: accountID,
		Position:  position,
		Front:     front,
		Back:      back,
		Category:  category,
		Origin:    origin,
		Favorite:  false,
		CreatedAt: time.Now(),
	}, nil
}

// ListCards retrieves an account's cards in insertion order. A category of
// "" or "All" returns the full collection.
func (r *CardRepository) ListCards(accountID int64, category string) ([]models.Flashcard, error) {
	query := `
		SELECT id, account_id, position, front_text, back_text, category, origin, favorite, created_at
		FROM flashcards
		WHERE account_id = ?
	`
	args := []interface{}{accountID}

	if category != "" && category != models.CategoryAll {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY position ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var card models.Flashcard
		if err := rows.Scan(
			&card.ID,
			&card.AccountID,
			&card.Position,
			&card.Front,
			&card.Back,
			&card.Category,
			&card.Origin,
			&card.Favorite,
			&card.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// GetCardByPosition retrieves the card at a position in the unfiltered
// collection, or nil when the position does not exist.
func (r *CardRepository) GetCardByPosition(accountID int64, position int) (*models.Flashcard, error) {
	query := `
		SELECT id, account_id, position, front_text, back_text, category, origin, favorite, created_at
		FROM flashcards
		WHERE account_id = ? AND position = ?
	`
	card := &models.Flashcard{}
	err := r.db.QueryRow(query, accountID, position).Scan(
		&card.ID,
		&card.AccountID,
		&card.Position,
		&card.Front,
		&card.Back,
		&card.Category,
		&card.Origin,
		&card.Favorite,
		&card.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

// SetFavorite sets a card's favorite flag
func (r *CardRepository) SetFavorite(cardID int64, favorite bool) error {
	query := "UPDATE flashcards SET favorite = ? WHERE id = ?"
	if _, err := r.db.Exec(query, favorite, cardID); err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	return nil
}

// GetCardStats returns collection totals for an account
func (r *CardRepository) GetCardStats(accountID int64) (*models.CardStats, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN origin = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN origin = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN favorite = %s THEN 1 ELSE 0 END), 0)
		FROM flashcards
		WHERE account_id = ?
	`, r.db.Dialect.BoolValue(true))
	stats := &models.CardStats{}
	err := r.db.QueryRow(query, models.OriginTutor, models.OriginCustom, accountID).Scan(
		&stats.Total,
		&stats.Tutor,
		&stats.Custom,
		&stats.Favorites,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get card stats: %w", err)
	}
	return stats, nil
}
