// Package snapshot reads and writes the legacy flat-file account store.
//
// Two flashcard shapes exist in the wild: a split object with "tutor" and
// "custom" sub-collections using question/answer and term/definition keys,
// and a flat list tagged with front/back/origin. The flat shape is canonical;
// split snapshots are migrated on decode and only the flat shape is ever
// written.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DateLayout is how last-visit dates appear in snapshots (empty when unset).
const DateLayout = "2006-01-02"

// Card is a flashcard in the canonical flat shape
type Card struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	Category string `json:"category"`
	Favorite bool   `json:"favorite"`
	Origin   string `json:"origin"`
}

// Record holds one account's credential, streak state and cards
type Record struct {
	Password  string `json:"password"`
	Streak    int    `json:"streak"`
	LastVisit string `json:"last_visit"`
	Cards     []Card `json:"flashcards"`
}

// Store maps usernames to their records
type Store map[string]Record

// rawRecord defers flashcard parsing so both historical shapes can be handled
type rawRecord struct {
	Password   string          `json:"password"`
	Streak     int             `json:"streak"`
	LastVisit  string          `json:"last_visit"`
	Flashcards json.RawMessage `json:"flashcards"`
}

// splitCollections is the legacy tutor/custom shape
type splitCollections struct {
	Tutor  []tutorCard  `json:"tutor"`
	Custom []customCard `json:"custom"`
}

type tutorCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Favorite bool   `json:"favorite"`
}

type customCard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Category   string `json:"category"`
	Favorite   bool   `json:"favorite"`
}

// Decode reads a snapshot in either historical shape
func Decode(r io.Reader) (Store, error) {
	var raw map[string]rawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	store := make(Store, len(raw))
	for username, rec := range raw {
		cards, err := decodeCards(rec.Flashcards)
		if err != nil {
			return nil, fmt.Errorf("failed to decode flashcards for %q: %w", username, err)
		}
		store[username] = Record{
			Password:  rec.Password,
			Streak:    rec.Streak,
			LastVisit: rec.LastVisit,
			Cards:     cards,
		}
	}
	return store, nil
}

// decodeCards handles the two flashcard shapes: a flat array (canonical) or
// the split tutor/custom object (migrated).
func decodeCards(raw json.RawMessage) ([]Card, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var cards []Card
		if err := json.Unmarshal(trimmed, &cards); err != nil {
			return nil, err
		}
		for i := range cards {
			if cards[i].Category == "" {
				cards[i].Category = "General"
			}
			if cards[i].Origin == "" {
				cards[i].Origin = "custom"
			}
		}
		return cards, nil
	case '{':
		var split splitCollections
		if err := json.Unmarshal(trimmed, &split); err != nil {
			return nil, err
		}
		return migrateSplit(split.Tutor, split.Custom), nil
	default:
		return nil, fmt.Errorf("unrecognized flashcards shape")
	}
}

// migrateSplit converts the split tutor/custom collections into the canonical
// flat shape. Tutor cards come first, each sub-collection keeping its order.
func migrateSplit(tutor []tutorCard, custom []customCard) []Card {
	cards := make([]Card, 0, len(tutor)+len(custom))
	for _, c := range tutor {
		category := c.Category
		if category == "" {
			category = "General"
		}
		cards = append(cards, Card{
			Front:    c.Question,
			Back:     c.Answer,
			Category: category,
			Favorite: c.Favorite,
			Origin:   "tutor",
		})
	}
	for _, c := range custom {
		category := c.Category
		if category == "" {
			category = "General"
		}
		cards = append(cards, Card{
			Front:    c.Term,
			Back:     c.Definition,
			Category: category,
			Favorite: c.Favorite,
			Origin:   "custom",
		})
	}
	return cards
}

// Encode writes a snapshot in the canonical flat shape
func Encode(w io.Writer, store Store) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(store); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot file
func Load(path string) (Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Save writes a snapshot file in the canonical shape
func Save(path string, store Store) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer file.Close()

	return Encode(file, store)
}
