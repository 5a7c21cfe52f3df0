package service

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"mentraiq/internal/models"
	"mentraiq/internal/repository"
	"mentraiq/internal/security"
	"mentraiq/internal/snapshot"
)

// SnapshotService converts between the database and the legacy flat-file
// snapshot format
type SnapshotService struct {
	accountRepo *repository.AccountRepository
	cardRepo    *repository.CardRepository
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(accountRepo *repository.AccountRepository, cardRepo *repository.CardRepository) *SnapshotService {
	return &SnapshotService{
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
	}
}

// Export writes every account to a snapshot file in the canonical flat shape
func (s *SnapshotService) Export(outputPath string) error {
	log.Println("Starting snapshot export...")

	accounts, err := s.accountRepo.GetAllAccounts()
	if err != nil {
		return fmt.Errorf("failed to export accounts: %w", err)
	}

	store := make(snapshot.Store, len(accounts))
	for _, account := range accounts {
		cards, err := s.cardRepo.ListCards(account.ID, models.CategoryAll)
		if err != nil {
			return fmt.Errorf("failed to export cards for %s: %w", account.Username, err)
		}

		record := snapshot.Record{
			Password: account.PasswordHash,
			Streak:   account.Streak,
		}
		if account.LastStudyDate != nil {
			record.LastVisit = account.LastStudyDate.Format(snapshot.DateLayout)
		}
		for _, card := range cards {
			record.Cards = append(record.Cards, snapshot.Card{
				Front:    card.Front,
				Back:     card.Back,
				Category: card.Category,
				Favorite: card.Favorite,
				Origin:   card.Origin,
			})
		}
		store[account.Username] = record
	}

	if err := snapshot.Save(outputPath, store); err != nil {
		return err
	}

	log.Printf("Snapshot exported: %d accounts to %s", len(store), outputPath)
	return nil
}

// Import loads a snapshot file into the database. A missing or corrupt file
// is treated as an empty store, not a fatal error. Existing usernames are
// skipped; legacy plaintext credentials are re-hashed with bcrypt; streak
// state violating the counter/date invariant is repaired.
func (s *SnapshotService) Import(inputPath string) error {
	log.Printf("Starting snapshot import from %s...", inputPath)

	store, err := snapshot.Load(inputPath)
	if err != nil {
		// Missing or corrupt snapshots are an empty store, not a failure
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: snapshot file missing, treating as empty store")
		} else {
			log.Printf("Warning: snapshot unreadable, treating as empty store: %v", err)
		}
		return nil
	}

	imported := 0
	for username, record := range store {
		existing, err := s.accountRepo.GetAccountByUsername(username)
		if err != nil {
			return fmt.Errorf("failed to check account %s: %w", username, err)
		}
		if existing != nil {
			log.Printf("Skipping existing account: %s", username)
			continue
		}

		passwordHash := record.Password
		if !security.IsBcryptHash(passwordHash) {
			passwordHash, err = security.HashPassword(record.Password)
			if err != nil {
				return fmt.Errorf("failed to hash legacy credential for %s: %w", username, err)
			}
		}

		account, err := s.accountRepo.CreateAccount(username, passwordHash, "")
		if err != nil {
			return fmt.Errorf("failed to create account %s: %w", username, err)
		}

		streak, lastStudy := normalizeProgress(record.Streak, record.LastVisit)
		if streak != 0 || lastStudy != nil {
			if err := s.accountRepo.SetProgress(account.ID, streak, lastStudy); err != nil {
				return fmt.Errorf("failed to import progress for %s: %w", username, err)
			}
		}

		for _, card := range record.Cards {
			inserted, err := s.cardRepo.InsertCard(account.ID, card.Front, card.Back, card.Category, card.Origin)
			if err != nil {
				return fmt.Errorf("failed to import card for %s: %w", username, err)
			}
			// InsertCard always starts unfavorited
			if card.Favorite {
				if err := s.cardRepo.SetFavorite(inserted.ID, true); err != nil {
					return fmt.Errorf("failed to restore favorite for %s: %w", username, err)
				}
			}
		}

		imported++
	}

	log.Printf("Snapshot import complete: %d accounts imported, %d skipped", imported, len(store)-imported)
	return nil
}

// normalizeProgress repairs streak state so the counter is zero exactly when
// no study date is recorded.
func normalizeProgress(streak int, lastVisit string) (int, *time.Time) {
	if lastVisit == "" {
		return 0, nil
	}
	d, err := time.Parse(snapshot.DateLayout, lastVisit)
	if err != nil {
		log.Printf("Warning: invalid last visit date %q, dropping streak", lastVisit)
		return 0, nil
	}
	if streak < 1 {
		streak = 1
	}
	return streak, &d
}
