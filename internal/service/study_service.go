package service

import (
	"fmt"
	"time"

	"mentraiq/internal/models"
	"mentraiq/internal/repository"
)

// StudyService maintains the consecutive-day study counter
type StudyService struct {
	accountRepo *repository.AccountRepository
}

// NewStudyService creates a new study service
func NewStudyService(accountRepo *repository.AccountRepository) *StudyService {
	return &StudyService{accountRepo: accountRepo}
}

// RecordStudy registers a study action for the account at the given time and
// returns the resulting streak. The counter is recomputed from the stored
// last study date on every call; "today" advances externally, so the result
// is never cached. Repeated calls on the same day are no-ops.
//
// The persisted update is guarded against concurrent writers; interference
// surfaces as repository.ErrConcurrentModification rather than a silently
// lost update.
func (s *StudyService) RecordStudy(accountID int64, now time.Time) (*models.Account, error) {
	account, err := s.accountRepo.GetAccountByID(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrUnknownUser
	}

	newStreak := AdvanceStreak(account.Streak, account.LastStudyDate, now)
	today := DateOnly(now)

	// Same-day repeat: nothing to persist
	if account.LastStudyDate != nil && DateOnly(*account.LastStudyDate).Equal(today) {
		return account, nil
	}

	if err := s.accountRepo.UpdateStreak(account.ID, account.Streak, account.LastStudyDate, newStreak, today); err != nil {
		return nil, err
	}

	account.Streak = newStreak
	account.LastStudyDate = &today
	return account, nil
}
