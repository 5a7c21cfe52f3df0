package handlers

import (
	"net/http"
	"strconv"

	"mentraiq/internal/models"
	"mentraiq/internal/repository"
)

// AdminHandler handles account administration HTTP requests
type AdminHandler struct {
	accountRepo *repository.AccountRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(accountRepo *repository.AccountRepository) *AdminHandler {
	return &AdminHandler{accountRepo: accountRepo}
}

// adminAccountView includes the account id so accounts can be addressed for
// deletion. Credential hashes still never leave the server.
type adminAccountView struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
	Streak        int    `json:"streak"`
	LastStudyDate string `json:"last_study_date,omitempty"`
}

func newAdminAccountView(account *models.Account) adminAccountView {
	view := adminAccountView{
		ID:       account.ID,
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

// ListAccounts returns all accounts
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountRepo.GetAllAccounts()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load accounts", "Error listing accounts", err)
		return
	}

	views := make([]adminAccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, newAdminAccountView(&accounts[i]))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": views,
	})
}

// DeleteAccount removes an account and its cards, sessions and tokens.
// Admins cannot delete their own account.
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	admin := GetAccountFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid account id", "", nil)
		return
	}

	if id == admin.ID {
		respondWithError(w, http.StatusBadRequest, "You cannot delete your own account", "", nil)
		return
	}

	account, err := h.accountRepo.GetAccountByID(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load account", "Error loading account", err)
		return
	}
	if account == nil {
		respondWithError(w, http.StatusNotFound, "Account not found", "", nil)
		return
	}

	if err := h.accountRepo.DeleteAccount(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete account", "Error deleting account", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "account deleted"})
}
