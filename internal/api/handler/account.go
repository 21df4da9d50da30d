// internal/api/handler/account.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"share-ledger/internal/service"
	"share-ledger/internal/util"
)

// AccountHandler handles HTTP requests for registration, login and account
// reads.
type AccountHandler struct {
	accountService service.AccountService
	balanceService service.BalanceService
	billService    service.BillService
	logger         *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	accountService service.AccountService,
	balanceService service.BalanceService,
	billService service.BillService,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		balanceService: balanceService,
		billService:    billService,
		logger:         logger,
	}
}

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Register handles account creation.
// POST /auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	account, err := h.accountService.Register(r.Context(), req.Username, req.Nickname, req.Password)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, account)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles credential verification and token issuance.
// POST /auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	token, account, err := h.accountService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"account": account,
	})
}

// ListAccounts returns all registered accounts.
// GET /accounts
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAccounts(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, accounts)
}

// GetBalance returns the account's derived balance.
// GET /accounts/{accountID}/balance
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	balance, err := h.balanceService.Balance(r.Context(), accountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, balance)
}

// GetBillHistory returns the account's recent bill history.
// GET /accounts/{accountID}/bills
func (h *AccountHandler) GetBillHistory(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	bills, err := h.billService.ListBillsByAccount(r.Context(), accountID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, bills)
}
