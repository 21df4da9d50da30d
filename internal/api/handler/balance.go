// internal/api/handler/balance.go
package handler

import (
	"log/slog"
	"net/http"

	"share-ledger/internal/service"
)

// BalanceHandler handles HTTP requests for balances, settlement suggestions
// and the integrity audit.
type BalanceHandler struct {
	service service.BalanceService
	logger  *slog.Logger
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(svc service.BalanceService, logger *slog.Logger) *BalanceHandler {
	return &BalanceHandler{
		service: svc,
		logger:  logger,
	}
}

// ListBalances returns the derived balance of every account.
// GET /balances
func (h *BalanceHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.ListBalances(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, balances)
}

// SuggestSettlements returns proposed repayments that would settle all
// balances. Informational only.
// GET /balances/settlements
func (h *BalanceHandler) SuggestSettlements(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.service.SuggestSettlements(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, transfers)
}

// CheckIntegrity runs the ledger-wide conservation audit and reports the
// bills whose entries no longer reconcile.
// GET /integrity
func (h *BalanceHandler) CheckIntegrity(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.CheckGlobalIntegrity(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"violations": reports,
		"count":      len(reports),
	})
}
