// internal/api/handler/bill.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"share-ledger/internal/api/types"
	"share-ledger/internal/domain"
	"share-ledger/internal/middleware"
	"share-ledger/internal/service"
	"share-ledger/internal/util"
)

// BillHandler handles HTTP requests related to bills and repayments.
type BillHandler struct {
	service service.BillService
	logger  *slog.Logger
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(svc service.BillService, logger *slog.Logger) *BillHandler {
	return &BillHandler{
		service: svc,
		logger:  logger,
	}
}

// BillRequest represents the request body for creating or editing a bill.
type BillRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	BuyerID        int64           `json:"buyer_id"`
	ParticipantIDs []int64         `json:"participant_ids"`
	CategoryIDs    []int64         `json:"category_ids"`
}

func (req *BillRequest) toInput() service.BillInput {
	return service.BillInput{
		Title:          req.Title,
		Description:    req.Description,
		Amount:         req.Amount,
		BuyerID:        req.BuyerID,
		ParticipantIDs: req.ParticipantIDs,
		CategoryIDs:    req.CategoryIDs,
	}
}

// billResponse pairs a bill with its materialized entries.
type billResponse struct {
	Bill    *domain.Bill   `json:"bill"`
	Entries []domain.Entry `json:"entries"`
}

// CreateBill handles the bill creation request.
// POST /bills
func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req BillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Title == "" || req.BuyerID == 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	bill, entries, err := h.service.CreateBill(r.Context(), middleware.GetAccountID(r.Context()), req.toInput())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, billResponse{Bill: bill, Entries: entries})
}

// WizardRequest carries the client-held wizard state plus the input for the
// current step.
type WizardRequest struct {
	Wizard *service.BillWizard `json:"wizard"`
	Input  BillRequest         `json:"input"`
}

// AdvanceWizard advances a bill creation wizard one step. The wizard state
// lives entirely on the client; a missing wizard starts a new one at the
// details step, and the confirm step commits the bill.
// POST /bills/wizard
func (h *BillHandler) AdvanceWizard(w http.ResponseWriter, r *http.Request) {
	var req WizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	wizard := req.Wizard
	if wizard == nil {
		wizard = service.NewBillWizard()
	}

	switch wizard.Step {
	case service.StepDetails:
		if err := wizard.EnterDetails(req.Input.Title, req.Input.Description, req.Input.Amount); err != nil {
			respondWithError(h.logger, w, err)
			return
		}
	case service.StepParticipants:
		if err := wizard.EnterParticipants(req.Input.BuyerID, req.Input.ParticipantIDs, req.Input.CategoryIDs); err != nil {
			respondWithError(h.logger, w, err)
			return
		}
	case service.StepConfirm:
		input, err := wizard.Confirm()
		if err != nil {
			respondWithError(h.logger, w, err)
			return
		}
		bill, entries, err := h.service.CreateBill(r.Context(), middleware.GetAccountID(r.Context()), input)
		if err != nil {
			respondWithError(h.logger, w, err)
			return
		}
		respondWithJSON(h.logger, w, http.StatusCreated, billResponse{Bill: bill, Entries: entries})
		return
	default:
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"wizard": wizard})
}

// RepaymentRequest represents the request body for recording a repayment.
type RepaymentRequest struct {
	BuyerID    int64           `json:"buyer_id"`
	ReceiverID int64           `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// CreateRepayment handles the repayment request.
// POST /repayments
func (h *BillHandler) CreateRepayment(w http.ResponseWriter, r *http.Request) {
	var req RepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.BuyerID == 0 || req.ReceiverID == 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	bill, entries, err := h.service.CreateRepayment(r.Context(),
		middleware.GetAccountID(r.Context()), req.BuyerID, req.ReceiverID, req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, billResponse{Bill: bill, Entries: entries})
}

// GetBill returns one bill with its entries and categories.
// GET /bills/{billID}
func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.ParseInt(chi.URLParam(r, "billID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	bill, entries, err := h.service.GetBill(r.Context(), billID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, billResponse{Bill: bill, Entries: entries})
}

// EditBill replaces a bill's split with a new buyer/participant set.
// PUT /bills/{billID}
func (h *BillHandler) EditBill(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.ParseInt(chi.URLParam(r, "billID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	var req BillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	if req.Title == "" || req.BuyerID == 0 {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	bill, entries, err := h.service.EditBill(r.Context(), billID, req.toInput())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, billResponse{Bill: bill, Entries: entries})
}

// DeleteBill removes a bill and its entries.
// DELETE /bills/{billID}
func (h *BillHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.ParseInt(chi.URLParam(r, "billID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteBill(r.Context(), billID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBills returns a page of the global bill history.
// GET /bills?limit=10&offset=0
func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = service.GlobalHistoryPageSize
	}
	if offset < 0 {
		offset = 0
	}

	bills, totalCount, err := h.service.ListBills(r.Context(), limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.Bill]{
		Data:       bills,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// CategoryRequest represents the request body for creating a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory adds a new category label.
// POST /categories
func (h *BillHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, category)
}

// ListCategories returns all category labels.
// GET /categories
func (h *BillHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, categories)
}
