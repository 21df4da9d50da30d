// internal/service/wizard.go
package service

import (
	"github.com/shopspring/decimal"

	"share-ledger/internal/util"
)

// WizardStep names one stage of the bill creation wizard.
type WizardStep string

const (
	StepDetails      WizardStep = "details"
	StepParticipants WizardStep = "participants"
	StepConfirm      WizardStep = "confirm"
	StepDone         WizardStep = "done"
)

// BillDraft is the data a wizard has collected so far.
type BillDraft struct {
	Title          string          `json:"title,omitempty"`
	Description    string          `json:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	BuyerID        int64           `json:"buyer_id,omitempty"`
	ParticipantIDs []int64         `json:"participant_ids,omitempty"`
	CategoryIDs    []int64         `json:"category_ids,omitempty"`
}

// BillWizard is the explicit state of a multi-step bill creation flow. The
// caller holds it between requests and sends it back with each step's input;
// the server keeps no per-flow state. Steps advance strictly in order:
// details, participants, confirm.
type BillWizard struct {
	Step  WizardStep `json:"step"`
	Draft BillDraft  `json:"draft"`
}

// NewBillWizard starts a wizard at the details step.
func NewBillWizard() *BillWizard {
	return &BillWizard{Step: StepDetails}
}

// EnterDetails records the bill's title, description and amount and advances
// to the participants step.
func (w *BillWizard) EnterDetails(title, description string, amount decimal.Decimal) error {
	if w.Step != StepDetails {
		return util.ErrInvalidInput
	}
	if title == "" {
		return util.ErrInvalidInput
	}
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return util.ErrInvalidAmount
	}

	w.Draft.Title = title
	w.Draft.Description = description
	w.Draft.Amount = amount
	w.Step = StepParticipants
	return nil
}

// EnterParticipants records the buyer, the participant set and any category
// labels and advances to the confirm step.
func (w *BillWizard) EnterParticipants(buyerID int64, participantIDs, categoryIDs []int64) error {
	if w.Step != StepParticipants {
		return util.ErrInvalidInput
	}
	if buyerID == 0 {
		return util.ErrInvalidInput
	}
	if len(participantIDs) == 0 {
		return util.ErrNoParticipants
	}

	w.Draft.BuyerID = buyerID
	w.Draft.ParticipantIDs = participantIDs
	w.Draft.CategoryIDs = categoryIDs
	w.Step = StepConfirm
	return nil
}

// Confirm finalizes the wizard and returns the collected input ready for
// BillService.CreateBill. The wizard cannot be reused afterwards.
func (w *BillWizard) Confirm() (BillInput, error) {
	if w.Step != StepConfirm {
		return BillInput{}, util.ErrInvalidInput
	}
	w.Step = StepDone
	return BillInput{
		Title:          w.Draft.Title,
		Description:    w.Draft.Description,
		Amount:         w.Draft.Amount,
		BuyerID:        w.Draft.BuyerID,
		ParticipantIDs: w.Draft.ParticipantIDs,
		CategoryIDs:    w.Draft.CategoryIDs,
	}, nil
}
