package dto

import "github.com/shopspring/decimal"

// ─── Ledger ──────────────────────────────────────────────────────────────────

type EntryResponse struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Direction       string          `json:"direction"`
	Channel         string          `json:"channel"`
	Type            string          `json:"type"`
	OccurredAt      string          `json:"occurred_at"`
	AccountID       *string         `json:"account_id,omitempty"`
	PartnerID       *string         `json:"partner_id,omitempty"`
	Description     string          `json:"description"`
	PerformedByName string          `json:"performed_by"`
}

type IntegrityFindingResponse struct {
	EntryID string `json:"entry_id"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
}

type IntegrityResponse struct {
	Findings []IntegrityFindingResponse `json:"findings"`
	Clean    bool                       `json:"clean"`
}

// LegacyBalanceRequest is one opening balance carried over from a pre-ledger
// deployment.
type LegacyBalanceRequest struct {
	Channel     string          `json:"channel"    validate:"required,oneof=cash bank receivable"`
	AccountID   *string         `json:"account_id" validate:"omitempty,uuid"`
	Amount      decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Description string          `json:"description"`
}

type MigrateLegacyRequest struct {
	Balances []LegacyBalanceRequest `json:"balances" validate:"omitempty,dive"`
}

type MigrationResponse struct {
	Imported int  `json:"imported"`
	Skipped  bool `json:"skipped"` // ledger was not empty, or no legacy data
}

// ─── Savings ─────────────────────────────────────────────────────────────────

type ManualDepositRequest struct {
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Channel   string          `json:"channel"    validate:"required,oneof=cash bank"`
	AccountID *string         `json:"account_id" validate:"omitempty,uuid"`
	Note      string          `json:"note"`
}

// AmendDepositRequest is the one sanctioned ledger amendment: a manual saving
// deposit's amount/channel/account may be changed by id (id and type are kept).
type AmendDepositRequest struct {
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Channel   string          `json:"channel"    validate:"required,oneof=cash bank"`
	AccountID *string         `json:"account_id" validate:"omitempty,uuid"`
}

type CreatePlanRequest struct {
	Name      string          `json:"name"       validate:"required,min=2"`
	Schedule  string          `json:"schedule"   validate:"required,oneof=daily monthly"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Channel   string          `json:"channel"    validate:"required,oneof=cash bank"`
	AccountID *string         `json:"account_id" validate:"omitempty,uuid"`
}

type PlanApplicationResponse struct {
	PlanID     string          `json:"plan_id"`
	PlanName   string          `json:"plan_name"`
	Amount     decimal.Decimal `json:"amount"`
	Channel    string          `json:"channel"`
	AppliedFor string          `json:"applied_for"`
}

type SavingsPreviewResponse struct {
	Applications []PlanApplicationResponse `json:"applications"`
	Total        decimal.Decimal           `json:"total"`
}
