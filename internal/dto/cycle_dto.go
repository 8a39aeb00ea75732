package dto

import "github.com/shopspring/decimal"

// ─── Day cycle ───────────────────────────────────────────────────────────────

type CycleResponse struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	StartedAt string  `json:"started_at"`
	ClosedAt  *string `json:"closed_at,omitempty"`
}

// CyclePreviewResponse aggregates ledger entries since cycle start into the
// end-of-day figures shown before closing.
type CyclePreviewResponse struct {
	Cycle       CycleResponse   `json:"cycle"`
	CashRevenue decimal.Decimal `json:"cash_revenue"`
	BankRevenue decimal.Decimal `json:"bank_revenue"`
	DebtCreated decimal.Decimal `json:"debt_created"`
	CashOut     decimal.Decimal `json:"cash_out"`
	BankOut     decimal.Decimal `json:"bank_out"`
	NetCash     decimal.Decimal `json:"net_cash"`
	NetBank     decimal.Decimal `json:"net_bank"`
}

// ─── Distribution / archive ──────────────────────────────────────────────────

// OverheadRequest is one fixed monthly expense pro-rated per calendar day
// over the distribution range.
type OverheadRequest struct {
	Name   string          `json:"name"   validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type DistributionRequest struct {
	Start     string            `json:"start" validate:"required"` // RFC 3339 or YYYY-MM-DD
	End       string            `json:"end"   validate:"required"`
	Overheads []OverheadRequest `json:"overheads" validate:"omitempty,dive"`
}

type ArchiveRequest struct {
	Start     string            `json:"start" validate:"required"`
	End       string            `json:"end"   validate:"required"`
	Overheads []OverheadRequest `json:"overheads" validate:"omitempty,dive"`
	// ApplyToGround irreversibly purges transactional collections and zeroes
	// customer balances after funds have been physically distributed.
	ApplyToGround bool `json:"apply_to_ground"`
}

// RebuildRequest regenerates a fresh snapshot for the bounds stored on an
// existing one.
type RebuildRequest struct {
	Overheads []OverheadRequest `json:"overheads" validate:"omitempty,dive"`
}

type PartnerRowResponse struct {
	PartnerID          string          `json:"partner_id"`
	Partner            string          `json:"partner"`
	Percent            decimal.Decimal `json:"percent"`
	BaseShare          decimal.Decimal `json:"base_share"`
	CashShareAvailable decimal.Decimal `json:"cash_share_available"`
	BankShareAvailable decimal.Decimal `json:"bank_share_available"`
	ReimbursementCash  decimal.Decimal `json:"reimbursement_cash"`
	ReimbursementBank  decimal.Decimal `json:"reimbursement_bank"`
	OwnDebtCash        decimal.Decimal `json:"own_debt_cash"`
	OwnDebtBank        decimal.Decimal `json:"own_debt_bank"`
	CashPayout         decimal.Decimal `json:"cash_payout"`
	BankPayout         decimal.Decimal `json:"bank_payout"`
	FinalPayoutTotal   decimal.Decimal `json:"final_payout_total"`
	RemainingDebt      decimal.Decimal `json:"remaining_debt"`
}

// SnapshotSummaryResponse is the listing row for archived periods.
type SnapshotSummaryResponse struct {
	ID            string          `json:"id"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	NetProfitPaid decimal.Decimal `json:"net_profit_paid"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     string          `json:"created_at"`
}

type DistributionResponse struct {
	Start                 string               `json:"start"`
	End                   string               `json:"end"`
	CashRevenue           decimal.Decimal      `json:"cash_revenue"`
	BankRevenue           decimal.Decimal      `json:"bank_revenue"`
	DiscountTotal         decimal.Decimal      `json:"discount_total"`
	DirectCost            decimal.Decimal      `json:"direct_cost"`
	Overhead              decimal.Decimal      `json:"overhead"`
	NetCashInPlace        decimal.Decimal      `json:"net_cash_in_place"`
	NetBankInPlace        decimal.Decimal      `json:"net_bank_in_place"`
	GrossProfit           decimal.Decimal      `json:"gross_profit"`
	DevCut                decimal.Decimal      `json:"dev_cut"`
	NetProfitPaid         decimal.Decimal      `json:"net_profit_paid"`
	CashRatio             decimal.Decimal      `json:"cash_ratio"`
	BankRatio             decimal.Decimal      `json:"bank_ratio"`
	Rows                  []PartnerRowResponse `json:"rows"`
	SnapshotID            *string              `json:"snapshot_id,omitempty"`
}
