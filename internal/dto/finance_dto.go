package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateExpenseRequest struct {
	Title     string          `json:"title"      validate:"required,min=2"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Channel   string          `json:"channel"    validate:"required,oneof=cash bank"`
	AccountID *string         `json:"account_id" validate:"omitempty,uuid"`
	// PartnerID marks the expense as a partner-loan repayment
	PartnerID *string `json:"partner_id" validate:"omitempty,uuid"`
	SpentAt   string  `json:"spent_at"   validate:"required"`
}

type CreatePurchaseRequest struct {
	Title       string          `json:"title"        validate:"required,min=2"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	Channel     string          `json:"channel"      validate:"required,oneof=cash bank"`
	AccountID   *string         `json:"account_id"   validate:"omitempty,uuid"`
	PartnerID   *string         `json:"partner_id"   validate:"omitempty,uuid"`
	PurchasedAt string          `json:"purchased_at" validate:"required"`
}

type CreateLoanRequest struct {
	LenderName string          `json:"lender_name" validate:"required,min=2"`
	Amount     decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Channel    string          `json:"channel"     validate:"required,oneof=cash bank"`
	AccountID  *string         `json:"account_id"  validate:"omitempty,uuid"`
	ReceivedAt string          `json:"received_at" validate:"required"`
}

type RepayLoanRequest struct {
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Channel   string          `json:"channel"    validate:"required,oneof=cash bank"`
	AccountID *string         `json:"account_id" validate:"omitempty,uuid"`
	RepaidAt  string          `json:"repaid_at"  validate:"required"`
}

type CreateTransferRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	// Only cash→bank and bank→cash moves are meaningful
	FromChannel string  `json:"from_channel" validate:"required,oneof=cash bank"`
	ToChannel   string  `json:"to_channel"   validate:"required,oneof=cash bank"`
	AccountID   *string `json:"account_id"   validate:"omitempty,uuid"`
	SenderName  string  `json:"sender_name"`
	MovedAt     string  `json:"moved_at"     validate:"required"`
}

type CreatePartnerDebtRequest struct {
	PartnerID   string          `json:"partner_id"   validate:"required,uuid"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	Channel     string          `json:"channel"      validate:"required,oneof=cash bank"`
	AccountID   *string         `json:"account_id"   validate:"omitempty,uuid"`
	WithdrawnAt string          `json:"withdrawn_at" validate:"required"`
}

type CreateBankAccountRequest struct {
	Name   string  `json:"name"   validate:"required,min=2"`
	Number *string `json:"number" validate:"omitempty,min=4"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntityResponse struct {
	ID string `json:"id"`
}

type BalanceResponse struct {
	Channel   string          `json:"channel"`
	AccountID *string         `json:"account_id,omitempty"`
	Available decimal.Decimal `json:"available"`
}
