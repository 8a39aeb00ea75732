package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	CustomerID   *string `json:"customer_id"   validate:"omitempty,uuid"`
	CustomerName string  `json:"customer_name" validate:"required,min=2"`
	DeviceID     string  `json:"device_id"     validate:"required,uuid"`
	// StartedAt defaults to now when omitted (RFC 3339)
	StartedAt *string `json:"started_at"`
}

type ChangeDeviceRequest struct {
	ToDeviceID string  `json:"to_device_id" validate:"required,uuid"`
	At         *string `json:"at"` // RFC 3339; defaults to now
}

type AddOrderRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CheckoutRequest struct {
	PaidCash      decimal.Decimal `json:"paid_cash"      validate:"min=0"`
	PaidBank      decimal.Decimal `json:"paid_bank"      validate:"min=0"`
	BankAccountID *string         `json:"bank_account_id" validate:"omitempty,uuid"`
	DiscountType  string          `json:"discount_type"  validate:"omitempty,oneof=none fixed percent"`
	DiscountValue decimal.Decimal `json:"discount_value" validate:"min=0"`
	EndedAt       *string         `json:"ended_at"` // RFC 3339; defaults to now
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionOrderResponse struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type SessionResponse struct {
	ID            string                 `json:"id"`
	CustomerName  string                 `json:"customer_name"`
	DeviceID      string                 `json:"device_id"`
	StartedAt     string                 `json:"started_at"`
	Orders        []SessionOrderResponse `json:"orders"`
	DeviceChanges int                    `json:"device_changes"`
}

type SegmentResponse struct {
	DeviceName string          `json:"device_name"`
	StartedAt  string          `json:"started_at"`
	EndedAt    string          `json:"ended_at"`
	Minutes    decimal.Decimal `json:"minutes"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Cost       decimal.Decimal `json:"cost"`
}

type ReconciliationResponse struct {
	AppliedCredit  decimal.Decimal `json:"applied_credit"`
	DueAfterCredit decimal.Decimal `json:"due_after_credit"`
	CreatedCredit  decimal.Decimal `json:"created_credit"`
	CreatedDebt    decimal.Decimal `json:"created_debt"`
	SettledDebt    decimal.Decimal `json:"settled_debt"`
	FinalCredit    decimal.Decimal `json:"final_credit"`
	FinalDebt      decimal.Decimal `json:"final_debt"`
	IsFullyPaid    bool            `json:"is_fully_paid"`
}

type CheckoutResponse struct {
	RecordID       string                 `json:"record_id"`
	Segments       []SegmentResponse      `json:"segments"`
	TimeCost       decimal.Decimal        `json:"time_cost"`
	DrinkInvoice   decimal.Decimal        `json:"drink_invoice"`
	CardInvoice    decimal.Decimal        `json:"card_invoice"`
	RawTotal       decimal.Decimal        `json:"raw_total"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	TotalInvoice   decimal.Decimal        `json:"total_invoice"`
	ChangeDue      decimal.Decimal        `json:"change_due"`
	Reconciliation ReconciliationResponse `json:"reconciliation"`
}
