package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// EditRecordOrderRequest changes the quantity on one historical order line.
// Totals are recomputed from the record's own orders, never from the current
// catalog.
type EditRecordOrderRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecordOrderResponse struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type RecordResponse struct {
	ID             string                `json:"id"`
	CustomerName   string                `json:"customer_name"`
	StartedAt      string                `json:"started_at"`
	EndedAt        string                `json:"ended_at"`
	Segments       []SegmentResponse     `json:"segments"`
	Orders         []RecordOrderResponse `json:"orders"`
	TimeCost       decimal.Decimal       `json:"time_cost"`
	DrinkInvoice   decimal.Decimal       `json:"drink_invoice"`
	CardInvoice    decimal.Decimal       `json:"card_invoice"`
	RawTotal       decimal.Decimal       `json:"raw_total"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TotalInvoice   decimal.Decimal       `json:"total_invoice"`
	PaidCash       decimal.Decimal       `json:"paid_cash"`
	PaidBank       decimal.Decimal       `json:"paid_bank"`
	CreditUsed     decimal.Decimal       `json:"credit_used"`
	DebtCreated    decimal.Decimal       `json:"debt_created"`
	CreatedBy      string                `json:"created_by"`
}
