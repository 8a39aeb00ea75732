package dto

import "github.com/shopspring/decimal"

// ─── Devices ─────────────────────────────────────────────────────────────────

type CreateDeviceRequest struct {
	Name            string          `json:"name"              validate:"required,min=2"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"       validate:"required,gt=0"`
	HourlyPlaceCost decimal.Decimal `json:"hourly_place_cost" validate:"min=0"`
}

type DeviceResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	HourlyPlaceCost decimal.Decimal `json:"hourly_place_cost"`
	Active          bool            `json:"active"`
}

// ─── Products & inventory ────────────────────────────────────────────────────

type ComponentRequest struct {
	ItemID   string          `json:"item_id"  validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
}

type CreateProductRequest struct {
	Name       string             `json:"name"     validate:"required,min=2"`
	Category   string             `json:"category" validate:"required,oneof=drink card"`
	Price      decimal.Decimal    `json:"price"    validate:"required,gt=0"`
	Cost       decimal.Decimal    `json:"cost"     validate:"min=0"`
	Components []ComponentRequest `json:"components" validate:"omitempty,dive"`
}

type ProductResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Active   bool            `json:"active"`
}

type CreateItemRequest struct {
	Name  string          `json:"name"  validate:"required,min=2"`
	Unit  string          `json:"unit"  validate:"required"`
	Stock decimal.Decimal `json:"stock" validate:"min=0"`
}

type RestockRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	Reason   string          `json:"reason"`
}

type ItemResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Stock decimal.Decimal `json:"stock"`
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name  string  `json:"name"  validate:"required,min=2"`
	Phone *string `json:"phone" validate:"omitempty,min=5"`
}

type RepayDebtRequest struct {
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
	Channel   string          `json:"channel"    validate:"required,oneof=cash bank"`
	AccountID *string         `json:"account_id" validate:"omitempty,uuid"`
	PaidAt    string          `json:"paid_at"    validate:"required"`
}

type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         *string         `json:"phone,omitempty"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	DebtBalance   decimal.Decimal `json:"debt_balance"`
	Active        bool            `json:"active"`
}
