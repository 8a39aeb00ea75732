package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record is the immutable historical invoice produced at checkout. It holds
// snapshots of the rates, place costs, segments and discount that were in
// force at checkout time and is never recomputed against later pricing
// changes. The only sanctioned mutations are explicit order edits/deletions
// and debt repayments, both of which recompute totals from the record's own
// orders, not from the current catalog.
type Record struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName string     `gorm:"not null"`
	StartedAt    time.Time  `gorm:"not null;index"`
	EndedAt      time.Time  `gorm:"not null;index"`

	// Invoice snapshot
	TimeCost       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PlaceCost      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DrinkInvoice   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DrinkCost      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CardInvoice    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CardCost       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	RawTotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountType   string          `gorm:"type:varchar(10);not null;default:'none'"` // "none" | "fixed" | "percent"
	DiscountValue  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalInvoice   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	GrossProfit    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DevCut         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	NetProfit      decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	// Settlement snapshot
	PaidCash    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PaidBank    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CreditUsed  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DebtCreated decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedByID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedByName string    `gorm:"not null"`
	CreatedAt     time.Time

	Segments []RecordSegment `gorm:"foreignKey:RecordID"`
	Orders   []RecordOrder   `gorm:"foreignKey:RecordID"`
}

// RecordSegment is one billed sub-interval of the stay, frozen at checkout.
type RecordSegment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecordID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeviceID        uuid.UUID       `gorm:"type:uuid;not null"`
	DeviceName      string          `gorm:"not null"`
	StartedAt       time.Time       `gorm:"not null"`
	EndedAt         time.Time       `gorm:"not null"`
	Minutes         decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	HourlyRate      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	HourlyPlaceCost decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost            decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	PlaceCost       decimal.Decimal `gorm:"type:decimal(14,4);not null"`
}

// RecordOrder is an order line frozen into a record at checkout.
type RecordOrder struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecordID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"not null"`
	Category    string          `gorm:"type:varchar(20);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}
