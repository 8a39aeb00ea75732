package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodSnapshot is the immutable archival document produced at period close.
// It embeds the full partner distribution breakdown for [PeriodStart,
// PeriodEnd] as an audit record. It is never recomputed in place — "rebuild"
// regenerates a fresh snapshot for the same stored bounds.
type PeriodSnapshot struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PeriodStart time.Time `gorm:"not null;index"`
	PeriodEnd   time.Time `gorm:"not null;index"`

	CashRevenue           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BankRevenue           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountTotal         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DirectCost            decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CashExpenses          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BankExpenses          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CashPurchases         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BankPurchases         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CashPartnerDebts      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BankPartnerDebts      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PartnerCashRepayments decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PartnerBankRepayments decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TransfersCashToBank   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	NetCashInPlace        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	NetBankInPlace        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Overhead              decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	GrossProfit           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DevCut                decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	NetProfitPaid         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CashRatio             decimal.Decimal `gorm:"type:decimal(10,6);not null"`
	BankRatio             decimal.Decimal `gorm:"type:decimal(10,6);not null"`

	CreatedByID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedByName string    `gorm:"not null"`
	CreatedAt     time.Time

	Rows []SnapshotPartnerRow `gorm:"foreignKey:SnapshotID"`
}

// SnapshotPartnerRow persists one partner's distribution row verbatim, with
// every intermediate quantity the calculator produced.
type SnapshotPartnerRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SnapshotID uuid.UUID `gorm:"type:uuid;not null;index"`
	PartnerID  uuid.UUID `gorm:"type:uuid;not null"`
	Partner    string    `gorm:"not null"`

	Percent            decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	BaseShare          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CashShareAvailable decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BankShareAvailable decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ReimbursementCash  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	ReimbursementBank  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	OwnDebtCash        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	OwnDebtBank        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CashPayout         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BankPayout         decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FinalPayoutTotal   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	RemainingDebt      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}
