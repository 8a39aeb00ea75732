package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Channel is the financial "location" a ledger entry affects.
type Channel string

const (
	ChannelCash       Channel = "cash"
	ChannelBank       Channel = "bank"
	ChannelReceivable Channel = "receivable"
)

// Direction of a ledger entry relative to its channel.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Entry type tags. Balance derivation treats all of them uniformly (sum of
// in minus out per channel); the distribution calculator classifies by tag.
const (
	EntryRevenue           = "revenue"
	EntryDebtRepayment     = "debt_repayment"
	EntryExpense           = "expense"
	EntryPurchase          = "purchase"
	EntryLoanReceipt       = "loan_receipt"
	EntryLoanRepayment     = "loan_repayment"
	EntryTransfer          = "transfer"
	EntryPartnerWithdrawal = "partner_withdrawal" // place-debt taken by a partner
	EntryPartnerRepayment  = "partner_repayment"  // repayment of a partner loan
	EntrySavingDeposit     = "saving_deposit"
	EntryLegacyImport      = "legacy_import"
)

// LedgerEntry is one immutable, dated financial fact. The ledger is the sole
// source of truth for cash/bank balances: balances are always re-derived by
// replaying history, never cached.
//
// Entries are never updated, with one sanctioned exception: a manual saving
// deposit may be amended (amount/channel/account) by id. All other changes are
// cascading deletions triggered by deleting the referencing parent entity.
type LedgerEntry struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null"` // always >= 0
	Direction  Direction       `gorm:"type:varchar(5);not null"`
	Channel    Channel         `gorm:"type:varchar(12);not null;index"`
	Type       string          `gorm:"type:varchar(30);not null;index"`
	OccurredAt time.Time       `gorm:"not null;index"`

	// Optional references
	AccountID  *uuid.UUID `gorm:"type:uuid;index"` // mandatory for bank-channel entries
	PartnerID  *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	// ParentID links to the originating entity (record, expense, purchase,
	// loan, transfer, partner debt, saving plan). Deleting that parent
	// cascades to every entry referencing it.
	ParentID *uuid.UUID `gorm:"type:uuid;index"`

	Description     string
	PerformedByID   uuid.UUID `gorm:"type:uuid;not null"`
	PerformedByName string    `gorm:"not null"`
	CreatedAt       time.Time
}

// TableName overrides GORM's default pluralization.
func (LedgerEntry) TableName() string { return "ledger_entries" }
