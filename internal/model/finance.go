package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is an operational outflow (rent share, repairs, supplies bought for
// the place). PartnerID marks the expense as a partner-loan repayment, which
// the distribution calculator tracks separately from ordinary overhead.
type Expense struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Channel   Channel         `gorm:"type:varchar(12);not null"`
	AccountID *uuid.UUID      `gorm:"type:uuid"`
	PartnerID *uuid.UUID      `gorm:"type:uuid"` // set = repayment of this partner's loan
	SpentAt   time.Time       `gorm:"not null;index"`
	CreatedAt time.Time
}

// Purchase is a stock/equipment acquisition. When PartnerID is set, the
// partner paid out of pocket and is reimbursed in the next distribution.
type Purchase struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Channel     Channel         `gorm:"type:varchar(12);not null"`
	AccountID   *uuid.UUID      `gorm:"type:uuid"`
	PartnerID   *uuid.UUID      `gorm:"type:uuid"` // set = reimbursable partner purchase
	PurchasedAt time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time
}

// Loan is money lent to the place by an outside party.
type Loan struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LenderName string          `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Repaid     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Channel    Channel         `gorm:"type:varchar(12);not null"`
	AccountID  *uuid.UUID      `gorm:"type:uuid"`
	ReceivedAt time.Time       `gorm:"not null"`
	CreatedAt  time.Time
}

// Transfer moves money between cash and a bank account (liquidation).
type Transfer struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FromChannel Channel         `gorm:"type:varchar(12);not null"`
	ToChannel   Channel         `gorm:"type:varchar(12);not null"`
	AccountID   *uuid.UUID      `gorm:"type:uuid"` // the bank side of the transfer
	SenderName  string          `gorm:"not null"`  // required for bank transfers
	MovedAt     time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time
}

// PartnerDebt is money a partner withdrew from the place ahead of the next
// distribution; it is deducted from that partner's payout.
type PartnerDebt struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PartnerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Channel     Channel         `gorm:"type:varchar(12);not null"`
	AccountID   *uuid.UUID      `gorm:"type:uuid"`
	WithdrawnAt time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time
}

// BankAccount is a named account money can sit in. Bank-channel balance
// queries always target one specific account — an absent account id derives
// to zero, never to "unlimited".
type BankAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null;uniqueIndex"`
	Number    *string   `gorm:"type:varchar(40)"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
