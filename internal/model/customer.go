package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer tracks the standing balance of a regular visitor.
// Invariant: after any reconciliation pass, CreditBalance and DebtBalance are
// never both positive — overlapping amounts are netted against each other.
type Customer struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"not null;index"`
	Phone         *string         `gorm:"type:varchar(30)"`
	CreditBalance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DebtBalance   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
