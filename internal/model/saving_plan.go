package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingPlan is a recurring rule that moves a fixed amount out of a channel
// on a schedule. Only the auto-savings processor advances LastAppliedAt;
// a plan is never applied twice for the same due period.
// Schedule: "daily" | "monthly"
type SavingPlan struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"not null"`
	Schedule      string          `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Channel       Channel         `gorm:"type:varchar(12);not null"`
	AccountID     *uuid.UUID      `gorm:"type:uuid"`
	Active        bool            `gorm:"not null;default:true"`
	LastAppliedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
