package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Device is a billable seat type (laptop desk, console, mobile corner, …).
// HourlyRate is what the customer pays; HourlyPlaceCost is the internal
// operating-cost estimate per hour of occupancy — it never appears on the
// customer's invoice, only in profit figures.
type Device struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string          `gorm:"not null;uniqueIndex"`
	HourlyRate      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	HourlyPlaceCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
