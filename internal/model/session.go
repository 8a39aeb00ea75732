package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is an open, unbilled stay. It is mutable until checkout, at which
// point it is converted into an immutable Record and deleted.
type Session struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName string     `gorm:"not null"` // walk-ins have a name but no customer row
	DeviceID     uuid.UUID  `gorm:"type:uuid;not null"` // initial device at open
	StartedAt    time.Time  `gorm:"not null"`
	OpenedByID   uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt    time.Time

	Orders        []SessionOrder        `gorm:"foreignKey:SessionID"`
	DeviceChanges []SessionDeviceChange `gorm:"foreignKey:SessionID"`
}

// SessionOrder is an order placed during an open session. Price and cost are
// captured at order time so later catalog edits do not change a running bill.
type SessionOrder struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"not null"`
	Category    string          `gorm:"type:varchar(20);not null"` // "drink" | "card"
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}

// SessionDeviceChange is one device-switch event within a session, kept in
// ascending At order. The biller closes a rate segment at each valid event.
type SessionDeviceChange struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;index"`
	At           time.Time `gorm:"not null"`
	FromDeviceID uuid.UUID `gorm:"type:uuid;not null"`
	ToDeviceID   uuid.UUID `gorm:"type:uuid;not null"`
}
