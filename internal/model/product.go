package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product categories split orders into the two invoice groups.
const (
	ProductDrink = "drink"
	ProductCard  = "card" // connectivity / internet cards
)

// Product is something a customer can order during a session.
// Price is the invoiced amount; Cost feeds profit accounting.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"not null;uniqueIndex"`
	Category  string          `gorm:"type:varchar(20);not null"` // "drink" | "card"
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Components []ProductComponent `gorm:"foreignKey:ProductID"`
}

// ProductComponent maps a product to the inventory items it consumes.
// An order depletes every component or is rejected outright — there is no
// partial fulfilment.
type ProductComponent struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`

	Item *InventoryItem `gorm:"foreignKey:ItemID"`
}

// InventoryItem is a stocked consumable (coffee beans, sugar, card blanks…).
type InventoryItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"not null;uniqueIndex"`
	Unit      string          `gorm:"type:varchar(20);not null;default:'unit'"`
	Stock     decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockMovement records each stock change on an inventory item.
// Type: "order" | "restock" | "adjustment" | "restore"
type StockMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        string          `gorm:"not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null"` // positive = in, negative = out
	StockBefore decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockAfter  decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // session order or record order, if applicable
	CreatedAt   time.Time

	Item *InventoryItem `gorm:"foreignKey:ItemID"`
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
