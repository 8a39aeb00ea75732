package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"timecafe/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Discount types.
const (
	DiscountNone    = "none"
	DiscountFixed   = "fixed"
	DiscountPercent = "percent"
)

// Discount is the discount rule applied at invoice finalization. The computed
// amount is always clamped to [0, rawTotal] regardless of the configured
// value.
type Discount struct {
	Type  string
	Value decimal.Decimal
}

// OrderLine is one order with price and cost frozen at order time.
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Category    string // model.ProductDrink | model.ProductCard
	Quantity    int
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
}

// Invoice is the finalized breakdown of one stay. It embeds the segment,
// rate and discount snapshots so the record it becomes stays historically
// faithful when pricing changes later.
type Invoice struct {
	Bill BillResult

	DrinkInvoice decimal.Decimal
	DrinkCost    decimal.Decimal
	CardInvoice  decimal.Decimal
	CardCost     decimal.Decimal

	RawTotal       decimal.Decimal
	Discount       Discount
	DiscountAmount decimal.Decimal
	TotalInvoice   decimal.Decimal

	GrossProfit decimal.Decimal
	DevCut      decimal.Decimal
	NetProfit   decimal.Decimal
}

// ComputeInvoice assembles the invoice for [start,end]: time cost from the
// biller, order sums partitioned by category, discount clamped to the raw
// total, and profit figures. Deterministic, no side effects. The caller must
// pass the current order list explicitly when editing a record — the embedded
// list on an old snapshot may be stale.
//
// Rounding happens exactly once, on TotalInvoice; the dev cut is taken only
// from a positive gross profit (no cut on a loss).
func ComputeInvoice(
	start, end time.Time,
	deviceID uuid.UUID,
	changes []model.SessionDeviceChange,
	rates map[uuid.UUID]DeviceRate,
	orders []OrderLine,
	disc Discount,
	devCutPercent decimal.Decimal,
) Invoice {
	inv := Invoice{
		Bill:         BillSegments(start, end, deviceID, changes, rates),
		DrinkInvoice: decimal.Zero,
		DrinkCost:    decimal.Zero,
		CardInvoice:  decimal.Zero,
		CardCost:     decimal.Zero,
		Discount:     disc,
	}

	for _, o := range orders {
		qty := decimal.NewFromInt(int64(o.Quantity))
		price := o.UnitPrice.Mul(qty)
		cost := o.UnitCost.Mul(qty)
		switch o.Category {
		case model.ProductCard:
			inv.CardInvoice = inv.CardInvoice.Add(price)
			inv.CardCost = inv.CardCost.Add(cost)
		default:
			inv.DrinkInvoice = inv.DrinkInvoice.Add(price)
			inv.DrinkCost = inv.DrinkCost.Add(cost)
		}
	}

	inv.RawTotal = inv.Bill.TimeCost.Add(inv.DrinkInvoice).Add(inv.CardInvoice)
	inv.DiscountAmount = DiscountAmount(disc, inv.RawTotal)
	inv.TotalInvoice = inv.RawTotal.Sub(inv.DiscountAmount).Round(2)

	directCost := inv.Bill.PlaceCost.Add(inv.DrinkCost).Add(inv.CardCost)
	inv.GrossProfit = inv.TotalInvoice.Sub(directCost)
	inv.DevCut = DevCut(inv.GrossProfit, devCutPercent)
	inv.NetProfit = inv.GrossProfit.Sub(inv.DevCut)

	return inv
}

// DevCut returns grossProfit × percent/100 when grossProfit is positive, and
// zero otherwise.
func DevCut(grossProfit, percent decimal.Decimal) decimal.Decimal {
	if grossProfit.IsPositive() {
		return grossProfit.Mul(percent).Div(hundred)
	}
	return decimal.Zero
}

// DiscountAmount evaluates a discount rule against a raw total, clamped to
// [0, rawTotal].
func DiscountAmount(disc Discount, rawTotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch disc.Type {
	case DiscountFixed:
		amount = disc.Value
	case DiscountPercent:
		amount = rawTotal.Mul(disc.Value).Div(hundred)
	default:
		return decimal.Zero
	}
	// Clamp to [0, rawTotal]
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(rawTotal) {
		return rawTotal
	}
	return amount
}
