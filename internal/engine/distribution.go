package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"timecafe/internal/apierror"
	"timecafe/internal/model"
)

// maxOverheadDays caps the day-by-day overhead walk so a malformed date range
// cannot loop unbounded.
const maxOverheadDays = 366

// Partner is one fixed-percentage profit participant. The percentages of the
// injected partner set must sum to exactly 100.
type Partner struct {
	ID      uuid.UUID
	Name    string
	Percent decimal.Decimal
}

// MonthlyOverhead is a fixed monthly expense (rent, subscriptions) pro-rated
// per calendar day over the distribution range.
type MonthlyOverhead struct {
	Name   string
	Amount decimal.Decimal
}

// DistributionParams configures one distribution run over [Start,End].
type DistributionParams struct {
	Start            time.Time
	End              time.Time
	Partners         []Partner
	DevCutPercent    decimal.Decimal
	MonthlyOverheads []MonthlyOverhead
}

// PartnerRow is one partner's payout with every intermediate quantity, kept
// verbatim in the period snapshot.
type PartnerRow struct {
	PartnerID uuid.UUID
	Partner   string
	Percent   decimal.Decimal

	BaseShare          decimal.Decimal
	CashShareAvailable decimal.Decimal
	BankShareAvailable decimal.Decimal
	ReimbursementCash  decimal.Decimal
	ReimbursementBank  decimal.Decimal
	OwnDebtCash        decimal.Decimal
	OwnDebtBank        decimal.Decimal
	CashPayout         decimal.Decimal
	BankPayout         decimal.Decimal
	FinalPayoutTotal   decimal.Decimal
	// RemainingDebt is always zero: a negative payout is floored at zero and
	// not carried forward as a tracked partner debt.
	RemainingDebt decimal.Decimal
}

// DistributionResult is the full output of one distribution run.
type DistributionResult struct {
	Start time.Time
	End   time.Time

	CashRevenue           decimal.Decimal
	BankRevenue           decimal.Decimal
	DiscountTotal         decimal.Decimal
	DirectCost            decimal.Decimal
	CashExpenses          decimal.Decimal
	BankExpenses          decimal.Decimal
	CashPurchases         decimal.Decimal
	BankPurchases         decimal.Decimal
	CashPartnerDebts      decimal.Decimal
	BankPartnerDebts      decimal.Decimal
	PartnerCashRepayments decimal.Decimal
	PartnerBankRepayments decimal.Decimal
	TransfersCashToBank   decimal.Decimal

	NetCashInPlace decimal.Decimal
	NetBankInPlace decimal.Decimal
	Overhead       decimal.Decimal

	PaidRevenue   decimal.Decimal
	GrossProfit   decimal.Decimal
	DevCut        decimal.Decimal
	NetProfitPaid decimal.Decimal // may be negative: shared loss

	CashRatio decimal.Decimal
	BankRatio decimal.Decimal

	Rows []PartnerRow
}

// Distribute allocates the period's net profit among the fixed partners and
// across the cash/bank channels. entries and records are the full history;
// only items dated inside [Start,End] participate.
func Distribute(entries []model.LedgerEntry, records []model.Record, p DistributionParams) (*DistributionResult, error) {
	if err := validatePartners(p.Partners); err != nil {
		return nil, err
	}
	if p.End.Before(p.Start) {
		return nil, apierror.NewDomain(apierror.KindValidation, "distribution range end precedes start")
	}

	res := newResult(p)

	// ── Channel aggregation ──────────────────────────────────────────────────
	partnerPurchases := make(map[uuid.UUID]decimal.Decimal)
	partnerDebtCash := make(map[uuid.UUID]decimal.Decimal)
	partnerDebtBank := make(map[uuid.UUID]decimal.Decimal)
	transfersInBank := decimal.Zero

	for _, e := range entries {
		if e.OccurredAt.Before(p.Start) || e.OccurredAt.After(p.End) {
			continue
		}
		cash := e.Channel == model.ChannelCash
		bank := e.Channel == model.ChannelBank

		switch e.Type {
		case model.EntryRevenue, model.EntryDebtRepayment, model.EntryLegacyImport:
			if e.Direction != model.DirectionIn {
				continue
			}
			if cash {
				res.CashRevenue = res.CashRevenue.Add(e.Amount)
			} else if bank {
				res.BankRevenue = res.BankRevenue.Add(e.Amount)
			}
		case model.EntryExpense:
			if cash {
				res.CashExpenses = res.CashExpenses.Add(e.Amount)
			} else if bank {
				res.BankExpenses = res.BankExpenses.Add(e.Amount)
			}
		case model.EntryPurchase:
			if cash {
				res.CashPurchases = res.CashPurchases.Add(e.Amount)
			} else if bank {
				res.BankPurchases = res.BankPurchases.Add(e.Amount)
			}
			if e.PartnerID != nil {
				partnerPurchases[*e.PartnerID] = partnerPurchases[*e.PartnerID].Add(e.Amount)
			}
		case model.EntryPartnerWithdrawal:
			if cash {
				res.CashPartnerDebts = res.CashPartnerDebts.Add(e.Amount)
				if e.PartnerID != nil {
					partnerDebtCash[*e.PartnerID] = partnerDebtCash[*e.PartnerID].Add(e.Amount)
				}
			} else if bank {
				res.BankPartnerDebts = res.BankPartnerDebts.Add(e.Amount)
				if e.PartnerID != nil {
					partnerDebtBank[*e.PartnerID] = partnerDebtBank[*e.PartnerID].Add(e.Amount)
				}
			}
		case model.EntryPartnerRepayment:
			if cash {
				res.PartnerCashRepayments = res.PartnerCashRepayments.Add(e.Amount)
			} else if bank {
				res.PartnerBankRepayments = res.PartnerBankRepayments.Add(e.Amount)
			}
		case model.EntryTransfer:
			// Only cash→bank liquidation transfers participate here.
			if cash && e.Direction == model.DirectionOut {
				res.TransfersCashToBank = res.TransfersCashToBank.Add(e.Amount)
			} else if bank && e.Direction == model.DirectionIn {
				transfersInBank = transfersInBank.Add(e.Amount)
			}
		}
	}

	for _, r := range records {
		if r.EndedAt.Before(p.Start) || r.EndedAt.After(p.End) {
			continue
		}
		res.DiscountTotal = res.DiscountTotal.Add(r.DiscountAmount)
		res.DirectCost = res.DirectCost.Add(r.PlaceCost).Add(r.DrinkCost).Add(r.CardCost)
	}

	// ── Net channel positions ────────────────────────────────────────────────
	res.NetCashInPlace = res.CashRevenue.
		Sub(res.CashExpenses).
		Sub(res.CashPurchases).
		Sub(res.CashPartnerDebts).
		Sub(res.PartnerCashRepayments).
		Sub(res.TransfersCashToBank)
	res.NetBankInPlace = res.BankRevenue.
		Sub(res.BankExpenses).
		Sub(res.BankPurchases).
		Sub(res.BankPartnerDebts).
		Sub(res.PartnerBankRepayments).
		Add(transfersInBank)

	// ── Overhead, pro-rated per calendar day ─────────────────────────────────
	res.Overhead = prorateOverheads(p.MonthlyOverheads, p.Start, p.End)

	// ── Profit figures ───────────────────────────────────────────────────────
	res.PaidRevenue = res.CashRevenue.Add(res.BankRevenue)
	res.GrossProfit = res.PaidRevenue.Sub(res.DirectCost).Sub(res.Overhead)
	res.DevCut = DevCut(res.GrossProfit, p.DevCutPercent)
	res.NetProfitPaid = res.GrossProfit.Sub(res.DevCut)

	// ── Channel ratio from gross operational flow ────────────────────────────
	// The ratio uses the flows before repayment/debt deduction so a partner's
	// own withdrawals do not skew which channel their share comes from.
	opsNetCash := res.NetCashInPlace.Add(res.PartnerCashRepayments).Add(res.CashPartnerDebts)
	opsNetBank := res.NetBankInPlace.Add(res.PartnerBankRepayments).Add(res.BankPartnerDebts)
	opsTotal := opsNetCash.Add(opsNetBank)
	if !opsTotal.IsZero() {
		res.CashRatio = opsNetCash.Div(opsTotal)
		res.BankRatio = opsNetBank.Div(opsTotal)
	}

	// ── Per-partner rows ─────────────────────────────────────────────────────
	for _, partner := range p.Partners {
		row := PartnerRow{
			PartnerID:     partner.ID,
			Partner:       partner.Name,
			Percent:       partner.Percent,
			RemainingDebt: decimal.Zero,
		}

		row.BaseShare = res.NetProfitPaid.Mul(partner.Percent).Div(hundred)
		if row.BaseShare.IsNegative() {
			row.BaseShare = decimal.Zero
		}
		row.CashShareAvailable = row.BaseShare.Mul(res.CashRatio)
		row.BankShareAvailable = row.BaseShare.Mul(res.BankRatio)

		reimbursed := partnerPurchases[partner.ID]
		row.ReimbursementCash = reimbursed.Mul(res.CashRatio)
		row.ReimbursementBank = reimbursed.Mul(res.BankRatio)

		row.OwnDebtCash = partnerDebtCash[partner.ID]
		row.OwnDebtBank = partnerDebtBank[partner.ID]

		row.CashPayout = row.CashShareAvailable.Sub(row.OwnDebtCash).Add(row.ReimbursementCash)
		row.BankPayout = row.BankShareAvailable.Sub(row.OwnDebtBank).Add(row.ReimbursementBank)

		row.FinalPayoutTotal = row.CashPayout.Add(row.BankPayout)
		if row.FinalPayoutTotal.IsNegative() {
			row.FinalPayoutTotal = decimal.Zero
		}

		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func validatePartners(partners []Partner) error {
	if len(partners) == 0 {
		return apierror.NewDomain(apierror.KindValidation, "no partners configured")
	}
	sum := decimal.Zero
	for _, p := range partners {
		sum = sum.Add(p.Percent)
	}
	if !sum.Equal(hundred) {
		return apierror.NewDomain(apierror.KindValidation,
			fmt.Sprintf("partner percentages must sum to 100, got %s", sum.String()))
	}
	return nil
}

// prorateOverheads sums monthlyAmount / daysInThatMonth for every calendar day
// in [start,end]. Each day uses its own month's length, so ranges spanning a
// month boundary come out exact. The walk is capped at maxOverheadDays.
func prorateOverheads(overheads []MonthlyOverhead, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	if len(overheads) == 0 {
		return total
	}

	monthly := decimal.Zero
	for _, o := range overheads {
		monthly = monthly.Add(o.Amount)
	}

	day := dayStart(start)
	last := dayStart(end)
	for i := 0; !day.After(last) && i < maxOverheadDays; i++ {
		days := decimal.NewFromInt(int64(daysInMonth(day)))
		total = total.Add(monthly.Div(days))
		day = day.AddDate(0, 0, 1)
	}
	return total
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func newResult(p DistributionParams) *DistributionResult {
	z := decimal.Zero
	return &DistributionResult{
		Start: p.Start, End: p.End,
		CashRevenue: z, BankRevenue: z, DiscountTotal: z, DirectCost: z,
		CashExpenses: z, BankExpenses: z, CashPurchases: z, BankPurchases: z,
		CashPartnerDebts: z, BankPartnerDebts: z,
		PartnerCashRepayments: z, PartnerBankRepayments: z,
		TransfersCashToBank: z, NetCashInPlace: z, NetBankInPlace: z,
		Overhead: z, PaidRevenue: z, GrossProfit: z, DevCut: z,
		NetProfitPaid: z, CashRatio: z, BankRatio: z,
	}
}
