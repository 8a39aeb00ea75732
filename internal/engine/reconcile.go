package engine

import "github.com/shopspring/decimal"

// Reconciliation is the result of settling one payment against a customer's
// standing balances. FinalCredit and FinalDebt are never negative and never
// both positive — opposing balances are netted in the final step.
type Reconciliation struct {
	AppliedCredit  decimal.Decimal
	DueAfterCredit decimal.Decimal
	CreatedCredit  decimal.Decimal
	CreatedDebt    decimal.Decimal
	SettledDebt    decimal.Decimal
	FinalCredit    decimal.Decimal
	FinalDebt      decimal.Decimal
	IsFullyPaid    bool
}

// Reconcile settles paidAmount (cash+bank only, credit excluded) against
// totalDue and the customer's current credit/debt. The order of operations is
// fixed:
//
//  1. apply existing credit to the due amount
//  2. delta = paid − remaining due
//  3. overpayment creates credit, underpayment creates debt
//  4. net the resulting credit against the resulting debt
func Reconcile(totalDue, paidAmount, startCredit, startDebt decimal.Decimal) Reconciliation {
	appliedCredit := decimal.Min(startCredit, totalDue)
	dueAfterCredit := totalDue.Sub(appliedCredit)
	creditAfterApply := startCredit.Sub(appliedCredit)

	delta := paidAmount.Sub(dueAfterCredit)
	createdCredit := decimal.Zero
	createdDebt := decimal.Zero
	if delta.IsPositive() {
		createdCredit = delta
	} else if delta.IsNegative() {
		createdDebt = delta.Abs()
	}

	preSettleCredit := creditAfterApply.Add(createdCredit)
	preSettleDebt := startDebt.Add(createdDebt)

	settledDebt := decimal.Zero
	if preSettleCredit.IsPositive() && preSettleDebt.IsPositive() {
		settledDebt = decimal.Min(preSettleCredit, preSettleDebt)
	}

	finalCredit := preSettleCredit.Sub(settledDebt)
	finalDebt := preSettleDebt.Sub(settledDebt)

	return Reconciliation{
		AppliedCredit:  appliedCredit,
		DueAfterCredit: dueAfterCredit,
		CreatedCredit:  createdCredit,
		CreatedDebt:    createdDebt,
		SettledDebt:    settledDebt,
		FinalCredit:    finalCredit,
		FinalDebt:      finalDebt,
		IsFullyPaid:    finalDebt.IsZero(),
	}
}
