package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReconcileCreditThenDebt(t *testing.T) {
	// due 100, credit 30 applied, paid 50 of the remaining 70 → debt 20
	r := Reconcile(dec("100"), dec("50"), dec("30"), decimal.Zero)

	assert.True(t, r.AppliedCredit.Equal(dec("30")))
	assert.True(t, r.DueAfterCredit.Equal(dec("70")))
	assert.True(t, r.CreatedDebt.Equal(dec("20")))
	assert.True(t, r.CreatedCredit.IsZero())
	assert.True(t, r.FinalDebt.Equal(dec("20")))
	assert.True(t, r.FinalCredit.IsZero())
	assert.False(t, r.IsFullyPaid)
}

func TestReconcileExactPayment(t *testing.T) {
	r := Reconcile(dec("80"), dec("80"), decimal.Zero, decimal.Zero)

	assert.True(t, r.FinalCredit.IsZero())
	assert.True(t, r.FinalDebt.IsZero())
	assert.True(t, r.IsFullyPaid)
}

func TestReconcileOverpaymentCreatesCredit(t *testing.T) {
	r := Reconcile(dec("60"), dec("100"), decimal.Zero, decimal.Zero)

	assert.True(t, r.CreatedCredit.Equal(dec("40")))
	assert.True(t, r.FinalCredit.Equal(dec("40")))
	assert.True(t, r.IsFullyPaid)
}

func TestReconcileOverpaymentNetsExistingDebt(t *testing.T) {
	// pays 100 on a 60 bill while owing 25 → the 40 overpayment settles the
	// old debt and leaves 15 credit
	r := Reconcile(dec("60"), dec("100"), decimal.Zero, dec("25"))

	assert.True(t, r.SettledDebt.Equal(dec("25")))
	assert.True(t, r.FinalCredit.Equal(dec("15")))
	assert.True(t, r.FinalDebt.IsZero())
	assert.True(t, r.IsFullyPaid)
}

func TestReconcileCreditCoversEverything(t *testing.T) {
	r := Reconcile(dec("40"), decimal.Zero, dec("100"), decimal.Zero)

	assert.True(t, r.AppliedCredit.Equal(dec("40")))
	assert.True(t, r.DueAfterCredit.IsZero())
	assert.True(t, r.FinalCredit.Equal(dec("60")))
	assert.True(t, r.IsFullyPaid)
}

// After reconciliation, credit and debt are each non-negative and never both
// positive, across a spread of inputs.
func TestReconcileInvariant(t *testing.T) {
	cases := []struct{ due, paid, credit, debt string }{
		{"100", "50", "30", "0"},
		{"100", "0", "0", "0"},
		{"0", "50", "0", "80"},
		{"250", "300", "20", "40"},
		{"10", "10", "10", "10"},
		{"75.25", "80", "0.50", "3.30"},
		{"0", "0", "0", "0"},
	}
	for _, c := range cases {
		r := Reconcile(dec(c.due), dec(c.paid), dec(c.credit), dec(c.debt))
		assert.False(t, r.FinalCredit.IsNegative(), "case %+v: negative credit", c)
		assert.False(t, r.FinalDebt.IsNegative(), "case %+v: negative debt", c)
		assert.False(t, r.FinalCredit.IsPositive() && r.FinalDebt.IsPositive(),
			"case %+v: credit %s and debt %s both positive", c, r.FinalCredit, r.FinalDebt)
		assert.Equal(t, r.FinalDebt.IsZero(), r.IsFullyPaid, "case %+v", c)
	}
}
