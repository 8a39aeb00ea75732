package service

import (
	"context"
	"testing"
	"time"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerFixture struct {
	svc       CustomerService
	customers *stubCustomerRepo
	ledger    *stubLedgerRepo
	periods   *stubPeriodRepo
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		customers: newStubCustomerRepo(),
		ledger:    newStubLedgerRepo(),
		periods:   newStubPeriodRepo(),
	}
	f.svc = NewCustomerService(f.customers, f.ledger, f.periods)
	return f
}

func (f *customerFixture) seedCustomer(t *testing.T, credit, debt string) *model.Customer {
	t.Helper()
	c := &model.Customer{
		Name: "Ana", Active: true,
		CreditBalance: dec(credit), DebtBalance: dec(debt),
	}
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func TestRepayDebtPartial(t *testing.T) {
	f := newCustomerFixture()
	c := f.seedCustomer(t, "0", "100")

	resp, err := f.svc.RepayDebt(context.Background(), testActor, c.ID, dto.RepayDebtRequest{
		Amount: dec("60"), Channel: "cash", PaidAt: "2026-03-10",
	})
	require.NoError(t, err)
	assert.True(t, resp.DebtBalance.Equal(dec("40")))
	assert.True(t, resp.CreditBalance.IsZero())

	// cash in plus the settled portion mirrored out of receivable
	require.Len(t, f.ledger.entries, 2)
	in, out := f.ledger.entries[0], f.ledger.entries[1]
	assert.Equal(t, model.ChannelCash, in.Channel)
	assert.Equal(t, model.DirectionIn, in.Direction)
	assert.True(t, in.Amount.Equal(dec("60")))
	assert.Equal(t, model.ChannelReceivable, out.Channel)
	assert.Equal(t, model.DirectionOut, out.Direction)
	assert.True(t, out.Amount.Equal(dec("60")))
}

func TestRepayDebtOverpaymentBecomesCredit(t *testing.T) {
	f := newCustomerFixture()
	c := f.seedCustomer(t, "0", "50")

	resp, err := f.svc.RepayDebt(context.Background(), testActor, c.ID, dto.RepayDebtRequest{
		Amount: dec("80"), Channel: "cash", PaidAt: "2026-03-10",
	})
	require.NoError(t, err)
	assert.True(t, resp.DebtBalance.IsZero())
	assert.True(t, resp.CreditBalance.Equal(dec("30")))

	// only the 50 actually owed leaves the receivable channel
	require.Len(t, f.ledger.entries, 2)
	assert.True(t, f.ledger.entries[1].Amount.Equal(dec("50")))
}

func TestRepayDebtWithoutOpenDebt(t *testing.T) {
	f := newCustomerFixture()
	c := f.seedCustomer(t, "0", "0")

	resp, err := f.svc.RepayDebt(context.Background(), testActor, c.ID, dto.RepayDebtRequest{
		Amount: dec("25"), Channel: "cash", PaidAt: "2026-03-10",
	})
	require.NoError(t, err)
	assert.True(t, resp.CreditBalance.Equal(dec("25")))

	// nothing was settled, so no receivable mirror entry
	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, model.ChannelCash, f.ledger.entries[0].Channel)
}

func TestRepayDebtRespectsPeriodLock(t *testing.T) {
	f := newCustomerFixture()
	c := f.seedCustomer(t, "0", "100")
	f.periods.lock = &model.PeriodLock{LockedUntil: mustTime("2026-03-31"), Active: true}

	_, err := f.svc.RepayDebt(context.Background(), testActor, c.ID, dto.RepayDebtRequest{
		Amount: dec("60"), Channel: "cash", PaidAt: "2026-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindPeriodLocked, apierror.KindOf(err))
	assert.Empty(t, f.ledger.entries)
}

func TestDeactivateRefusedWithOpenDebt(t *testing.T) {
	f := newCustomerFixture()
	withDebt := f.seedCustomer(t, "0", "10")

	err := f.svc.Deactivate(context.Background(), withDebt.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	clean := &model.Customer{
		Name: "Bo", Active: true,
		CreditBalance: decimal.Zero, DebtBalance: decimal.Zero,
	}
	require.NoError(t, f.customers.Create(context.Background(), clean))
	require.NoError(t, f.svc.Deactivate(context.Background(), clean.ID))

	stored, err := f.customers.FindByID(context.Background(), clean.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func mustTime(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
