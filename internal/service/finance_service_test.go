package service

import (
	"context"
	"testing"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type financeFixture struct {
	svc     FinanceService
	finance *stubFinanceRepo
	ledger  *stubLedgerRepo
	periods *stubPeriodRepo
}

func newFinanceFixture() *financeFixture {
	f := &financeFixture{
		finance: newStubFinanceRepo(),
		ledger:  newStubLedgerRepo(),
		periods: newStubPeriodRepo(),
	}
	f.svc = NewFinanceService(f.finance, f.ledger, f.periods, NewLedgerService(f.ledger, f.finance, newStubRecordRepo(), newStubPeriodRepo()))
	return f
}

func TestCreateExpenseWithPartnerBecomesRepayment(t *testing.T) {
	f := newFinanceFixture()
	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "200", nil)
	partnerID := uuid.New().String()

	resp, err := f.svc.CreateExpense(context.Background(), testActor, dto.CreateExpenseRequest{
		Title: "returning ana's loan", Amount: dec("50"),
		Channel: "cash", PartnerID: &partnerID, SpentAt: "2026-03-10",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, f.ledger.entries, 2)
	entry := f.ledger.entries[1]
	assert.Equal(t, model.EntryPartnerRepayment, entry.Type)
	assert.Equal(t, model.DirectionOut, entry.Direction)
	require.NotNil(t, entry.PartnerID)
	assert.Equal(t, partnerID, entry.PartnerID.String())
}

func TestCreateExpenseGuardsAvailableFunds(t *testing.T) {
	f := newFinanceFixture()
	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "30", nil)

	_, err := f.svc.CreateExpense(context.Background(), testActor, dto.CreateExpenseRequest{
		Title: "rent", Amount: dec("30.01"), Channel: "cash", SpentAt: "2026-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientFunds, apierror.KindOf(err))
	assert.Empty(t, f.finance.expenses)
	assert.Len(t, f.ledger.entries, 1)
}

func TestPartnerPurchaseGuardedLikeAnySpend(t *testing.T) {
	f := newFinanceFixture()
	partnerID := uuid.New().String()

	// an empty till refuses the spend even when a partner is attached,
	// otherwise the outflow entry would drive the derived balance negative
	_, err := f.svc.CreatePurchase(context.Background(), testActor, dto.CreatePurchaseRequest{
		Title: "espresso beans", Amount: dec("75"),
		Channel: "cash", PartnerID: &partnerID, PurchasedAt: "2026-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientFunds, apierror.KindOf(err))
	assert.Empty(t, f.finance.purchases)
	assert.Empty(t, f.ledger.entries)

	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "100", nil)
	resp, err := f.svc.CreatePurchase(context.Background(), testActor, dto.CreatePurchaseRequest{
		Title: "espresso beans", Amount: dec("75"),
		Channel: "cash", PartnerID: &partnerID, PurchasedAt: "2026-03-10",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, f.ledger.entries, 2)
	entry := f.ledger.entries[1]
	assert.Equal(t, model.EntryPurchase, entry.Type)
	assert.Equal(t, model.DirectionOut, entry.Direction)
	require.NotNil(t, entry.PartnerID)

	cash, err := NewLedgerService(f.ledger, f.finance, newStubRecordRepo(), newStubPeriodRepo()).
		AvailableBalance(context.Background(), model.ChannelCash, nil)
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec("25")))
}

func TestTransferWritesMirroredEntries(t *testing.T) {
	f := newFinanceFixture()
	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "500", nil)
	acct := uuid.New()
	acctStr := acct.String()

	resp, err := f.svc.CreateTransfer(context.Background(), testActor, dto.CreateTransferRequest{
		Amount: dec("300"), FromChannel: "cash", ToChannel: "bank",
		AccountID: &acctStr, SenderName: "ana", MovedAt: "2026-03-10",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.Len(t, f.ledger.entries, 3)
	out, in := f.ledger.entries[1], f.ledger.entries[2]
	assert.Equal(t, model.ChannelCash, out.Channel)
	assert.Equal(t, model.DirectionOut, out.Direction)
	assert.Nil(t, out.AccountID)
	assert.Equal(t, model.ChannelBank, in.Channel)
	assert.Equal(t, model.DirectionIn, in.Direction)
	require.NotNil(t, in.AccountID)
	assert.Equal(t, acct, *in.AccountID)

	// both channels now derive coherent balances
	cash, err := NewLedgerService(f.ledger, f.finance, newStubRecordRepo(), newStubPeriodRepo()).AvailableBalance(context.Background(), model.ChannelCash, nil)
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec("200")))
	bank, err := NewLedgerService(f.ledger, f.finance, newStubRecordRepo(), newStubPeriodRepo()).AvailableBalance(context.Background(), model.ChannelBank, &acct)
	require.NoError(t, err)
	assert.True(t, bank.Equal(dec("300")))
}

func TestTransferValidations(t *testing.T) {
	f := newFinanceFixture()
	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "500", nil)
	acctStr := uuid.New().String()

	_, err := f.svc.CreateTransfer(context.Background(), testActor, dto.CreateTransferRequest{
		Amount: dec("10"), FromChannel: "cash", ToChannel: "cash", MovedAt: "2026-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = f.svc.CreateTransfer(context.Background(), testActor, dto.CreateTransferRequest{
		Amount: dec("10"), FromChannel: "cash", ToChannel: "bank", MovedAt: "2026-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	// a deposit without a named sender is untraceable at the bank
	_, err = f.svc.CreateTransfer(context.Background(), testActor, dto.CreateTransferRequest{
		Amount: dec("10"), FromChannel: "cash", ToChannel: "bank",
		AccountID: &acctStr, MovedAt: "2026-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestRepayLoanCappedAtOutstanding(t *testing.T) {
	f := newFinanceFixture()
	resp, err := f.svc.CreateLoan(context.Background(), testActor, dto.CreateLoanRequest{
		LenderName: "uncle bo", Amount: dec("1000"), Channel: "cash", ReceivedAt: "2026-03-01",
	})
	require.NoError(t, err)
	loanID := uuid.MustParse(resp.ID)

	err = f.svc.RepayLoan(context.Background(), testActor, loanID, dto.RepayLoanRequest{
		Amount: dec("600"), Channel: "cash", RepaidAt: "2026-03-10",
	})
	require.NoError(t, err)

	// outstanding is 400 now, paying 500 must refuse
	err = f.svc.RepayLoan(context.Background(), testActor, loanID, dto.RepayLoanRequest{
		Amount: dec("500"), Channel: "cash", RepaidAt: "2026-03-11",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	loans, err := f.svc.ListLoans(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.True(t, loans[0].Repaid.Equal(dec("600")))
}

func TestDeleteExpenseCascadesLedgerEntry(t *testing.T) {
	f := newFinanceFixture()
	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "200", nil)
	resp, err := f.svc.CreateExpense(context.Background(), testActor, dto.CreateExpenseRequest{
		Title: "rent", Amount: dec("80"), Channel: "cash", SpentAt: "2026-03-10",
	})
	require.NoError(t, err)
	require.Len(t, f.ledger.entries, 2)

	require.NoError(t, f.svc.DeleteExpense(context.Background(), uuid.MustParse(resp.ID)))
	assert.Empty(t, f.finance.expenses)
	assert.Len(t, f.ledger.entries, 1)
}

func TestFinanceMutationsRespectPeriodLock(t *testing.T) {
	f := newFinanceFixture()
	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "500", nil)
	f.periods.lock = &model.PeriodLock{LockedUntil: mustTime("2026-04-01"), Active: true}

	_, err := f.svc.CreateExpense(context.Background(), testActor, dto.CreateExpenseRequest{
		Title: "rent", Amount: dec("80"), Channel: "cash", SpentAt: "2026-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindPeriodLocked, apierror.KindOf(err))

	// the day after the lock boundary is open again
	_, err = f.svc.CreateExpense(context.Background(), testActor, dto.CreateExpenseRequest{
		Title: "rent", Amount: dec("80"), Channel: "cash", SpentAt: "2026-04-02",
	})
	require.NoError(t, err)
}
