package service

import (
	"context"
	"testing"
	"time"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntry(r *stubLedgerRepo, channel model.Channel, dir model.Direction, amount string, accountID *uuid.UUID) {
	_ = r.Create(context.Background(), &model.LedgerEntry{
		Amount: dec(amount), Direction: dir, Channel: channel,
		Type: model.EntryRevenue, OccurredAt: time.Now(),
		AccountID:     accountID,
		PerformedByID: testActor.ID, PerformedByName: testActor.Name,
	})
}

func TestAssertSufficientFundsBoundary(t *testing.T) {
	ledgerRepo := newStubLedgerRepo()
	svc := NewLedgerService(ledgerRepo, newStubFinanceRepo(), newStubRecordRepo(), newStubPeriodRepo())

	seedEntry(ledgerRepo, model.ChannelCash, model.DirectionIn, "100", nil)
	seedEntry(ledgerRepo, model.ChannelCash, model.DirectionOut, "30", nil)

	// spending exactly the derived balance is allowed
	err := svc.AssertSufficientFunds(context.Background(), model.ChannelCash, nil, dec("70"))
	assert.NoError(t, err)

	err = svc.AssertSufficientFunds(context.Background(), model.ChannelCash, nil, dec("70.01"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindInsufficientFunds, apierror.KindOf(err))
}

func TestAvailableBalancePerBankAccount(t *testing.T) {
	ledgerRepo := newStubLedgerRepo()
	svc := NewLedgerService(ledgerRepo, newStubFinanceRepo(), newStubRecordRepo(), newStubPeriodRepo())

	acctA, acctB := uuid.New(), uuid.New()
	seedEntry(ledgerRepo, model.ChannelBank, model.DirectionIn, "200", &acctA)
	seedEntry(ledgerRepo, model.ChannelBank, model.DirectionIn, "50", &acctB)
	seedEntry(ledgerRepo, model.ChannelBank, model.DirectionOut, "20", &acctA)

	balA, err := svc.AvailableBalance(context.Background(), model.ChannelBank, &acctA)
	require.NoError(t, err)
	assert.True(t, balA.Equal(dec("180")))

	// an unidentified bank account derives to zero, never to a pooled total
	total, err := svc.AvailableBalance(context.Background(), model.ChannelBank, nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestMigrateLegacySeedsEmptyLedgerOnce(t *testing.T) {
	ledgerRepo := newStubLedgerRepo()
	svc := NewLedgerService(ledgerRepo, newStubFinanceRepo(), newStubRecordRepo(), newStubPeriodRepo())

	acct := uuid.New().String()
	req := dto.MigrateLegacyRequest{Balances: []dto.LegacyBalanceRequest{
		{Channel: "cash", Amount: dec("500"), Description: "opening cash"},
		{Channel: "bank", AccountID: &acct, Amount: dec("1200")},
		{Channel: "receivable", Amount: decimal.Zero}, // non-positive, skipped
	}}

	resp, err := svc.MigrateLegacy(context.Background(), testActor, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Imported)
	assert.False(t, resp.Skipped)
	require.Len(t, ledgerRepo.entries, 2)
	for _, e := range ledgerRepo.entries {
		assert.Equal(t, model.EntryLegacyImport, e.Type)
		assert.Equal(t, model.DirectionIn, e.Direction)
	}

	// a second run against the now non-empty ledger is a no-op
	resp, err = svc.MigrateLegacy(context.Background(), testActor, req)
	require.NoError(t, err)
	assert.True(t, resp.Skipped)
	assert.Equal(t, 0, resp.Imported)
	assert.Len(t, ledgerRepo.entries, 2)
}

func TestMigrateLegacyBankBalanceRequiresAccount(t *testing.T) {
	ledgerRepo := newStubLedgerRepo()
	svc := NewLedgerService(ledgerRepo, newStubFinanceRepo(), newStubRecordRepo(), newStubPeriodRepo())

	_, err := svc.MigrateLegacy(context.Background(), testActor, dto.MigrateLegacyRequest{
		Balances: []dto.LegacyBalanceRequest{{Channel: "bank", Amount: dec("100")}},
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCheckIntegrityFlagsBadEntries(t *testing.T) {
	ledgerRepo := newStubLedgerRepo()
	financeRepo := newStubFinanceRepo()
	svc := NewLedgerService(ledgerRepo, financeRepo, newStubRecordRepo(), newStubPeriodRepo())

	seedEntry(ledgerRepo, model.ChannelCash, model.DirectionIn, "100", nil)
	resp, err := svc.CheckIntegrity(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Clean)

	// bank entry without an account reference
	seedEntry(ledgerRepo, model.ChannelBank, model.DirectionIn, "50", nil)
	resp, err = svc.CheckIntegrity(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Clean)
	assert.NotEmpty(t, resp.Findings)
}

func TestCheckIntegrityFlagsDanglingParent(t *testing.T) {
	ledgerRepo := newStubLedgerRepo()
	recordRepo := newStubRecordRepo()
	svc := NewLedgerService(ledgerRepo, newStubFinanceRepo(), recordRepo, newStubPeriodRepo())

	record := &model.Record{CustomerName: "Ana", TotalInvoice: dec("60")}
	require.NoError(t, recordRepo.CreateTx(nil, record))
	ref := record.ID
	_ = ledgerRepo.Create(context.Background(), &model.LedgerEntry{
		Amount: dec("60"), Direction: model.DirectionIn, Channel: model.ChannelCash,
		Type: model.EntryRevenue, OccurredAt: time.Now(), ParentID: &ref,
		PerformedByID: testActor.ID, PerformedByName: testActor.Name,
	})

	// while the record exists the reference resolves
	resp, err := svc.CheckIntegrity(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Clean)

	// removing the record out-of-band leaves the entry orphaned
	require.NoError(t, recordRepo.DeleteTx(nil, record.ID))
	resp, err = svc.CheckIntegrity(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Clean)
	require.Len(t, resp.Findings, 1)
	assert.Equal(t, "dangling_parent", resp.Findings[0].Kind)
}

func TestCheckIntegrityResolvesParentsAcrossCollections(t *testing.T) {
	ledgerRepo := newStubLedgerRepo()
	financeRepo := newStubFinanceRepo()
	svc := NewLedgerService(ledgerRepo, financeRepo, newStubRecordRepo(), newStubPeriodRepo())

	expense := &model.Expense{Title: "rent", Amount: dec("80"), Channel: model.ChannelCash, SpentAt: time.Now()}
	require.NoError(t, financeRepo.CreateExpenseTx(nil, expense))
	ref := expense.ID
	_ = ledgerRepo.Create(context.Background(), &model.LedgerEntry{
		Amount: dec("80"), Direction: model.DirectionOut, Channel: model.ChannelCash,
		Type: model.EntryExpense, OccurredAt: time.Now(), ParentID: &ref,
		PerformedByID: testActor.ID, PerformedByName: testActor.Name,
	})

	resp, err := svc.CheckIntegrity(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Clean)
}
