package service

import (
	"context"
	"testing"
	"time"

	"timecafe/internal/config"
	"timecafe/internal/dto"
	"timecafe/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	payloads []interface{}
}

func (d *stubDispatcher) EnqueueReport(_ context.Context, payload interface{}) error {
	d.payloads = append(d.payloads, payload)
	return nil
}

type distributionFixture struct {
	svc        DistributionService
	periods    *stubPeriodRepo
	ledger     *stubLedgerRepo
	records    *stubRecordRepo
	finance    *stubFinanceRepo
	customers  *stubCustomerRepo
	dispatcher *stubDispatcher
}

func newDistributionFixture() *distributionFixture {
	f := &distributionFixture{
		periods:    newStubPeriodRepo(),
		ledger:     newStubLedgerRepo(),
		records:    newStubRecordRepo(),
		finance:    newStubFinanceRepo(),
		customers:  newStubCustomerRepo(),
		dispatcher: &stubDispatcher{},
	}
	cfg := &config.Config{
		DevCutPercent: 5,
		PartnerAName:  "ana", PartnerAShare: 34,
		PartnerBName: "bo", PartnerBShare: 33,
		PartnerCName: "cy", PartnerCShare: 33,
	}
	f.svc = NewDistributionService(cfg, f.periods, f.ledger, f.records, f.finance, f.customers, f.dispatcher)
	return f
}

func (f *distributionFixture) seedPeriod(t *testing.T) {
	t.Helper()
	at := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	require.NoError(t, f.ledger.Create(context.Background(), &model.LedgerEntry{
		Amount: dec("3000"), Direction: model.DirectionIn, Channel: model.ChannelCash,
		Type: model.EntryRevenue, OccurredAt: at,
		PerformedByID: testActor.ID, PerformedByName: testActor.Name,
	}))
	require.NoError(t, f.records.CreateTx(nil, &model.Record{
		CustomerName: "Ana",
		StartedAt:    at.Add(-time.Hour), EndedAt: at,
		TotalInvoice: dec("3000"), PaidCash: dec("3000"),
		CreatedByID: testActor.ID, CreatedByName: testActor.Name,
	}))
}

func TestDistributionComputePersistsNothing(t *testing.T) {
	f := newDistributionFixture()
	f.seedPeriod(t)

	resp, err := f.svc.Compute(context.Background(), dto.DistributionRequest{
		Start: "2026-03-01", End: "2026-04-01",
	})
	require.NoError(t, err)
	assert.True(t, resp.CashRevenue.Equal(dec("3000")))
	assert.Len(t, resp.Rows, 3)
	assert.Nil(t, resp.SnapshotID)

	assert.Empty(t, f.periods.snapshots)
	assert.Nil(t, f.periods.lock)
	assert.Empty(t, f.dispatcher.payloads)
}

func TestArchiveSnapshotsAndLocks(t *testing.T) {
	f := newDistributionFixture()
	f.seedPeriod(t)

	resp, err := f.svc.Archive(context.Background(), testActor, dto.ArchiveRequest{
		Start: "2026-03-01", End: "2026-04-01",
		Overheads: []dto.OverheadRequest{{Name: "rent", Amount: dec("310")}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.SnapshotID)

	require.Len(t, f.periods.snapshots, 1)
	snap := f.periods.snapshots[0]
	assert.Equal(t, *resp.SnapshotID, snap.ID.String())
	assert.Len(t, snap.Rows, 3)
	assert.Equal(t, testActor.Name, snap.CreatedByName)

	require.NotNil(t, f.periods.lock)
	assert.True(t, f.periods.lock.Active)
	assert.Equal(t, mustTime("2026-04-01"), f.periods.lock.LockedUntil)

	// without apply-to-ground the history survives
	assert.False(t, f.ledger.purged)
	assert.False(t, f.records.purged)
	assert.False(t, f.finance.purged)
	assert.False(t, f.customers.zeroed)

	assert.Len(t, f.dispatcher.payloads, 1)
}

func TestArchiveApplyToGroundPurgesHistory(t *testing.T) {
	f := newDistributionFixture()
	f.seedPeriod(t)
	debtor := &model.Customer{Name: "Ana", Active: true, DebtBalance: dec("40")}
	require.NoError(t, f.customers.Create(context.Background(), debtor))

	_, err := f.svc.Archive(context.Background(), testActor, dto.ArchiveRequest{
		Start: "2026-03-01", End: "2026-04-01",
		ApplyToGround: true,
	})
	require.NoError(t, err)

	assert.True(t, f.ledger.purged)
	assert.True(t, f.records.purged)
	assert.True(t, f.finance.purged)
	assert.True(t, f.customers.zeroed)
	assert.Empty(t, f.ledger.entries)

	reset, err := f.customers.FindByID(context.Background(), debtor.ID)
	require.NoError(t, err)
	assert.True(t, reset.DebtBalance.IsZero())

	// the snapshot is the surviving account of the period
	assert.Len(t, f.periods.snapshots, 1)
}

func TestRebuildKeepsOriginalSnapshotAndLock(t *testing.T) {
	f := newDistributionFixture()
	f.seedPeriod(t)

	first, err := f.svc.Archive(context.Background(), testActor, dto.ArchiveRequest{
		Start: "2026-03-01", End: "2026-04-01",
	})
	require.NoError(t, err)
	lockBefore := f.periods.lock

	origID := uuid.MustParse(*first.SnapshotID)
	rebuilt, err := f.svc.Rebuild(context.Background(), testActor, origID, dto.RebuildRequest{
		Overheads: []dto.OverheadRequest{{Name: "rent corrected", Amount: dec("620")}},
	})
	require.NoError(t, err)
	require.NotNil(t, rebuilt.SnapshotID)
	assert.NotEqual(t, *first.SnapshotID, *rebuilt.SnapshotID)

	// both snapshots live side by side, the lock is untouched
	assert.Len(t, f.periods.snapshots, 2)
	assert.Same(t, lockBefore, f.periods.lock)

	// the rebuilt snapshot covers the original's stored bounds
	assert.Equal(t, first.Start, rebuilt.Start)
	assert.Equal(t, first.End, rebuilt.End)
}

func TestGetAndListSnapshots(t *testing.T) {
	f := newDistributionFixture()
	f.seedPeriod(t)

	archived, err := f.svc.Archive(context.Background(), testActor, dto.ArchiveRequest{
		Start: "2026-03-01", End: "2026-04-01",
	})
	require.NoError(t, err)

	list, err := f.svc.ListSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *archived.SnapshotID, list[0].ID)

	got, err := f.svc.GetSnapshot(context.Background(), uuid.MustParse(list[0].ID))
	require.NoError(t, err)
	assert.Len(t, got.Rows, 3)
	assert.True(t, got.CashRevenue.Equal(dec("3000")))
}
