package service

import (
	"context"
	"testing"
	"time"

	"timecafe/internal/apierror"
	"timecafe/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cycleFixture struct {
	svc      CycleService
	periods  *stubPeriodRepo
	sessions *stubSessionRepo
	ledger   *stubLedgerRepo
}

func newCycleFixture() *cycleFixture {
	f := &cycleFixture{
		periods:  newStubPeriodRepo(),
		sessions: newStubSessionRepo(),
		ledger:   newStubLedgerRepo(),
	}
	f.svc = NewCycleService(f.periods, f.sessions, f.ledger)
	return f
}

func TestCycleStartRefusesSecondOpen(t *testing.T) {
	f := newCycleFixture()

	_, err := f.svc.Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))

	first, err := f.svc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CycleOpen, first.Status)

	_, err = f.svc.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCycleCloseRefusesWhileSessionsActive(t *testing.T) {
	f := newCycleFixture()
	_, err := f.svc.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.sessions.Create(context.Background(), &model.Session{
		CustomerName: "walk-in", DeviceID: uuid.New(),
		StartedAt: time.Now(), OpenedByID: testActor.ID,
	}))

	_, err = f.svc.Close(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCycleCloseThenRestart(t *testing.T) {
	f := newCycleFixture()
	_, err := f.svc.Start(context.Background())
	require.NoError(t, err)

	closed, err := f.svc.Close(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CycleClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = f.svc.Close(context.Background())
	require.Error(t, err)

	reopened, err := f.svc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CycleOpen, reopened.Status)

	history, err := f.svc.History(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCyclePreviewAggregatesSinceStart(t *testing.T) {
	f := newCycleFixture()

	// an entry before the cycle opened must stay out of the preview
	_ = f.ledger.Create(context.Background(), &model.LedgerEntry{
		Amount: dec("999"), Direction: model.DirectionIn, Channel: model.ChannelCash,
		Type: model.EntryRevenue, OccurredAt: time.Now().Add(-time.Hour),
		PerformedByID: testActor.ID, PerformedByName: testActor.Name,
	})

	_, err := f.svc.Start(context.Background())
	require.NoError(t, err)

	seedEntry(f.ledger, model.ChannelCash, model.DirectionIn, "120", nil)
	seedEntry(f.ledger, model.ChannelCash, model.DirectionOut, "30", nil)
	acct := uuid.New()
	seedEntry(f.ledger, model.ChannelBank, model.DirectionIn, "200", &acct)
	seedEntry(f.ledger, model.ChannelReceivable, model.DirectionIn, "45", nil)

	preview, err := f.svc.Preview(context.Background())
	require.NoError(t, err)
	assert.True(t, preview.CashRevenue.Equal(dec("120")))
	assert.True(t, preview.CashOut.Equal(dec("30")))
	assert.True(t, preview.NetCash.Equal(dec("90")))
	assert.True(t, preview.BankRevenue.Equal(dec("200")))
	assert.True(t, preview.DebtCreated.Equal(dec("45")))
}
