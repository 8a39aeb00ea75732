package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"timecafe/internal/model"
)

func entry(channel model.Channel, dir model.Direction, amount string, accountID *uuid.UUID) model.LedgerEntry {
	return model.LedgerEntry{
		ID:         uuid.New(),
		Amount:     dec(amount),
		Direction:  dir,
		Channel:    channel,
		Type:       model.EntryRevenue,
		AccountID:  accountID,
		OccurredAt: time.Now(),
	}
}

func TestAvailableBalanceEmptyHistory(t *testing.T) {
	got := AvailableBalance(model.ChannelCash, nil, nil)
	assert.True(t, got.IsZero())
}

func TestAvailableBalanceCash(t *testing.T) {
	entries := []model.LedgerEntry{
		entry(model.ChannelCash, model.DirectionIn, "100", nil),
		entry(model.ChannelCash, model.DirectionOut, "30", nil),
		entry(model.ChannelBank, model.DirectionIn, "999", nil), // other channel
		entry(model.ChannelCash, model.DirectionIn, "12.50", nil),
	}

	got := AvailableBalance(model.ChannelCash, entries, nil)
	assert.True(t, got.Equal(dec("82.50")), "balance = %s", got)
}

// Bank balances fail closed: without an account id there is no balance, even
// when bank entries exist.
func TestAvailableBalanceBankRequiresAccount(t *testing.T) {
	acct := uuid.New()
	entries := []model.LedgerEntry{
		entry(model.ChannelBank, model.DirectionIn, "500", &acct),
	}

	assert.True(t, AvailableBalance(model.ChannelBank, entries, nil).IsZero())
}

func TestAvailableBalanceBankScopedToAccount(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	entries := []model.LedgerEntry{
		entry(model.ChannelBank, model.DirectionIn, "500", &a),
		entry(model.ChannelBank, model.DirectionIn, "200", &b),
		entry(model.ChannelBank, model.DirectionOut, "50", &a),
		entry(model.ChannelBank, model.DirectionIn, "10", nil), // anomalous: no account
	}

	assert.True(t, AvailableBalance(model.ChannelBank, entries, &a).Equal(dec("450")))
	assert.True(t, AvailableBalance(model.ChannelBank, entries, &b).Equal(dec("200")))
}

func TestAvailableBalanceReceivable(t *testing.T) {
	entries := []model.LedgerEntry{
		entry(model.ChannelReceivable, model.DirectionIn, "70", nil),
		entry(model.ChannelReceivable, model.DirectionOut, "20", nil),
	}

	assert.True(t, AvailableBalance(model.ChannelReceivable, entries, nil).Equal(dec("50")))
}

// Identical input arrays must yield identical results across repeated calls —
// the derivation holds no state.
func TestAvailableBalanceReferentiallyPure(t *testing.T) {
	entries := []model.LedgerEntry{
		entry(model.ChannelCash, model.DirectionIn, "100", nil),
		entry(model.ChannelCash, model.DirectionOut, "41.99", nil),
	}

	first := AvailableBalance(model.ChannelCash, entries, nil)
	for i := 0; i < 5; i++ {
		assert.True(t, AvailableBalance(model.ChannelCash, entries, nil).Equal(first))
	}
}
