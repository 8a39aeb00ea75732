package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"timecafe/internal/model"
)

// AvailableBalance re-derives a channel balance by replaying the entire entry
// history on every call. No running total is ever cached — the O(n) scan is
// the price of eliminating drift between a cached figure and the facts.
//
// For the bank channel an account id is mandatory: a nil accountID derives to
// zero rather than to some pooled "all accounts" figure, so an unidentified
// account can never authorize a spend.
func AvailableBalance(channel model.Channel, entries []model.LedgerEntry, accountID *uuid.UUID) decimal.Decimal {
	if channel == model.ChannelBank && accountID == nil {
		return decimal.Zero
	}

	balance := decimal.Zero
	for _, e := range entries {
		if e.Channel != channel {
			continue
		}
		if channel == model.ChannelBank {
			if e.AccountID == nil || *e.AccountID != *accountID {
				continue
			}
		}
		switch e.Direction {
		case model.DirectionIn:
			balance = balance.Add(e.Amount)
		case model.DirectionOut:
			balance = balance.Sub(e.Amount)
		}
	}
	return balance
}
