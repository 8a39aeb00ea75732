package worker

// savings_cron.go
// Background goroutine that periodically applies due auto-saving plans.
// Confirm is idempotent per plan and period, so overlapping ticks and
// restarts cannot double-apply a deposit.

import (
	"context"
	"time"

	"timecafe/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const savingsTickInterval = 15 * time.Minute

var cronActor = service.Actor{
	ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("system:savings-cron")),
	Name: "savings-cron",
}

// StartSavingsCron launches a background goroutine that ticks every 15 minutes
// and applies whatever saving plans are due as of the tick time.
// It respects the context for graceful shutdown.
func StartSavingsCron(ctx context.Context, savings service.SavingsService) {
	go func() {
		ticker := time.NewTicker(savingsTickInterval)
		defer ticker.Stop()

		log.Info().Msg("savings_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("savings_cron: shutting down")
				return
			case <-ticker.C:
				applyDuePlans(ctx, savings)
			}
		}
	}()
}

func applyDuePlans(ctx context.Context, savings service.SavingsService) {
	now := time.Now()

	preview, err := savings.Preview(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("savings_cron: preview failed")
		return
	}
	if len(preview.Applications) == 0 {
		return
	}

	applied, err := savings.Confirm(ctx, cronActor, now)
	if err != nil {
		log.Error().Err(err).Msg("savings_cron: confirm failed")
		return
	}
	log.Info().
		Int("applications", len(applied.Applications)).
		Str("total", applied.Total.String()).
		Msg("savings_cron: due plans applied")
}
