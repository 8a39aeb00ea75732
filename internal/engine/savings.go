package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"timecafe/internal/model"
)

// Schedules for saving plans.
const (
	ScheduleDaily   = "daily"
	ScheduleMonthly = "monthly"
)

// PlanApplication is one prospective saving deposit for a due plan. It is a
// pure computation result: nothing is persisted and no plan date is advanced
// until the caller confirms — a cancelled preview leaves every plan untouched.
type PlanApplication struct {
	PlanID     uuid.UUID
	PlanName   string
	Amount     decimal.Decimal
	Channel    model.Channel
	AccountID  *uuid.UUID
	AppliedFor time.Time // the due date this application covers
}

// DuePlans returns one application per active plan whose schedule is due at
// target relative to its last-applied date. A plan already applied for the
// target period produces nothing, so confirming and re-running for the same
// target can never double-apply.
func DuePlans(plans []model.SavingPlan, target time.Time) []PlanApplication {
	var due []PlanApplication
	for _, p := range plans {
		if !p.Active {
			continue
		}
		if !planDue(p, target) {
			continue
		}
		due = append(due, PlanApplication{
			PlanID:     p.ID,
			PlanName:   p.Name,
			Amount:     p.Amount,
			Channel:    p.Channel,
			AccountID:  p.AccountID,
			AppliedFor: dayStart(target),
		})
	}
	return due
}

func planDue(p model.SavingPlan, target time.Time) bool {
	if p.LastAppliedAt == nil {
		return true
	}
	last := *p.LastAppliedAt
	switch p.Schedule {
	case ScheduleMonthly:
		return last.Year() < target.Year() ||
			(last.Year() == target.Year() && last.Month() < target.Month())
	default: // daily
		return dayStart(last).Before(dayStart(target))
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
