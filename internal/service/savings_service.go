package service

import (
	"context"
	"fmt"
	"time"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/engine"
	"timecafe/internal/model"
	"timecafe/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SavingsService interface {
	ManualDeposit(ctx context.Context, actor Actor, req dto.ManualDepositRequest) (*dto.EntityResponse, error)
	// AmendDeposit is the one sanctioned ledger amendment: a manual saving
	// deposit's amount/channel/account may change; id and type are kept.
	AmendDeposit(ctx context.Context, entryID uuid.UUID, req dto.AmendDepositRequest) error

	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.EntityResponse, error)
	ListPlans(ctx context.Context) ([]model.SavingPlan, error)
	DeactivatePlan(ctx context.Context, id uuid.UUID) error

	// Preview computes which plans are due as of target without persisting
	// anything; an abandoned preview advances no plan.
	Preview(ctx context.Context, target time.Time) (*dto.SavingsPreviewResponse, error)
	// Confirm applies the due plans: one ledger entry per application, and the
	// plan's last-applied date advances so re-running is a no-op.
	Confirm(ctx context.Context, actor Actor, target time.Time) (*dto.SavingsPreviewResponse, error)
}

type savingsService struct {
	periodRepo repository.PeriodRepository
	ledgerRepo repository.LedgerRepository
	ledger     LedgerService
}

func NewSavingsService(
	periodRepo repository.PeriodRepository,
	ledgerRepo repository.LedgerRepository,
	ledger LedgerService,
) SavingsService {
	return &savingsService{periodRepo: periodRepo, ledgerRepo: ledgerRepo, ledger: ledger}
}

func (s *savingsService) ManualDeposit(ctx context.Context, actor Actor, req dto.ManualDepositRequest) (*dto.EntityResponse, error) {
	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := assertPeriodOpen(ctx, s.periodRepo, now); err != nil {
		return nil, err
	}
	if err := s.ledger.AssertSufficientFunds(ctx, channel, accountID, req.Amount); err != nil {
		return nil, err
	}

	desc := req.Note
	if desc == "" {
		desc = "manual saving deposit"
	}
	entry := model.LedgerEntry{
		Amount: req.Amount, Direction: model.DirectionOut,
		Channel: channel, Type: model.EntrySavingDeposit,
		OccurredAt: now, AccountID: accountID,
		Description:   desc,
		PerformedByID: actor.ID, PerformedByName: actor.Name,
	}
	if err := s.ledgerRepo.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: entry.ID.String()}, nil
}

func (s *savingsService) AmendDeposit(ctx context.Context, entryID uuid.UUID, req dto.AmendDepositRequest) error {
	entry, err := s.ledgerRepo.FindByID(ctx, entryID)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "entry not found")
	}
	if entry.Type != model.EntrySavingDeposit || entry.ParentID != nil {
		return apierror.NewDomain(apierror.KindValidation,
			"only manual saving deposits can be amended")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, entry.OccurredAt); err != nil {
		return err
	}

	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return err
	}

	// The stored entry already reduces its own channel, so an amendment only
	// needs headroom for what it adds: the raise when the deposit stays put,
	// the full amount when it moves to another channel or account.
	sameAccount := (accountID == nil && entry.AccountID == nil) ||
		(accountID != nil && entry.AccountID != nil && *accountID == *entry.AccountID)
	if channel == entry.Channel && sameAccount {
		if raise := req.Amount.Sub(entry.Amount); raise.IsPositive() {
			if err := s.ledger.AssertSufficientFunds(ctx, channel, accountID, raise); err != nil {
				return err
			}
		}
	} else if err := s.ledger.AssertSufficientFunds(ctx, channel, accountID, req.Amount); err != nil {
		return err
	}

	entry.Amount = req.Amount
	entry.Channel = channel
	entry.AccountID = accountID
	return s.ledgerRepo.Save(ctx, entry)
}

// ── Plans ────────────────────────────────────────────────────────────────────

func (s *savingsService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.EntityResponse, error) {
	channel, accountID, err := resolveChannel(req.Channel, req.AccountID)
	if err != nil {
		return nil, err
	}
	plan := &model.SavingPlan{
		Name:      req.Name,
		Schedule:  req.Schedule,
		Amount:    req.Amount,
		Channel:   channel,
		AccountID: accountID,
		Active:    true,
	}
	if err := s.periodRepo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return &dto.EntityResponse{ID: plan.ID.String()}, nil
}

func (s *savingsService) ListPlans(ctx context.Context) ([]model.SavingPlan, error) {
	return s.periodRepo.ListPlans(ctx, false)
}

func (s *savingsService) DeactivatePlan(ctx context.Context, id uuid.UUID) error {
	plan, err := s.periodRepo.FindPlanByID(ctx, id)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "plan not found")
	}
	plan.Active = false
	return s.periodRepo.SavePlan(ctx, plan)
}

// ── Preview / confirm ────────────────────────────────────────────────────────

func (s *savingsService) Preview(ctx context.Context, target time.Time) (*dto.SavingsPreviewResponse, error) {
	plans, err := s.periodRepo.ListPlans(ctx, true)
	if err != nil {
		return nil, err
	}
	return previewResponse(engine.DuePlans(plans, target)), nil
}

func (s *savingsService) Confirm(ctx context.Context, actor Actor, target time.Time) (*dto.SavingsPreviewResponse, error) {
	if err := assertPeriodOpen(ctx, s.periodRepo, target); err != nil {
		return nil, err
	}
	plans, err := s.periodRepo.ListPlans(ctx, true)
	if err != nil {
		return nil, err
	}
	due := engine.DuePlans(plans, target)
	if len(due) == 0 {
		return previewResponse(nil), nil
	}

	byID := make(map[uuid.UUID]*model.SavingPlan, len(plans))
	for i := range plans {
		byID[plans[i].ID] = &plans[i]
	}

	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		for _, app := range due {
			ref := app.PlanID
			entry := model.LedgerEntry{
				Amount: app.Amount, Direction: model.DirectionOut,
				Channel: app.Channel, Type: model.EntrySavingDeposit,
				OccurredAt: app.AppliedFor, AccountID: app.AccountID, ParentID: &ref,
				Description:   fmt.Sprintf("auto saving: %s", app.PlanName),
				PerformedByID: actor.ID, PerformedByName: actor.Name,
			}
			if err := s.ledgerRepo.CreateTx(tx, &entry); err != nil {
				return err
			}
			plan := byID[app.PlanID]
			applied := app.AppliedFor
			plan.LastAppliedAt = &applied
			if err := s.periodRepo.SavePlanTx(tx, plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return previewResponse(due), nil
}

func previewResponse(due []engine.PlanApplication) *dto.SavingsPreviewResponse {
	resp := &dto.SavingsPreviewResponse{Total: decimal.Zero}
	for _, app := range due {
		resp.Applications = append(resp.Applications, dto.PlanApplicationResponse{
			PlanID:     app.PlanID.String(),
			PlanName:   app.PlanName,
			Amount:     app.Amount,
			Channel:    string(app.Channel),
			AppliedFor: app.AppliedFor.Format("2006-01-02"),
		})
		resp.Total = resp.Total.Add(app.Amount)
	}
	return resp
}
