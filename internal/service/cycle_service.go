package service

import (
	"context"
	"time"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/model"
	"timecafe/internal/repository"

	"github.com/shopspring/decimal"
)

type CycleService interface {
	Current(ctx context.Context) (*dto.CycleResponse, error)
	Start(ctx context.Context) (*dto.CycleResponse, error)
	// Preview aggregates the ledger since cycle start into end-of-day figures
	// without closing anything.
	Preview(ctx context.Context) (*dto.CyclePreviewResponse, error)
	// Close ends the open cycle. It refuses while any customer session is
	// still active.
	Close(ctx context.Context) (*dto.CycleResponse, error)
	History(ctx context.Context, limit int) ([]dto.CycleResponse, error)
}

type cycleService struct {
	repo        repository.PeriodRepository
	sessionRepo repository.SessionRepository
	ledgerRepo  repository.LedgerRepository
}

func NewCycleService(
	repo repository.PeriodRepository,
	sessionRepo repository.SessionRepository,
	ledgerRepo repository.LedgerRepository,
) CycleService {
	return &cycleService{repo: repo, sessionRepo: sessionRepo, ledgerRepo: ledgerRepo}
}

func (s *cycleService) Current(ctx context.Context) (*dto.CycleResponse, error) {
	cycle, err := s.repo.OpenCycle(ctx)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "no open cycle")
	}
	return cycleToResponse(cycle), nil
}

func (s *cycleService) Start(ctx context.Context) (*dto.CycleResponse, error) {
	open, err := s.repo.OpenCycle(ctx)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apierror.NewDomain(apierror.KindValidation, "a cycle is already open")
	}
	cycle := &model.DayCycle{Status: model.CycleOpen, StartedAt: time.Now()}
	if err := s.repo.CreateCycle(ctx, cycle); err != nil {
		return nil, err
	}
	return cycleToResponse(cycle), nil
}

func (s *cycleService) Preview(ctx context.Context) (*dto.CyclePreviewResponse, error) {
	cycle, err := s.repo.OpenCycle(ctx)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "no open cycle")
	}

	entries, err := s.ledgerRepo.ListBetween(ctx, cycle.StartedAt, time.Now().Add(time.Second))
	if err != nil {
		return nil, err
	}

	resp := &dto.CyclePreviewResponse{
		Cycle:       *cycleToResponse(cycle),
		CashRevenue: decimal.Zero, BankRevenue: decimal.Zero,
		DebtCreated: decimal.Zero, CashOut: decimal.Zero, BankOut: decimal.Zero,
	}
	for _, e := range entries {
		switch e.Channel {
		case model.ChannelCash:
			if e.Direction == model.DirectionIn {
				resp.CashRevenue = resp.CashRevenue.Add(e.Amount)
			} else {
				resp.CashOut = resp.CashOut.Add(e.Amount)
			}
		case model.ChannelBank:
			if e.Direction == model.DirectionIn {
				resp.BankRevenue = resp.BankRevenue.Add(e.Amount)
			} else {
				resp.BankOut = resp.BankOut.Add(e.Amount)
			}
		case model.ChannelReceivable:
			if e.Direction == model.DirectionIn {
				resp.DebtCreated = resp.DebtCreated.Add(e.Amount)
			}
		}
	}
	resp.NetCash = resp.CashRevenue.Sub(resp.CashOut)
	resp.NetBank = resp.BankRevenue.Sub(resp.BankOut)
	return resp, nil
}

func (s *cycleService) Close(ctx context.Context) (*dto.CycleResponse, error) {
	cycle, err := s.repo.OpenCycle(ctx)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, apierror.NewDomain(apierror.KindValidation, "no open cycle to close")
	}
	active, err := s.sessionRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, apierror.NewDomain(apierror.KindValidation,
			"cannot close the day while customer sessions are active")
	}

	now := time.Now()
	cycle.Status = model.CycleClosed
	cycle.ClosedAt = &now
	if err := s.repo.SaveCycle(ctx, cycle); err != nil {
		return nil, err
	}
	return cycleToResponse(cycle), nil
}

func (s *cycleService) History(ctx context.Context, limit int) ([]dto.CycleResponse, error) {
	cycles, err := s.repo.ListCycles(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		resp = append(resp, *cycleToResponse(&cycles[i]))
	}
	return resp, nil
}

func cycleToResponse(c *model.DayCycle) *dto.CycleResponse {
	resp := &dto.CycleResponse{
		ID:        c.ID.String(),
		Status:    c.Status,
		StartedAt: c.StartedAt.Format(time.RFC3339),
	}
	if c.ClosedAt != nil {
		v := c.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}
