package service

import (
	"context"
	"time"

	"timecafe/internal/apierror"
	"timecafe/internal/config"
	"timecafe/internal/dto"
	"timecafe/internal/engine"
	"timecafe/internal/model"
	"timecafe/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReportDispatcher enqueues the async period-report job after an archive.
// Satisfied by worker.Dispatcher.
type ReportDispatcher interface {
	EnqueueReport(ctx context.Context, payload interface{}) error
}

type DistributionService interface {
	// Compute runs the profit distribution over [start,end] without persisting
	// anything. Safe to call any number of times.
	Compute(ctx context.Context, req dto.DistributionRequest) (*dto.DistributionResponse, error)

	// Archive computes the distribution, persists it as a period snapshot,
	// installs a period lock at the range end, and optionally purges the
	// transactional history once funds have been physically handed out.
	Archive(ctx context.Context, actor Actor, req dto.ArchiveRequest) (*dto.DistributionResponse, error)

	// Rebuild regenerates a fresh snapshot for the bounds stored on an
	// existing one, with a possibly corrected overhead list. The original
	// snapshot is kept.
	Rebuild(ctx context.Context, actor Actor, snapshotID uuid.UUID, req dto.RebuildRequest) (*dto.DistributionResponse, error)

	ListSnapshots(ctx context.Context) ([]dto.SnapshotSummaryResponse, error)
	GetSnapshot(ctx context.Context, id uuid.UUID) (*dto.DistributionResponse, error)
}

type distributionService struct {
	cfg          *config.Config
	periodRepo   repository.PeriodRepository
	ledgerRepo   repository.LedgerRepository
	recordRepo   repository.RecordRepository
	financeRepo  repository.FinanceRepository
	customerRepo repository.CustomerRepository
	dispatcher   ReportDispatcher
}

func NewDistributionService(
	cfg *config.Config,
	periodRepo repository.PeriodRepository,
	ledgerRepo repository.LedgerRepository,
	recordRepo repository.RecordRepository,
	financeRepo repository.FinanceRepository,
	customerRepo repository.CustomerRepository,
	dispatcher ReportDispatcher,
) DistributionService {
	return &distributionService{
		cfg:          cfg,
		periodRepo:   periodRepo,
		ledgerRepo:   ledgerRepo,
		recordRepo:   recordRepo,
		financeRepo:  financeRepo,
		customerRepo: customerRepo,
		dispatcher:   dispatcher,
	}
}

func (s *distributionService) Compute(ctx context.Context, req dto.DistributionRequest) (*dto.DistributionResponse, error) {
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	res, err := s.distribute(ctx, start, end, req.Overheads)
	if err != nil {
		return nil, err
	}
	return resultToResponse(res, nil), nil
}

func (s *distributionService) Archive(ctx context.Context, actor Actor, req dto.ArchiveRequest) (*dto.DistributionResponse, error) {
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	res, err := s.distribute(ctx, start, end, req.Overheads)
	if err != nil {
		return nil, err
	}

	snap := snapshotFromResult(res, actor)
	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.periodRepo.CreateSnapshotTx(tx, snap); err != nil {
			return err
		}
		lock := &model.PeriodLock{LockedUntil: end, Active: true}
		if err := s.periodRepo.InstallLockTx(tx, lock); err != nil {
			return err
		}
		if !req.ApplyToGround {
			return nil
		}
		// Irreversible: the snapshot becomes the only surviving account of the
		// period. Customer credit/debt is considered settled in person.
		if err := s.ledgerRepo.DeleteAllTx(tx); err != nil {
			return err
		}
		if err := s.recordRepo.DeleteAllTx(tx); err != nil {
			return err
		}
		if err := s.financeRepo.PurgeTransactionalTx(tx); err != nil {
			return err
		}
		return s.customerRepo.ZeroAllBalancesTx(tx)
	})
	if err != nil {
		return nil, err
	}

	s.enqueueReport(ctx, snap.ID)
	id := snap.ID.String()
	return resultToResponse(res, &id), nil
}

func (s *distributionService) Rebuild(ctx context.Context, actor Actor, snapshotID uuid.UUID, req dto.RebuildRequest) (*dto.DistributionResponse, error) {
	orig, err := s.periodRepo.FindSnapshotByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	res, err := s.distribute(ctx, orig.PeriodStart, orig.PeriodEnd, req.Overheads)
	if err != nil {
		return nil, err
	}

	snap := snapshotFromResult(res, actor)
	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		return s.periodRepo.CreateSnapshotTx(tx, snap)
	})
	if err != nil {
		return nil, err
	}

	id := snap.ID.String()
	return resultToResponse(res, &id), nil
}

func (s *distributionService) ListSnapshots(ctx context.Context) ([]dto.SnapshotSummaryResponse, error) {
	snaps, err := s.periodRepo.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SnapshotSummaryResponse, 0, len(snaps))
	for i := range snaps {
		snap := &snaps[i]
		resp = append(resp, dto.SnapshotSummaryResponse{
			ID:            snap.ID.String(),
			PeriodStart:   snap.PeriodStart.Format(time.RFC3339),
			PeriodEnd:     snap.PeriodEnd.Format(time.RFC3339),
			NetProfitPaid: snap.NetProfitPaid,
			CreatedBy:     snap.CreatedByName,
			CreatedAt:     snap.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (s *distributionService) GetSnapshot(ctx context.Context, id uuid.UUID) (*dto.DistributionResponse, error) {
	snap, err := s.periodRepo.FindSnapshotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshotToResponse(snap), nil
}

// ── Internals ──

// distribute loads the full history and runs the calculator over [start,end].
func (s *distributionService) distribute(ctx context.Context, start, end time.Time, overheads []dto.OverheadRequest) (*engine.DistributionResult, error) {
	entries, err := s.ledgerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	params := engine.DistributionParams{
		Start:         start,
		End:           end,
		DevCutPercent: s.cfg.DevCut(),
	}
	for _, p := range s.cfg.Partners() {
		params.Partners = append(params.Partners, engine.Partner{ID: p.ID, Name: p.Name, Percent: p.Percent})
	}
	for _, o := range overheads {
		params.MonthlyOverheads = append(params.MonthlyOverheads, engine.MonthlyOverhead{Name: o.Name, Amount: o.Amount})
	}

	return engine.Distribute(entries, records, params)
}

func (s *distributionService) enqueueReport(ctx context.Context, snapshotID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	payload := struct {
		SnapshotID string `json:"snapshot_id"`
		ToEmail    string `json:"to_email,omitempty"`
	}{SnapshotID: snapshotID.String(), ToEmail: s.cfg.ReportEmail}
	if err := s.dispatcher.EnqueueReport(ctx, payload); err != nil {
		log.Warn().Err(err).Str("snapshot_id", payload.SnapshotID).Msg("failed to enqueue period report job")
	}
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := parseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.NewDomain(apierror.KindValidation, "invalid start date")
	}
	end, err := parseTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apierror.NewDomain(apierror.KindValidation, "invalid end date")
	}
	return start, end, nil
}

func snapshotFromResult(res *engine.DistributionResult, actor Actor) *model.PeriodSnapshot {
	snap := &model.PeriodSnapshot{
		PeriodStart: res.Start,
		PeriodEnd:   res.End,

		CashRevenue:           res.CashRevenue,
		BankRevenue:           res.BankRevenue,
		DiscountTotal:         res.DiscountTotal,
		DirectCost:            res.DirectCost,
		CashExpenses:          res.CashExpenses,
		BankExpenses:          res.BankExpenses,
		CashPurchases:         res.CashPurchases,
		BankPurchases:         res.BankPurchases,
		CashPartnerDebts:      res.CashPartnerDebts,
		BankPartnerDebts:      res.BankPartnerDebts,
		PartnerCashRepayments: res.PartnerCashRepayments,
		PartnerBankRepayments: res.PartnerBankRepayments,
		TransfersCashToBank:   res.TransfersCashToBank,
		NetCashInPlace:        res.NetCashInPlace,
		NetBankInPlace:        res.NetBankInPlace,
		Overhead:              res.Overhead,
		GrossProfit:           res.GrossProfit,
		DevCut:                res.DevCut,
		NetProfitPaid:         res.NetProfitPaid,
		CashRatio:             res.CashRatio,
		BankRatio:             res.BankRatio,

		CreatedByID:   actor.ID,
		CreatedByName: actor.Name,
	}
	for _, row := range res.Rows {
		snap.Rows = append(snap.Rows, model.SnapshotPartnerRow{
			PartnerID:          row.PartnerID,
			Partner:            row.Partner,
			Percent:            row.Percent,
			BaseShare:          row.BaseShare,
			CashShareAvailable: row.CashShareAvailable,
			BankShareAvailable: row.BankShareAvailable,
			ReimbursementCash:  row.ReimbursementCash,
			ReimbursementBank:  row.ReimbursementBank,
			OwnDebtCash:        row.OwnDebtCash,
			OwnDebtBank:        row.OwnDebtBank,
			CashPayout:         row.CashPayout,
			BankPayout:         row.BankPayout,
			FinalPayoutTotal:   row.FinalPayoutTotal,
			RemainingDebt:      row.RemainingDebt,
		})
	}
	return snap
}

func resultToResponse(res *engine.DistributionResult, snapshotID *string) *dto.DistributionResponse {
	resp := &dto.DistributionResponse{
		Start:          res.Start.Format(time.RFC3339),
		End:            res.End.Format(time.RFC3339),
		CashRevenue:    res.CashRevenue,
		BankRevenue:    res.BankRevenue,
		DiscountTotal:  res.DiscountTotal,
		DirectCost:     res.DirectCost,
		Overhead:       res.Overhead,
		NetCashInPlace: res.NetCashInPlace,
		NetBankInPlace: res.NetBankInPlace,
		GrossProfit:    res.GrossProfit,
		DevCut:         res.DevCut,
		NetProfitPaid:  res.NetProfitPaid,
		CashRatio:      res.CashRatio,
		BankRatio:      res.BankRatio,
		SnapshotID:     snapshotID,
	}
	for _, row := range res.Rows {
		resp.Rows = append(resp.Rows, dto.PartnerRowResponse{
			PartnerID:          row.PartnerID.String(),
			Partner:            row.Partner,
			Percent:            row.Percent,
			BaseShare:          row.BaseShare,
			CashShareAvailable: row.CashShareAvailable,
			BankShareAvailable: row.BankShareAvailable,
			ReimbursementCash:  row.ReimbursementCash,
			ReimbursementBank:  row.ReimbursementBank,
			OwnDebtCash:        row.OwnDebtCash,
			OwnDebtBank:        row.OwnDebtBank,
			CashPayout:         row.CashPayout,
			BankPayout:         row.BankPayout,
			FinalPayoutTotal:   row.FinalPayoutTotal,
			RemainingDebt:      row.RemainingDebt,
		})
	}
	return resp
}

func snapshotToResponse(snap *model.PeriodSnapshot) *dto.DistributionResponse {
	id := snap.ID.String()
	resp := &dto.DistributionResponse{
		Start:          snap.PeriodStart.Format(time.RFC3339),
		End:            snap.PeriodEnd.Format(time.RFC3339),
		CashRevenue:    snap.CashRevenue,
		BankRevenue:    snap.BankRevenue,
		DiscountTotal:  snap.DiscountTotal,
		DirectCost:     snap.DirectCost,
		Overhead:       snap.Overhead,
		NetCashInPlace: snap.NetCashInPlace,
		NetBankInPlace: snap.NetBankInPlace,
		GrossProfit:    snap.GrossProfit,
		DevCut:         snap.DevCut,
		NetProfitPaid:  snap.NetProfitPaid,
		CashRatio:      snap.CashRatio,
		BankRatio:      snap.BankRatio,
		SnapshotID:     &id,
	}
	for _, row := range snap.Rows {
		resp.Rows = append(resp.Rows, dto.PartnerRowResponse{
			PartnerID:          row.PartnerID.String(),
			Partner:            row.Partner,
			Percent:            row.Percent,
			BaseShare:          row.BaseShare,
			CashShareAvailable: row.CashShareAvailable,
			BankShareAvailable: row.BankShareAvailable,
			ReimbursementCash:  row.ReimbursementCash,
			ReimbursementBank:  row.ReimbursementBank,
			OwnDebtCash:        row.OwnDebtCash,
			OwnDebtBank:        row.OwnDebtBank,
			CashPayout:         row.CashPayout,
			BankPayout:         row.BankPayout,
			FinalPayoutTotal:   row.FinalPayoutTotal,
			RemainingDebt:      row.RemainingDebt,
		})
	}
	return resp
}
