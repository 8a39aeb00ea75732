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

// Actor identifies the operator performing a mutation. Every ledger entry
// records who acted.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// parseTime accepts RFC 3339 or a bare date.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apierror.NewDomain(apierror.KindValidation,
			fmt.Sprintf("invalid timestamp %q", s))
	}
	return t, nil
}

func parseTimePtr(s *string, fallback time.Time) (time.Time, error) {
	if s == nil || *s == "" {
		return fallback, nil
	}
	return parseTime(*s)
}

func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindValidation, fmt.Sprintf("invalid id %q", *s))
	}
	return &id, nil
}

// assertPeriodOpen rejects any financial mutation dated on or before the
// active period lock. The guard runs before any state change.
func assertPeriodOpen(ctx context.Context, periods repository.PeriodRepository, at time.Time) error {
	lock, err := periods.ActiveLock(ctx)
	if err != nil {
		return err
	}
	if lock != nil && !at.After(lock.LockedUntil) {
		return apierror.NewDomain(apierror.KindPeriodLocked,
			fmt.Sprintf("period is locked through %s", lock.LockedUntil.Format("2006-01-02")))
	}
	return nil
}

// assertCycleOpen refuses floor operations while no day cycle is open, which
// keeps the close-time zero-active-sessions precondition meaningful.
func assertCycleOpen(ctx context.Context, periods repository.PeriodRepository) error {
	cycle, err := periods.OpenCycle(ctx)
	if err != nil {
		return err
	}
	if cycle == nil {
		return apierror.NewDomain(apierror.KindValidation, "no open day cycle")
	}
	return nil
}

type LedgerService interface {
	ListEntries(ctx context.Context) ([]dto.EntryResponse, error)
	AvailableBalance(ctx context.Context, channel model.Channel, accountID *uuid.UUID) (decimal.Decimal, error)
	AssertSufficientFunds(ctx context.Context, channel model.Channel, accountID *uuid.UUID, amount decimal.Decimal) error
	CheckIntegrity(ctx context.Context) (*dto.IntegrityResponse, error)
	MigrateLegacy(ctx context.Context, actor Actor, req dto.MigrateLegacyRequest) (*dto.MigrationResponse, error)
}

type ledgerService struct {
	repo        repository.LedgerRepository
	financeRepo repository.FinanceRepository
	recordRepo  repository.RecordRepository
	periodRepo  repository.PeriodRepository
}

func NewLedgerService(
	repo repository.LedgerRepository,
	financeRepo repository.FinanceRepository,
	recordRepo repository.RecordRepository,
	periodRepo repository.PeriodRepository,
) LedgerService {
	return &ledgerService{repo: repo, financeRepo: financeRepo, recordRepo: recordRepo, periodRepo: periodRepo}
}

func (s *ledgerService) ListEntries(ctx context.Context) ([]dto.EntryResponse, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryToResponse(&e))
	}
	return resp, nil
}

func (s *ledgerService) AvailableBalance(ctx context.Context, channel model.Channel, accountID *uuid.UUID) (decimal.Decimal, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return engine.AvailableBalance(channel, entries, accountID), nil
}

// AssertSufficientFunds rejects a planned outflow that exceeds the derived
// balance. Spending exactly the available amount is allowed.
func (s *ledgerService) AssertSufficientFunds(ctx context.Context, channel model.Channel, accountID *uuid.UUID, amount decimal.Decimal) error {
	available, err := s.AvailableBalance(ctx, channel, accountID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(available) {
		return apierror.NewDomain(apierror.KindInsufficientFunds,
			fmt.Sprintf("requested %s exceeds available %s on %s",
				amount.StringFixed(2), available.StringFixed(2), channel))
	}
	return nil
}

func (s *ledgerService) CheckIntegrity(ctx context.Context) (*dto.IntegrityResponse, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.financeRepo.ListBankAccounts(ctx)
	if err != nil {
		return nil, err
	}
	knownAccounts := make(map[uuid.UUID]bool, len(accounts))
	for _, a := range accounts {
		knownAccounts[a.ID] = true
	}
	knownParents, err := s.collectParentIDs(ctx)
	if err != nil {
		return nil, err
	}

	findings := engine.ScanLedger(entries, knownAccounts, knownParents)
	resp := &dto.IntegrityResponse{Clean: len(findings) == 0}
	for _, f := range findings {
		resp.Findings = append(resp.Findings, dto.IntegrityFindingResponse{
			EntryID: f.EntryID.String(),
			Kind:    f.Kind,
			Detail:  f.Detail,
		})
	}
	return resp, nil
}

// collectParentIDs gathers the ids of every collection a ledger entry may
// reference as its parent, so the scan can flag entries whose parent was
// deleted out from under them.
func (s *ledgerService) collectParentIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	known := make(map[uuid.UUID]bool)

	records, err := s.recordRepo.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		known[r.ID] = true
	}

	expenses, err := s.financeRepo.ListExpenses(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		known[e.ID] = true
	}

	purchases, err := s.financeRepo.ListPurchases(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range purchases {
		known[p.ID] = true
	}

	loans, err := s.financeRepo.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		known[l.ID] = true
	}

	transfers, err := s.financeRepo.ListTransfers(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range transfers {
		known[t.ID] = true
	}

	partnerDebts, err := s.financeRepo.ListPartnerDebts(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range partnerDebts {
		known[d.ID] = true
	}

	plans, err := s.periodRepo.ListPlans(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		known[p.ID] = true
	}

	return known, nil
}

// MigrateLegacy seeds the ledger with opening balances from a pre-ledger
// deployment. It runs only against an empty ledger and only when legacy
// balances are supplied; in every other case it reports itself skipped and
// touches nothing, so calling it repeatedly is safe.
func (s *ledgerService) MigrateLegacy(ctx context.Context, actor Actor, req dto.MigrateLegacyRequest) (*dto.MigrationResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 || len(req.Balances) == 0 {
		return &dto.MigrationResponse{Imported: 0, Skipped: true}, nil
	}

	now := time.Now()
	imported := 0
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, b := range req.Balances {
			if !b.Amount.IsPositive() {
				continue
			}
			accountID, err := parseUUIDPtr(b.AccountID)
			if err != nil {
				return err
			}
			channel := model.Channel(b.Channel)
			if channel == model.ChannelBank && accountID == nil {
				return apierror.NewDomain(apierror.KindValidation,
					"legacy bank balance requires an account id")
			}
			entry := model.LedgerEntry{
				Amount:          b.Amount,
				Direction:       model.DirectionIn,
				Channel:         channel,
				Type:            model.EntryLegacyImport,
				OccurredAt:      now,
				AccountID:       accountID,
				Description:     b.Description,
				PerformedByID:   actor.ID,
				PerformedByName: actor.Name,
			}
			if err := s.repo.CreateTx(tx, &entry); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MigrationResponse{Imported: imported, Skipped: false}, nil
}

func entryToResponse(e *model.LedgerEntry) dto.EntryResponse {
	resp := dto.EntryResponse{
		ID:              e.ID.String(),
		Amount:          e.Amount,
		Direction:       string(e.Direction),
		Channel:         string(e.Channel),
		Type:            e.Type,
		OccurredAt:      e.OccurredAt.Format(time.RFC3339),
		Description:     e.Description,
		PerformedByName: e.PerformedByName,
	}
	if e.AccountID != nil {
		v := e.AccountID.String()
		resp.AccountID = &v
	}
	if e.PartnerID != nil {
		v := e.PartnerID.String()
		resp.PartnerID = &v
	}
	return resp
}
