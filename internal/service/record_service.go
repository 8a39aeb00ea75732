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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordService interface {
	List(ctx context.Context, from, to *time.Time) ([]dto.RecordResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.RecordResponse, error)
	EditOrder(ctx context.Context, id, orderID uuid.UUID, req dto.EditRecordOrderRequest) (*dto.RecordResponse, error)
	DeleteOrder(ctx context.Context, id, orderID uuid.UUID) (*dto.RecordResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type recordService struct {
	repo         repository.RecordRepository
	ledgerRepo   repository.LedgerRepository
	customerRepo repository.CustomerRepository
	periodRepo   repository.PeriodRepository
	cfg          *config.Config
}

func NewRecordService(
	repo repository.RecordRepository,
	ledgerRepo repository.LedgerRepository,
	customerRepo repository.CustomerRepository,
	periodRepo repository.PeriodRepository,
	cfg *config.Config,
) RecordService {
	return &recordService{repo: repo, ledgerRepo: ledgerRepo, customerRepo: customerRepo, periodRepo: periodRepo, cfg: cfg}
}

func (s *recordService) List(ctx context.Context, from, to *time.Time) ([]dto.RecordResponse, error) {
	records, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		resp = append(resp, *recordToResponse(&records[i]))
	}
	return resp, nil
}

func (s *recordService) Get(ctx context.Context, id uuid.UUID) (*dto.RecordResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "record not found")
	}
	return recordToResponse(record), nil
}

// EditOrder changes the quantity on one historical order line, then recomputes
// every invoice figure from the record's own frozen segments and orders — the
// current catalog is never consulted. The change in the total settles against
// the customer's standing balances.
func (s *recordService) EditOrder(ctx context.Context, id, orderID uuid.UUID, req dto.EditRecordOrderRequest) (*dto.RecordResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "record not found")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, record.EndedAt); err != nil {
		return nil, err
	}

	found := false
	for i := range record.Orders {
		if record.Orders[i].ID == orderID {
			record.Orders[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		return nil, apierror.NewDomain(apierror.KindNotFound, "order not found on record")
	}

	return s.applyRecomputed(ctx, record, nil)
}

// DeleteOrder removes one historical order line and recomputes totals the same
// way EditOrder does.
func (s *recordService) DeleteOrder(ctx context.Context, id, orderID uuid.UUID) (*dto.RecordResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "record not found")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, record.EndedAt); err != nil {
		return nil, err
	}

	idx := -1
	for i := range record.Orders {
		if record.Orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apierror.NewDomain(apierror.KindNotFound, "order not found on record")
	}
	record.Orders = append(record.Orders[:idx], record.Orders[idx+1:]...)

	return s.applyRecomputed(ctx, record, &orderID)
}

// Delete removes the record and cascades to every ledger entry referencing it.
// Customer balances are left as they stand; corrections go through explicit
// repayments or deposits.
func (s *recordService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "record not found")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, record.EndedAt); err != nil {
		return err
	}
	return runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.ledgerRepo.DeleteByParentTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
}

// applyRecomputed recalculates invoice figures from the record's own data,
// settles the total delta against the customer and persists everything in one
// transaction. removedOrderID is set when an order row must be deleted.
func (s *recordService) applyRecomputed(ctx context.Context, record *model.Record, removedOrderID *uuid.UUID) (*dto.RecordResponse, error) {
	oldTotal := record.TotalInvoice
	recomputeRecordTotals(record, s.cfg.DevCut())
	delta := record.TotalInvoice.Sub(oldTotal)

	var customer *model.Customer
	var settle engine.Reconciliation
	if record.CustomerID != nil && !delta.IsZero() {
		c, err := s.customerRepo.FindByID(ctx, *record.CustomerID)
		if err != nil {
			return nil, apierror.NewDomain(apierror.KindNotFound, "customer not found")
		}
		customer = c
		if delta.IsPositive() {
			// Extra due: consume credit first, remainder becomes debt.
			settle = engine.Reconcile(delta, decimal.Zero, c.CreditBalance, c.DebtBalance)
		} else {
			// Refund: treated as a payment of zero due, netted against debt.
			settle = engine.Reconcile(decimal.Zero, delta.Abs(), c.CreditBalance, c.DebtBalance)
		}
	}

	err := runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if removedOrderID != nil {
			if err := s.repo.DeleteOrderTx(tx, record.ID, *removedOrderID); err != nil {
				return err
			}
		}
		if err := s.repo.SaveTx(tx, record); err != nil {
			return err
		}
		if customer == nil {
			return nil
		}
		if err := s.customerRepo.UpdateBalancesTx(tx, customer.ID, settle.FinalCredit, settle.FinalDebt); err != nil {
			return err
		}
		// Keep the receivable channel in step with the stored debt.
		ref := record.ID
		if settle.CreatedDebt.IsPositive() {
			entry := model.LedgerEntry{
				Amount: settle.CreatedDebt, Direction: model.DirectionIn,
				Channel: model.ChannelReceivable, Type: model.EntryRevenue,
				OccurredAt: time.Now(), CustomerID: record.CustomerID, ParentID: &ref,
				Description:     "record amendment: additional debt",
				PerformedByID:   record.CreatedByID,
				PerformedByName: record.CreatedByName,
			}
			if err := s.ledgerRepo.CreateTx(tx, &entry); err != nil {
				return err
			}
		}
		if settle.SettledDebt.IsPositive() {
			entry := model.LedgerEntry{
				Amount: settle.SettledDebt, Direction: model.DirectionOut,
				Channel: model.ChannelReceivable, Type: model.EntryDebtRepayment,
				OccurredAt: time.Now(), CustomerID: record.CustomerID, ParentID: &ref,
				Description:     "record amendment: debt reduced",
				PerformedByID:   record.CreatedByID,
				PerformedByName: record.CreatedByName,
			}
			if err := s.ledgerRepo.CreateTx(tx, &entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recordToResponse(record), nil
}

// recomputeRecordTotals rebuilds every derived figure on the record from its
// frozen segments, orders and discount snapshot. Time figures never change —
// the stay is over.
func recomputeRecordTotals(record *model.Record, devCutPercent decimal.Decimal) {
	drinkInvoice, drinkCost := decimal.Zero, decimal.Zero
	cardInvoice, cardCost := decimal.Zero, decimal.Zero
	for _, o := range record.Orders {
		qty := decimal.NewFromInt(int64(o.Quantity))
		price := o.UnitPrice.Mul(qty)
		cost := o.UnitCost.Mul(qty)
		if o.Category == model.ProductCard {
			cardInvoice = cardInvoice.Add(price)
			cardCost = cardCost.Add(cost)
		} else {
			drinkInvoice = drinkInvoice.Add(price)
			drinkCost = drinkCost.Add(cost)
		}
	}

	record.DrinkInvoice = drinkInvoice
	record.DrinkCost = drinkCost
	record.CardInvoice = cardInvoice
	record.CardCost = cardCost
	record.RawTotal = record.TimeCost.Add(drinkInvoice).Add(cardInvoice)

	disc := engine.Discount{Type: record.DiscountType, Value: record.DiscountValue}
	record.DiscountAmount = engine.DiscountAmount(disc, record.RawTotal)
	record.TotalInvoice = record.RawTotal.Sub(record.DiscountAmount).Round(2)

	directCost := record.PlaceCost.Add(drinkCost).Add(cardCost)
	record.GrossProfit = record.TotalInvoice.Sub(directCost)
	record.DevCut = engine.DevCut(record.GrossProfit, devCutPercent)
	record.NetProfit = record.GrossProfit.Sub(record.DevCut)
}

func recordToResponse(r *model.Record) *dto.RecordResponse {
	resp := &dto.RecordResponse{
		ID:             r.ID.String(),
		CustomerName:   r.CustomerName,
		StartedAt:      r.StartedAt.Format(time.RFC3339),
		EndedAt:        r.EndedAt.Format(time.RFC3339),
		TimeCost:       r.TimeCost,
		DrinkInvoice:   r.DrinkInvoice,
		CardInvoice:    r.CardInvoice,
		RawTotal:       r.RawTotal,
		DiscountAmount: r.DiscountAmount,
		TotalInvoice:   r.TotalInvoice,
		PaidCash:       r.PaidCash,
		PaidBank:       r.PaidBank,
		CreditUsed:     r.CreditUsed,
		DebtCreated:    r.DebtCreated,
		CreatedBy:      r.CreatedByName,
	}
	for _, seg := range r.Segments {
		resp.Segments = append(resp.Segments, dto.SegmentResponse{
			DeviceName: seg.DeviceName,
			StartedAt:  seg.StartedAt.Format(time.RFC3339),
			EndedAt:    seg.EndedAt.Format(time.RFC3339),
			Minutes:    seg.Minutes,
			HourlyRate: seg.HourlyRate,
			Cost:       seg.Cost,
		})
	}
	for _, o := range r.Orders {
		resp.Orders = append(resp.Orders, dto.RecordOrderResponse{
			ID:          o.ID.String(),
			ProductName: o.ProductName,
			Category:    o.Category,
			Quantity:    o.Quantity,
			UnitPrice:   o.UnitPrice,
		})
	}
	return resp
}
