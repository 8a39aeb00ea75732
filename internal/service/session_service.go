package service

import (
	"context"
	"fmt"
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

type SessionService interface {
	Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	ListActive(ctx context.Context) ([]dto.SessionResponse, error)
	ChangeDevice(ctx context.Context, sessionID uuid.UUID, req dto.ChangeDeviceRequest) error
	AddOrder(ctx context.Context, sessionID uuid.UUID, req dto.AddOrderRequest) error
	DeleteOrder(ctx context.Context, sessionID, orderID uuid.UUID) error
	Checkout(ctx context.Context, actor Actor, sessionID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type sessionService struct {
	repo         repository.SessionRepository
	deviceRepo   repository.DeviceRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	recordRepo   repository.RecordRepository
	ledgerRepo   repository.LedgerRepository
	periodRepo   repository.PeriodRepository
	cfg          *config.Config
}

func NewSessionService(
	repo repository.SessionRepository,
	deviceRepo repository.DeviceRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	recordRepo repository.RecordRepository,
	ledgerRepo repository.LedgerRepository,
	periodRepo repository.PeriodRepository,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		repo:         repo,
		deviceRepo:   deviceRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		recordRepo:   recordRepo,
		ledgerRepo:   ledgerRepo,
		periodRepo:   periodRepo,
		cfg:          cfg,
	}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *sessionService) Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if err := assertCycleOpen(ctx, s.periodRepo); err != nil {
		return nil, err
	}
	deviceID, err := uuid.Parse(req.DeviceID)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindValidation, "invalid device_id")
	}
	device, err := s.deviceRepo.FindByID(ctx, deviceID)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "device not found")
	}
	if !device.Active {
		return nil, apierror.NewDomain(apierror.KindValidation,
			fmt.Sprintf("device %s is inactive", device.Name))
	}

	customerID, err := parseUUIDPtr(req.CustomerID)
	if err != nil {
		return nil, err
	}
	name := req.CustomerName
	if customerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *customerID)
		if err != nil {
			return nil, apierror.NewDomain(apierror.KindNotFound, "customer not found")
		}
		name = customer.Name
	}

	startedAt, err := parseTimePtr(req.StartedAt, time.Now())
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		CustomerID:   customerID,
		CustomerName: name,
		DeviceID:     deviceID,
		StartedAt:    startedAt,
		OpenedByID:   actor.ID,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) ListActive(ctx context.Context) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, *sessionToResponse(&sessions[i]))
	}
	return resp, nil
}

// ── ChangeDevice ─────────────────────────────────────────────────────────────

func (s *sessionService) ChangeDevice(ctx context.Context, sessionID uuid.UUID, req dto.ChangeDeviceRequest) error {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "session not found")
	}

	toID, err := uuid.Parse(req.ToDeviceID)
	if err != nil {
		return apierror.NewDomain(apierror.KindValidation, "invalid to_device_id")
	}
	device, err := s.deviceRepo.FindByID(ctx, toID)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "device not found")
	}
	if !device.Active {
		return apierror.NewDomain(apierror.KindValidation,
			fmt.Sprintf("device %s is inactive", device.Name))
	}

	at, err := parseTimePtr(req.At, time.Now())
	if err != nil {
		return err
	}
	if at.Before(session.StartedAt) {
		return apierror.NewDomain(apierror.KindValidation, "device change precedes session start")
	}

	from := session.DeviceID
	if n := len(session.DeviceChanges); n > 0 {
		from = session.DeviceChanges[n-1].ToDeviceID
	}
	if from == toID {
		return apierror.NewDomain(apierror.KindValidation, "session is already on that device")
	}

	return s.repo.AddDeviceChange(ctx, &model.SessionDeviceChange{
		SessionID:    sessionID,
		At:           at,
		FromDeviceID: from,
		ToDeviceID:   toID,
	})
}

// ── AddOrder ─────────────────────────────────────────────────────────────────
// The order depletes every inventory component or is rejected outright: stock
// sufficiency is verified for the complete component set before any depletion.

func (s *sessionService) AddOrder(ctx context.Context, sessionID uuid.UUID, req dto.AddOrderRequest) error {
	if _, err := s.repo.FindByID(ctx, sessionID); err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "session not found")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return apierror.NewDomain(apierror.KindValidation, "invalid product_id")
	}
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "product not found")
	}
	if !product.Active {
		return apierror.NewDomain(apierror.KindValidation,
			fmt.Sprintf("product %s is inactive", product.Name))
	}

	qty := decimal.NewFromInt(int64(req.Quantity))
	for _, comp := range product.Components {
		needed := comp.Quantity.Mul(qty)
		item := comp.Item
		if item == nil {
			it, err := s.productRepo.FindItemByID(ctx, comp.ItemID)
			if err != nil {
				return apierror.NewDomain(apierror.KindIntegrity,
					fmt.Sprintf("product %s references missing inventory item", product.Name))
			}
			item = it
		}
		if item.Stock.LessThan(needed) {
			return apierror.NewDomain(apierror.KindStockShortage,
				fmt.Sprintf("not enough %s: need %s, have %s",
					item.Name, needed.String(), item.Stock.String()))
		}
	}

	order := &model.SessionOrder{
		SessionID:   sessionID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Category:    product.Category,
		Quantity:    req.Quantity,
		UnitPrice:   product.Price,
		UnitCost:    product.Cost,
	}

	return runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			return s.repo.AddOrder(ctx, order)
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, comp := range product.Components {
			needed := comp.Quantity.Mul(qty)
			item, err := s.productRepo.FindItemByIDTx(tx, comp.ItemID)
			if err != nil {
				return err
			}
			// Re-check inside the transaction: a concurrent order may have
			// consumed the stock between preflight and commit.
			if item.Stock.LessThan(needed) {
				return apierror.NewDomain(apierror.KindStockShortage,
					fmt.Sprintf("not enough %s: need %s, have %s",
						item.Name, needed.String(), item.Stock.String()))
			}
			if err := s.productRepo.AdjustStockTx(tx, comp.ItemID, needed.Neg()); err != nil {
				return err
			}
			ref := order.ID
			mov := &model.StockMovement{
				ItemID:      comp.ItemID,
				Type:        "order",
				Quantity:    needed.Neg(),
				StockBefore: item.Stock,
				StockAfter:  item.Stock.Sub(needed),
				Reason:      fmt.Sprintf("order %s x%d", product.Name, req.Quantity),
				ReferenceID: &ref,
			}
			if err := s.productRepo.CreateMovementTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteOrder removes an order from an open session and restores the stock it
// consumed.
func (s *sessionService) DeleteOrder(ctx context.Context, sessionID, orderID uuid.UUID) error {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "session not found")
	}
	var order *model.SessionOrder
	for i := range session.Orders {
		if session.Orders[i].ID == orderID {
			order = &session.Orders[i]
			break
		}
	}
	if order == nil {
		return apierror.NewDomain(apierror.KindNotFound, "order not found")
	}

	product, err := s.productRepo.FindProductByID(ctx, order.ProductID)
	if err != nil {
		// Product deleted since ordering: drop the line without restock.
		return s.repo.DeleteOrder(ctx, sessionID, orderID)
	}

	qty := decimal.NewFromInt(int64(order.Quantity))
	return runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			return s.repo.DeleteOrder(ctx, sessionID, orderID)
		}
		res := tx.Where("id = ? AND session_id = ?", orderID, sessionID).Delete(&model.SessionOrder{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		for _, comp := range product.Components {
			restored := comp.Quantity.Mul(qty)
			item, err := s.productRepo.FindItemByIDTx(tx, comp.ItemID)
			if err != nil {
				continue
			}
			if err := s.productRepo.AdjustStockTx(tx, comp.ItemID, restored); err != nil {
				return err
			}
			ref := orderID
			mov := &model.StockMovement{
				ItemID:      comp.ItemID,
				Type:        "restore",
				Quantity:    restored,
				StockBefore: item.Stock,
				StockAfter:  item.Stock.Add(restored),
				Reason:      fmt.Sprintf("order removed: %s x%d", order.ProductName, order.Quantity),
				ReferenceID: &ref,
			}
			if err := s.productRepo.CreateMovementTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
}

// ── Checkout ─────────────────────────────────────────────────────────────────
// Converts the session into an immutable record:
//
//  1. period-lock guard on the end timestamp, open-cycle guard
//  2. bill the stay into rate segments
//  3. assemble the invoice (orders, discount, profit figures)
//  4. reconcile the payment against the customer's standing balances
//  5. persist record + ledger entries + customer balances, delete the session
//
// Steps 1-4 are pure preflight; nothing is written until step 5's transaction.

func (s *sessionService) Checkout(ctx context.Context, actor Actor, sessionID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "session not found")
	}

	endedAt, err := parseTimePtr(req.EndedAt, time.Now())
	if err != nil {
		return nil, err
	}
	if endedAt.Before(session.StartedAt) {
		return nil, apierror.NewDomain(apierror.KindValidation, "checkout precedes session start")
	}
	if err := assertPeriodOpen(ctx, s.periodRepo, endedAt); err != nil {
		return nil, err
	}
	if err := assertCycleOpen(ctx, s.periodRepo); err != nil {
		return nil, err
	}

	if req.PaidCash.IsNegative() || req.PaidBank.IsNegative() {
		return nil, apierror.NewDomain(apierror.KindValidation, "payment amounts cannot be negative")
	}
	bankAccountID, err := parseUUIDPtr(req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if req.PaidBank.IsPositive() && bankAccountID == nil {
		return nil, apierror.NewDomain(apierror.KindValidation, "bank payment requires bank_account_id")
	}

	rates, err := s.rateSnapshot(ctx, session)
	if err != nil {
		return nil, err
	}

	orders := make([]engine.OrderLine, 0, len(session.Orders))
	for _, o := range session.Orders {
		orders = append(orders, engine.OrderLine{
			ProductID:   o.ProductID,
			ProductName: o.ProductName,
			Category:    o.Category,
			Quantity:    o.Quantity,
			UnitPrice:   o.UnitPrice,
			UnitCost:    o.UnitCost,
		})
	}

	disc := engine.Discount{Type: engine.DiscountNone}
	if req.DiscountType != "" {
		disc = engine.Discount{Type: req.DiscountType, Value: req.DiscountValue}
	}

	inv := engine.ComputeInvoice(
		session.StartedAt, endedAt,
		session.DeviceID, session.DeviceChanges,
		rates, orders, disc, s.cfg.DevCut(),
	)

	// Customer standing balances (walk-ins settle from zero)
	startCredit, startDebt := decimal.Zero, decimal.Zero
	var customer *model.Customer
	if session.CustomerID != nil {
		customer, err = s.customerRepo.FindByID(ctx, *session.CustomerID)
		if err != nil {
			return nil, apierror.NewDomain(apierror.KindNotFound, "customer not found")
		}
		startCredit, startDebt = customer.CreditBalance, customer.DebtBalance
	}

	paid := req.PaidCash.Add(req.PaidBank)
	rec := engine.Reconcile(inv.TotalInvoice, paid, startCredit, startDebt)

	if customer == nil && rec.CreatedDebt.IsPositive() {
		return nil, apierror.NewDomain(apierror.KindValidation,
			"walk-in checkout must be fully paid; register the customer to allow debt")
	}

	// A walk-in has no wallet, so an overpayment goes back over the counter
	// as cash change. Only the retained cash reaches the record and the ledger.
	changeDue := decimal.Zero
	if customer == nil && rec.CreatedCredit.IsPositive() {
		changeDue = rec.CreatedCredit
		if changeDue.GreaterThan(req.PaidCash) {
			return nil, apierror.NewDomain(apierror.KindValidation,
				"change due exceeds cash tendered; lower the bank amount instead")
		}
		req.PaidCash = req.PaidCash.Sub(changeDue)
		rec.CreatedCredit = decimal.Zero
		rec.FinalCredit = decimal.Zero
	}

	record := buildRecord(session, endedAt, inv, rec, req, actor)

	err = runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.recordRepo.CreateTx(tx, record); err != nil {
			return err
		}
		recordRef := record.ID

		if req.PaidCash.IsPositive() {
			entry := model.LedgerEntry{
				Amount: req.PaidCash, Direction: model.DirectionIn,
				Channel: model.ChannelCash, Type: model.EntryRevenue,
				OccurredAt: endedAt, CustomerID: session.CustomerID, ParentID: &recordRef,
				Description:   fmt.Sprintf("checkout %s", session.CustomerName),
				PerformedByID: actor.ID, PerformedByName: actor.Name,
			}
			if err := s.ledgerRepo.CreateTx(tx, &entry); err != nil {
				return err
			}
		}
		if req.PaidBank.IsPositive() {
			entry := model.LedgerEntry{
				Amount: req.PaidBank, Direction: model.DirectionIn,
				Channel: model.ChannelBank, Type: model.EntryRevenue,
				OccurredAt: endedAt, AccountID: bankAccountID,
				CustomerID: session.CustomerID, ParentID: &recordRef,
				Description:   fmt.Sprintf("checkout %s", session.CustomerName),
				PerformedByID: actor.ID, PerformedByName: actor.Name,
			}
			if err := s.ledgerRepo.CreateTx(tx, &entry); err != nil {
				return err
			}
		}
		if rec.CreatedDebt.IsPositive() {
			entry := model.LedgerEntry{
				Amount: rec.CreatedDebt, Direction: model.DirectionIn,
				Channel: model.ChannelReceivable, Type: model.EntryRevenue,
				OccurredAt: endedAt, CustomerID: session.CustomerID, ParentID: &recordRef,
				Description:   fmt.Sprintf("debt from checkout %s", session.CustomerName),
				PerformedByID: actor.ID, PerformedByName: actor.Name,
			}
			if err := s.ledgerRepo.CreateTx(tx, &entry); err != nil {
				return err
			}
		}

		if customer != nil {
			if err := s.customerRepo.UpdateBalancesTx(tx, customer.ID, rec.FinalCredit, rec.FinalDebt); err != nil {
				return err
			}
		}

		return s.repo.DeleteTx(tx, sessionID)
	})
	if err != nil {
		return nil, err
	}

	return checkoutResponse(record, inv, rec, changeDue), nil
}

// rateSnapshot collects current pricing for the initial device and every
// device the session switched to.
func (s *sessionService) rateSnapshot(ctx context.Context, session *model.Session) (map[uuid.UUID]engine.DeviceRate, error) {
	ids := map[uuid.UUID]bool{session.DeviceID: true}
	for _, c := range session.DeviceChanges {
		ids[c.FromDeviceID] = true
		ids[c.ToDeviceID] = true
	}
	rates := make(map[uuid.UUID]engine.DeviceRate, len(ids))
	for id := range ids {
		d, err := s.deviceRepo.FindByID(ctx, id)
		if err != nil {
			return nil, apierror.NewDomain(apierror.KindIntegrity,
				fmt.Sprintf("session references unknown device %s", id))
		}
		rates[id] = engine.DeviceRate{
			DeviceName:      d.Name,
			HourlyRate:      d.HourlyRate,
			HourlyPlaceCost: d.HourlyPlaceCost,
		}
	}
	return rates, nil
}

func buildRecord(session *model.Session, endedAt time.Time, inv engine.Invoice, rec engine.Reconciliation, req dto.CheckoutRequest, actor Actor) *model.Record {
	record := &model.Record{
		CustomerID:   session.CustomerID,
		CustomerName: session.CustomerName,
		StartedAt:    session.StartedAt,
		EndedAt:      endedAt,

		TimeCost:       inv.Bill.TimeCost,
		PlaceCost:      inv.Bill.PlaceCost,
		DrinkInvoice:   inv.DrinkInvoice,
		DrinkCost:      inv.DrinkCost,
		CardInvoice:    inv.CardInvoice,
		CardCost:       inv.CardCost,
		RawTotal:       inv.RawTotal,
		DiscountType:   inv.Discount.Type,
		DiscountValue:  inv.Discount.Value,
		DiscountAmount: inv.DiscountAmount,
		TotalInvoice:   inv.TotalInvoice,
		GrossProfit:    inv.GrossProfit,
		DevCut:         inv.DevCut,
		NetProfit:      inv.NetProfit,

		PaidCash:    req.PaidCash,
		PaidBank:    req.PaidBank,
		CreditUsed:  rec.AppliedCredit,
		DebtCreated: rec.CreatedDebt,

		CreatedByID:   actor.ID,
		CreatedByName: actor.Name,
	}
	if record.DiscountType == "" {
		record.DiscountType = engine.DiscountNone
	}

	for _, seg := range inv.Bill.Segments {
		record.Segments = append(record.Segments, model.RecordSegment{
			DeviceID:        seg.DeviceID,
			DeviceName:      seg.DeviceName,
			StartedAt:       seg.Start,
			EndedAt:         seg.End,
			Minutes:         seg.Minutes,
			HourlyRate:      seg.HourlyRate,
			HourlyPlaceCost: seg.HourlyPlaceCost,
			Cost:            seg.Cost,
			PlaceCost:       seg.PlaceCost,
		})
	}
	for _, o := range session.Orders {
		record.Orders = append(record.Orders, model.RecordOrder{
			ProductID:   o.ProductID,
			ProductName: o.ProductName,
			Category:    o.Category,
			Quantity:    o.Quantity,
			UnitPrice:   o.UnitPrice,
			UnitCost:    o.UnitCost,
		})
	}
	return record
}

func checkoutResponse(record *model.Record, inv engine.Invoice, rec engine.Reconciliation, changeDue decimal.Decimal) *dto.CheckoutResponse {
	resp := &dto.CheckoutResponse{
		RecordID:       record.ID.String(),
		ChangeDue:      changeDue,
		TimeCost:       inv.Bill.TimeCost,
		DrinkInvoice:   inv.DrinkInvoice,
		CardInvoice:    inv.CardInvoice,
		RawTotal:       inv.RawTotal,
		DiscountAmount: inv.DiscountAmount,
		TotalInvoice:   inv.TotalInvoice,
		Reconciliation: dto.ReconciliationResponse{
			AppliedCredit:  rec.AppliedCredit,
			DueAfterCredit: rec.DueAfterCredit,
			CreatedCredit:  rec.CreatedCredit,
			CreatedDebt:    rec.CreatedDebt,
			SettledDebt:    rec.SettledDebt,
			FinalCredit:    rec.FinalCredit,
			FinalDebt:      rec.FinalDebt,
			IsFullyPaid:    rec.IsFullyPaid,
		},
	}
	for _, seg := range inv.Bill.Segments {
		resp.Segments = append(resp.Segments, dto.SegmentResponse{
			DeviceName: seg.DeviceName,
			StartedAt:  seg.Start.Format(time.RFC3339),
			EndedAt:    seg.End.Format(time.RFC3339),
			Minutes:    seg.Minutes,
			HourlyRate: seg.HourlyRate,
			Cost:       seg.Cost,
		})
	}
	return resp
}

func sessionToResponse(s *model.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:            s.ID.String(),
		CustomerName:  s.CustomerName,
		DeviceID:      s.DeviceID.String(),
		StartedAt:     s.StartedAt.Format(time.RFC3339),
		DeviceChanges: len(s.DeviceChanges),
	}
	for _, o := range s.Orders {
		resp.Orders = append(resp.Orders, dto.SessionOrderResponse{
			ID:          o.ID.String(),
			ProductName: o.ProductName,
			Category:    o.Category,
			Quantity:    o.Quantity,
			UnitPrice:   o.UnitPrice,
		})
	}
	return resp
}
