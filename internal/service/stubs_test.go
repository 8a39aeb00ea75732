package service

import (
	"context"
	"errors"
	"time"

	"timecafe/internal/model"
	"timecafe/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Services run their transactions through
// runTx with a nil *gorm.DB, so every Tx variant simply ignores tx.

var errNotFound = errors.New("not found")

// ── Ledger ────────────────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	entries []model.LedgerEntry
	purged  bool
}

func newStubLedgerRepo() *stubLedgerRepo { return &stubLedgerRepo{} }

func (r *stubLedgerRepo) DB() *gorm.DB { return nil }

func (r *stubLedgerRepo) Create(_ context.Context, e *model.LedgerEntry) error {
	return r.CreateTx(nil, e)
}

func (r *stubLedgerRepo) CreateTx(_ *gorm.DB, e *model.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			e := r.entries[i]
			return &e, nil
		}
	}
	return nil, errNotFound
}

func (r *stubLedgerRepo) ListAll(_ context.Context) ([]model.LedgerEntry, error) {
	out := make([]model.LedgerEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *stubLedgerRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if !e.OccurredAt.Before(from) && e.OccurredAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) ListByParent(_ context.Context, parentID uuid.UUID) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if e.ParentID != nil && *e.ParentID == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *stubLedgerRepo) Save(_ context.Context, e *model.LedgerEntry) error {
	for i := range r.entries {
		if r.entries[i].ID == e.ID {
			r.entries[i] = *e
			return nil
		}
	}
	return errNotFound
}

func (r *stubLedgerRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubLedgerRepo) DeleteByParentTx(_ *gorm.DB, parentID uuid.UUID) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.ParentID == nil || *e.ParentID != parentID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *stubLedgerRepo) DeleteAllTx(_ *gorm.DB) error {
	r.entries = nil
	r.purged = true
	return nil
}

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// ── Period / cycles / plans / snapshots ──────────────────────────────────────

type stubPeriodRepo struct {
	lock      *model.PeriodLock
	cycles    []*model.DayCycle
	plans     []*model.SavingPlan
	snapshots []*model.PeriodSnapshot
}

func newStubPeriodRepo() *stubPeriodRepo { return &stubPeriodRepo{} }

func (r *stubPeriodRepo) ActiveLock(_ context.Context) (*model.PeriodLock, error) {
	if r.lock != nil && r.lock.Active {
		return r.lock, nil
	}
	return nil, nil
}

func (r *stubPeriodRepo) InstallLockTx(_ *gorm.DB, lock *model.PeriodLock) error {
	if lock.ID == uuid.Nil {
		lock.ID = uuid.New()
	}
	r.lock = lock
	return nil
}

func (r *stubPeriodRepo) OpenCycle(_ context.Context) (*model.DayCycle, error) {
	for _, c := range r.cycles {
		if c.Status == model.CycleOpen {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubPeriodRepo) CreateCycle(_ context.Context, c *model.DayCycle) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cycles = append(r.cycles, c)
	return nil
}

func (r *stubPeriodRepo) SaveCycle(_ context.Context, c *model.DayCycle) error {
	for i := range r.cycles {
		if r.cycles[i].ID == c.ID {
			r.cycles[i] = c
			return nil
		}
	}
	return errNotFound
}

func (r *stubPeriodRepo) ListCycles(_ context.Context, limit int) ([]model.DayCycle, error) {
	out := make([]model.DayCycle, 0, len(r.cycles))
	for _, c := range r.cycles {
		out = append(out, *c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubPeriodRepo) CreatePlan(_ context.Context, p *model.SavingPlan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.plans = append(r.plans, p)
	return nil
}

func (r *stubPeriodRepo) FindPlanByID(_ context.Context, id uuid.UUID) (*model.SavingPlan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r *stubPeriodRepo) ListPlans(_ context.Context, onlyActive bool) ([]model.SavingPlan, error) {
	var out []model.SavingPlan
	for _, p := range r.plans {
		if onlyActive && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPeriodRepo) SavePlan(_ context.Context, p *model.SavingPlan) error {
	return r.SavePlanTx(nil, p)
}

func (r *stubPeriodRepo) SavePlanTx(_ *gorm.DB, p *model.SavingPlan) error {
	for i := range r.plans {
		if r.plans[i].ID == p.ID {
			cp := *p
			r.plans[i] = &cp
			return nil
		}
	}
	return errNotFound
}

func (r *stubPeriodRepo) CreateSnapshotTx(_ *gorm.DB, s *model.PeriodSnapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.snapshots = append(r.snapshots, s)
	return nil
}

func (r *stubPeriodRepo) FindSnapshotByID(_ context.Context, id uuid.UUID) (*model.PeriodSnapshot, error) {
	for _, s := range r.snapshots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errNotFound
}

func (r *stubPeriodRepo) ListSnapshots(_ context.Context) ([]model.PeriodSnapshot, error) {
	out := make([]model.PeriodSnapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		out = append(out, *s)
	}
	return out, nil
}

var _ repository.PeriodRepository = (*stubPeriodRepo)(nil)

// ── Customers ────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	zeroed    bool
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) List(_ context.Context, includeInactive bool) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if !includeInactive && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return errNotFound
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) UpdateBalancesTx(_ *gorm.DB, id uuid.UUID, credit, debt decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return errNotFound
	}
	c.CreditBalance = credit
	c.DebtBalance = debt
	return nil
}

func (r *stubCustomerRepo) ZeroAllBalancesTx(_ *gorm.DB) error {
	for _, c := range r.customers {
		c.CreditBalance = decimal.Zero
		c.DebtBalance = decimal.Zero
	}
	r.zeroed = true
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Sessions ─────────────────────────────────────────────────────────────────

type stubSessionRepo struct {
	sessions map[uuid.UUID]*model.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[uuid.UUID]*model.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *model.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubSessionRepo) ListActive(_ context.Context) ([]model.Session, error) {
	var out []model.Session
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSessionRepo) CountActive(_ context.Context) (int64, error) {
	return int64(len(r.sessions)), nil
}

func (r *stubSessionRepo) AddOrder(_ context.Context, o *model.SessionOrder) error {
	s, ok := r.sessions[o.SessionID]
	if !ok {
		return errNotFound
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	s.Orders = append(s.Orders, *o)
	return nil
}

func (r *stubSessionRepo) DeleteOrder(_ context.Context, sessionID, orderID uuid.UUID) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return errNotFound
	}
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders = append(s.Orders[:i], s.Orders[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubSessionRepo) AddDeviceChange(_ context.Context, c *model.SessionDeviceChange) error {
	s, ok := r.sessions[c.SessionID]
	if !ok {
		return errNotFound
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.DeviceChanges = append(s.DeviceChanges, *c)
	return nil
}

func (r *stubSessionRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.sessions[id]; !ok {
		return errNotFound
	}
	delete(r.sessions, id)
	return nil
}

var _ repository.SessionRepository = (*stubSessionRepo)(nil)

// ── Devices ──────────────────────────────────────────────────────────────────

type stubDeviceRepo struct {
	devices map[uuid.UUID]*model.Device
}

func newStubDeviceRepo() *stubDeviceRepo {
	return &stubDeviceRepo{devices: make(map[uuid.UUID]*model.Device)}
}

func (r *stubDeviceRepo) Create(_ context.Context, d *model.Device) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.devices[d.ID] = d
	return nil
}

func (r *stubDeviceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Device, error) {
	d, ok := r.devices[id]
	if !ok {
		return nil, errNotFound
	}
	return d, nil
}

func (r *stubDeviceRepo) List(_ context.Context, includeInactive bool) ([]model.Device, error) {
	var out []model.Device
	for _, d := range r.devices {
		if !includeInactive && !d.Active {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubDeviceRepo) Update(_ context.Context, d *model.Device) error {
	if _, ok := r.devices[d.ID]; !ok {
		return errNotFound
	}
	r.devices[d.ID] = d
	return nil
}

var _ repository.DeviceRepository = (*stubDeviceRepo)(nil)

// ── Products / inventory ─────────────────────────────────────────────────────

type stubProductRepo struct {
	products  map[uuid.UUID]*model.Product
	items     map[uuid.UUID]*model.InventoryItem
	movements []model.StockMovement
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		items:    make(map[uuid.UUID]*model.InventoryItem),
	}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) CreateProduct(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindProductByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProductRepo) ListProducts(_ context.Context, includeInactive bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) UpdateProduct(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return errNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) CreateItem(_ context.Context, it *model.InventoryItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	r.items[it.ID] = it
	return nil
}

func (r *stubProductRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubProductRepo) FindItemByIDTx(_ *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	return r.FindItemByID(context.Background(), id)
}

func (r *stubProductRepo) ListItems(_ context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, nil
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, itemID uuid.UUID, delta decimal.Decimal) error {
	it, ok := r.items[itemID]
	if !ok {
		return errNotFound
	}
	it.Stock = it.Stock.Add(delta)
	return nil
}

func (r *stubProductRepo) CreateMovementTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubProductRepo) ListMovements(_ context.Context, itemID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Records ──────────────────────────────────────────────────────────────────

type stubRecordRepo struct {
	records []*model.Record
	purged  bool
}

func newStubRecordRepo() *stubRecordRepo { return &stubRecordRepo{} }

func (r *stubRecordRepo) CreateTx(_ *gorm.DB, rec *model.Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *stubRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			cp.Segments = append([]model.RecordSegment(nil), rec.Segments...)
			cp.Orders = append([]model.RecordOrder(nil), rec.Orders...)
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubRecordRepo) List(_ context.Context, from, to *time.Time) ([]model.Record, error) {
	var out []model.Record
	for _, rec := range r.records {
		if from != nil && rec.EndedAt.Before(*from) {
			continue
		}
		if to != nil && rec.EndedAt.After(*to) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *stubRecordRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.Record, error) {
	return r.List(context.Background(), &from, &to)
}

func (r *stubRecordRepo) SaveTx(_ *gorm.DB, rec *model.Record) error {
	for i := range r.records {
		if r.records[i].ID == rec.ID {
			r.records[i] = rec
			return nil
		}
	}
	return errNotFound
}

func (r *stubRecordRepo) DeleteOrderTx(_ *gorm.DB, recordID, orderID uuid.UUID) error {
	for _, rec := range r.records {
		if rec.ID != recordID {
			continue
		}
		for i := range rec.Orders {
			if rec.Orders[i].ID == orderID {
				rec.Orders = append(rec.Orders[:i], rec.Orders[i+1:]...)
				return nil
			}
		}
	}
	return errNotFound
}

func (r *stubRecordRepo) AddOrderTx(_ *gorm.DB, o *model.RecordOrder) error {
	for _, rec := range r.records {
		if rec.ID == o.RecordID {
			if o.ID == uuid.Nil {
				o.ID = uuid.New()
			}
			rec.Orders = append(rec.Orders, *o)
			return nil
		}
	}
	return errNotFound
}

func (r *stubRecordRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	for i := range r.records {
		if r.records[i].ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubRecordRepo) DeleteAllTx(_ *gorm.DB) error {
	r.records = nil
	r.purged = true
	return nil
}

var _ repository.RecordRepository = (*stubRecordRepo)(nil)

// ── Finance ──────────────────────────────────────────────────────────────────

type stubFinanceRepo struct {
	expenses     []*model.Expense
	purchases    []*model.Purchase
	loans        []*model.Loan
	transfers    []*model.Transfer
	partnerDebts []*model.PartnerDebt
	accounts     []*model.BankAccount
	purged       bool
}

func newStubFinanceRepo() *stubFinanceRepo { return &stubFinanceRepo{} }

func (r *stubFinanceRepo) CreateExpenseTx(_ *gorm.DB, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.expenses = append(r.expenses, e)
	return nil
}

func (r *stubFinanceRepo) ListExpenses(_ context.Context, _, _ *time.Time) ([]model.Expense, error) {
	out := make([]model.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubFinanceRepo) FindExpenseByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	for _, e := range r.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errNotFound
}

func (r *stubFinanceRepo) DeleteExpenseTx(_ *gorm.DB, id uuid.UUID) error {
	for i := range r.expenses {
		if r.expenses[i].ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubFinanceRepo) CreatePurchaseTx(_ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.purchases = append(r.purchases, p)
	return nil
}

func (r *stubFinanceRepo) ListPurchases(_ context.Context, _, _ *time.Time) ([]model.Purchase, error) {
	out := make([]model.Purchase, 0, len(r.purchases))
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubFinanceRepo) FindPurchaseByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	for _, p := range r.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r *stubFinanceRepo) DeletePurchaseTx(_ *gorm.DB, id uuid.UUID) error {
	for i := range r.purchases {
		if r.purchases[i].ID == id {
			r.purchases = append(r.purchases[:i], r.purchases[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubFinanceRepo) CreateLoanTx(_ *gorm.DB, l *model.Loan) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.loans = append(r.loans, l)
	return nil
}

func (r *stubFinanceRepo) FindLoanByID(_ context.Context, id uuid.UUID) (*model.Loan, error) {
	for _, l := range r.loans {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errNotFound
}

func (r *stubFinanceRepo) ListLoans(_ context.Context) ([]model.Loan, error) {
	out := make([]model.Loan, 0, len(r.loans))
	for _, l := range r.loans {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubFinanceRepo) SaveLoanTx(_ *gorm.DB, l *model.Loan) error {
	for i := range r.loans {
		if r.loans[i].ID == l.ID {
			r.loans[i] = l
			return nil
		}
	}
	return errNotFound
}

func (r *stubFinanceRepo) CreateTransferTx(_ *gorm.DB, t *model.Transfer) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.transfers = append(r.transfers, t)
	return nil
}

func (r *stubFinanceRepo) ListTransfers(_ context.Context) ([]model.Transfer, error) {
	out := make([]model.Transfer, 0, len(r.transfers))
	for _, t := range r.transfers {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubFinanceRepo) DeleteTransferTx(_ *gorm.DB, id uuid.UUID) error {
	for i := range r.transfers {
		if r.transfers[i].ID == id {
			r.transfers = append(r.transfers[:i], r.transfers[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubFinanceRepo) CreatePartnerDebtTx(_ *gorm.DB, d *model.PartnerDebt) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.partnerDebts = append(r.partnerDebts, d)
	return nil
}

func (r *stubFinanceRepo) ListPartnerDebts(_ context.Context) ([]model.PartnerDebt, error) {
	out := make([]model.PartnerDebt, 0, len(r.partnerDebts))
	for _, d := range r.partnerDebts {
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubFinanceRepo) FindPartnerDebtByID(_ context.Context, id uuid.UUID) (*model.PartnerDebt, error) {
	for _, d := range r.partnerDebts {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, errNotFound
}

func (r *stubFinanceRepo) SavePartnerDebtTx(_ *gorm.DB, d *model.PartnerDebt) error {
	for i := range r.partnerDebts {
		if r.partnerDebts[i].ID == d.ID {
			r.partnerDebts[i] = d
			return nil
		}
	}
	return errNotFound
}

func (r *stubFinanceRepo) CreateBankAccount(_ context.Context, a *model.BankAccount) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.accounts = append(r.accounts, a)
	return nil
}

func (r *stubFinanceRepo) ListBankAccounts(_ context.Context) ([]model.BankAccount, error) {
	out := make([]model.BankAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubFinanceRepo) FindBankAccountByID(_ context.Context, id uuid.UUID) (*model.BankAccount, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errNotFound
}

func (r *stubFinanceRepo) UpdateBankAccount(_ context.Context, a *model.BankAccount) error {
	for i := range r.accounts {
		if r.accounts[i].ID == a.ID {
			r.accounts[i] = a
			return nil
		}
	}
	return errNotFound
}

func (r *stubFinanceRepo) PurgeTransactionalTx(_ *gorm.DB) error {
	r.expenses = nil
	r.purchases = nil
	r.loans = nil
	r.transfers = nil
	r.partnerDebts = nil
	r.purged = true
	return nil
}

var _ repository.FinanceRepository = (*stubFinanceRepo)(nil)

// testActor is the operator used across service tests.
var testActor = Actor{ID: uuid.New(), Name: "Tester"}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
