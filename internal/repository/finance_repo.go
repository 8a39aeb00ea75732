package repository

import (
	"context"
	"time"

	"timecafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinanceRepository interface {
	CreateExpenseTx(tx *gorm.DB, e *model.Expense) error
	ListExpenses(ctx context.Context, from, to *time.Time) ([]model.Expense, error)
	FindExpenseByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	DeleteExpenseTx(tx *gorm.DB, id uuid.UUID) error

	CreatePurchaseTx(tx *gorm.DB, p *model.Purchase) error
	ListPurchases(ctx context.Context, from, to *time.Time) ([]model.Purchase, error)
	FindPurchaseByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	DeletePurchaseTx(tx *gorm.DB, id uuid.UUID) error

	CreateLoanTx(tx *gorm.DB, l *model.Loan) error
	FindLoanByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	ListLoans(ctx context.Context) ([]model.Loan, error)
	SaveLoanTx(tx *gorm.DB, l *model.Loan) error

	CreateTransferTx(tx *gorm.DB, t *model.Transfer) error
	ListTransfers(ctx context.Context) ([]model.Transfer, error)
	DeleteTransferTx(tx *gorm.DB, id uuid.UUID) error

	CreatePartnerDebtTx(tx *gorm.DB, d *model.PartnerDebt) error
	ListPartnerDebts(ctx context.Context) ([]model.PartnerDebt, error)
	FindPartnerDebtByID(ctx context.Context, id uuid.UUID) (*model.PartnerDebt, error)
	SavePartnerDebtTx(tx *gorm.DB, d *model.PartnerDebt) error

	CreateBankAccount(ctx context.Context, a *model.BankAccount) error
	ListBankAccounts(ctx context.Context) ([]model.BankAccount, error)
	FindBankAccountByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error)
	UpdateBankAccount(ctx context.Context, a *model.BankAccount) error

	PurgeTransactionalTx(tx *gorm.DB) error
}

type financeRepo struct{ db *gorm.DB }

func NewFinanceRepository(db *gorm.DB) FinanceRepository { return &financeRepo{db: db} }

// ── Expenses ──

func (r *financeRepo) CreateExpenseTx(tx *gorm.DB, e *model.Expense) error {
	return tx.Create(e).Error
}

func (r *financeRepo) ListExpenses(ctx context.Context, from, to *time.Time) ([]model.Expense, error) {
	q := r.db.WithContext(ctx).Order("spent_at DESC")
	if from != nil {
		q = q.Where("spent_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("spent_at < ?", *to)
	}
	var expenses []model.Expense
	err := q.Find(&expenses).Error
	return expenses, err
}

func (r *financeRepo) FindExpenseByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *financeRepo) DeleteExpenseTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Expense{}, id).Error
}

// ── Purchases ──

func (r *financeRepo) CreatePurchaseTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Create(p).Error
}

func (r *financeRepo) ListPurchases(ctx context.Context, from, to *time.Time) ([]model.Purchase, error) {
	q := r.db.WithContext(ctx).Order("purchased_at DESC")
	if from != nil {
		q = q.Where("purchased_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("purchased_at < ?", *to)
	}
	var purchases []model.Purchase
	err := q.Find(&purchases).Error
	return purchases, err
}

func (r *financeRepo) FindPurchaseByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *financeRepo) DeletePurchaseTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Purchase{}, id).Error
}

// ── Loans ──

func (r *financeRepo) CreateLoanTx(tx *gorm.DB, l *model.Loan) error {
	return tx.Create(l).Error
}

func (r *financeRepo) FindLoanByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	var l model.Loan
	err := r.db.WithContext(ctx).First(&l, id).Error
	return &l, err
}

func (r *financeRepo) ListLoans(ctx context.Context) ([]model.Loan, error) {
	var loans []model.Loan
	err := r.db.WithContext(ctx).Order("received_at DESC").Find(&loans).Error
	return loans, err
}

func (r *financeRepo) SaveLoanTx(tx *gorm.DB, l *model.Loan) error {
	return tx.Save(l).Error
}

// ── Transfers ──

func (r *financeRepo) CreateTransferTx(tx *gorm.DB, t *model.Transfer) error {
	return tx.Create(t).Error
}

func (r *financeRepo) ListTransfers(ctx context.Context) ([]model.Transfer, error) {
	var transfers []model.Transfer
	err := r.db.WithContext(ctx).Order("moved_at DESC").Find(&transfers).Error
	return transfers, err
}

func (r *financeRepo) DeleteTransferTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Transfer{}, id).Error
}

// ── Partner debts ──

func (r *financeRepo) CreatePartnerDebtTx(tx *gorm.DB, d *model.PartnerDebt) error {
	return tx.Create(d).Error
}

func (r *financeRepo) ListPartnerDebts(ctx context.Context) ([]model.PartnerDebt, error) {
	var debts []model.PartnerDebt
	err := r.db.WithContext(ctx).Order("withdrawn_at DESC").Find(&debts).Error
	return debts, err
}

func (r *financeRepo) FindPartnerDebtByID(ctx context.Context, id uuid.UUID) (*model.PartnerDebt, error) {
	var d model.PartnerDebt
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *financeRepo) SavePartnerDebtTx(tx *gorm.DB, d *model.PartnerDebt) error {
	return tx.Save(d).Error
}

// ── Bank accounts ──

func (r *financeRepo) CreateBankAccount(ctx context.Context, a *model.BankAccount) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *financeRepo) ListBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	var accounts []model.BankAccount
	err := r.db.WithContext(ctx).Order("name ASC").Find(&accounts).Error
	return accounts, err
}

func (r *financeRepo) FindBankAccountByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	var a model.BankAccount
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *financeRepo) UpdateBankAccount(ctx context.Context, a *model.BankAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// PurgeTransactionalTx wipes the operational history as part of the
// irreversible period reset. Catalog, users and bank accounts survive.
func (r *financeRepo) PurgeTransactionalTx(tx *gorm.DB) error {
	for _, m := range []interface{}{
		&model.Expense{}, &model.Purchase{}, &model.Loan{},
		&model.Transfer{}, &model.PartnerDebt{}, &model.StockMovement{},
	} {
		if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
