package repository

import (
	"context"

	"timecafe/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, includeInactive bool) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	UpdateBalancesTx(tx *gorm.DB, id uuid.UUID, credit, debt decimal.Decimal) error
	// ZeroAllBalances resets every customer to zero credit/debt — only the
	// irreversible "apply to ground" reset calls this.
	ZeroAllBalancesTx(tx *gorm.DB) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) List(ctx context.Context, includeInactive bool) ([]model.Customer, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	var customers []model.Customer
	err := q.Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) UpdateBalancesTx(tx *gorm.DB, id uuid.UUID, credit, debt decimal.Decimal) error {
	return tx.Model(&model.Customer{}).Where("id = ?", id).
		Updates(map[string]interface{}{"credit_balance": credit, "debt_balance": debt}).Error
}

func (r *customerRepo) ZeroAllBalancesTx(tx *gorm.DB) error {
	return tx.Model(&model.Customer{}).Where("1 = 1").
		Updates(map[string]interface{}{"credit_balance": decimal.Zero, "debt_balance": decimal.Zero}).Error
}
