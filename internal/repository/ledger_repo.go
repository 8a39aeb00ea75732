package repository

import (
	"context"
	"time"

	"timecafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, e *model.LedgerEntry) error
	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error)
	// ListAll returns the full history. Balances are always derived from the
	// complete entry set, never from a stored running total.
	ListAll(ctx context.Context) ([]model.LedgerEntry, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.LedgerEntry, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]model.LedgerEntry, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, e *model.LedgerEntry) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeleteByParentTx(tx *gorm.DB, parentID uuid.UUID) error
	DeleteAllTx(tx *gorm.DB) error
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) DB() *gorm.DB { return r.db }

func (r *ledgerRepo) Create(ctx context.Context, e *model.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Create(e).Error
}

func (r *ledgerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *ledgerRepo) ListAll(ctx context.Context) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).Order("occurred_at DESC, created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Order("occurred_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) ListByParent(ctx context.Context, parentID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).Count(&n).Error
	return n, err
}

func (r *ledgerRepo) Save(ctx context.Context, e *model.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *ledgerRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.LedgerEntry{}, id).Error
}

func (r *ledgerRepo) DeleteByParentTx(tx *gorm.DB, parentID uuid.UUID) error {
	return tx.Where("parent_id = ?", parentID).Delete(&model.LedgerEntry{}).Error
}

func (r *ledgerRepo) DeleteAllTx(tx *gorm.DB) error {
	return tx.Where("1 = 1").Delete(&model.LedgerEntry{}).Error
}
