package repository

import (
	"context"
	"time"

	"timecafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecordRepository interface {
	CreateTx(tx *gorm.DB, rec *model.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Record, error)
	List(ctx context.Context, from, to *time.Time) ([]model.Record, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Record, error)
	SaveTx(tx *gorm.DB, rec *model.Record) error
	DeleteOrderTx(tx *gorm.DB, recordID, orderID uuid.UUID) error
	AddOrderTx(tx *gorm.DB, o *model.RecordOrder) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DeleteAllTx(tx *gorm.DB) error
}

type recordRepo struct{ db *gorm.DB }

func NewRecordRepository(db *gorm.DB) RecordRepository { return &recordRepo{db: db} }

func (r *recordRepo) CreateTx(tx *gorm.DB, rec *model.Record) error {
	return tx.Create(rec).Error
}

func (r *recordRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Record, error) {
	var rec model.Record
	err := r.db.WithContext(ctx).
		Preload("Segments").
		Preload("Orders").
		First(&rec, id).Error
	return &rec, err
}

func (r *recordRepo) List(ctx context.Context, from, to *time.Time) ([]model.Record, error) {
	q := r.db.WithContext(ctx).Preload("Orders").Order("ended_at DESC")
	if from != nil {
		q = q.Where("ended_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("ended_at < ?", *to)
	}
	var records []model.Record
	err := q.Find(&records).Error
	return records, err
}

func (r *recordRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Record, error) {
	var records []model.Record
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Where("ended_at >= ? AND ended_at < ?", from, to).
		Order("ended_at ASC").
		Find(&records).Error
	return records, err
}

func (r *recordRepo) SaveTx(tx *gorm.DB, rec *model.Record) error {
	return tx.Save(rec).Error
}

func (r *recordRepo) DeleteOrderTx(tx *gorm.DB, recordID, orderID uuid.UUID) error {
	res := tx.Where("id = ? AND record_id = ?", orderID, recordID).Delete(&model.RecordOrder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepo) AddOrderTx(tx *gorm.DB, o *model.RecordOrder) error {
	return tx.Create(o).Error
}

func (r *recordRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("record_id = ?", id).Delete(&model.RecordOrder{}).Error; err != nil {
		return err
	}
	if err := tx.Where("record_id = ?", id).Delete(&model.RecordSegment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Record{}, id).Error
}

func (r *recordRepo) DeleteAllTx(tx *gorm.DB) error {
	if err := tx.Where("1 = 1").Delete(&model.RecordOrder{}).Error; err != nil {
		return err
	}
	if err := tx.Where("1 = 1").Delete(&model.RecordSegment{}).Error; err != nil {
		return err
	}
	return tx.Where("1 = 1").Delete(&model.Record{}).Error
}
