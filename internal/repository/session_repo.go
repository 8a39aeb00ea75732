package repository

import (
	"context"

	"timecafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	ListActive(ctx context.Context) ([]model.Session, error)
	CountActive(ctx context.Context) (int64, error)
	AddOrder(ctx context.Context, o *model.SessionOrder) error
	DeleteOrder(ctx context.Context, sessionID, orderID uuid.UUID) error
	AddDeviceChange(ctx context.Context, c *model.SessionDeviceChange) error
	// DeleteTx removes the session and its children; checkout converts the
	// session into a record inside the same transaction.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Preload("DeviceChanges", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC") }).
		First(&s, id).Error
	return &s, err
}

func (r *sessionRepo) ListActive(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Preload("DeviceChanges", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC") }).
		Order("started_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).Count(&n).Error
	return n, err
}

func (r *sessionRepo) AddOrder(ctx context.Context, o *model.SessionOrder) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *sessionRepo) DeleteOrder(ctx context.Context, sessionID, orderID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", orderID, sessionID).
		Delete(&model.SessionOrder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepo) AddDeviceChange(ctx context.Context, c *model.SessionDeviceChange) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *sessionRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("session_id = ?", id).Delete(&model.SessionOrder{}).Error; err != nil {
		return err
	}
	if err := tx.Where("session_id = ?", id).Delete(&model.SessionDeviceChange{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Session{}, id).Error
}
