package repository

import (
	"context"
	"errors"

	"timecafe/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PeriodRepository interface {
	ActiveLock(ctx context.Context) (*model.PeriodLock, error)
	InstallLockTx(tx *gorm.DB, lock *model.PeriodLock) error

	OpenCycle(ctx context.Context) (*model.DayCycle, error)
	CreateCycle(ctx context.Context, c *model.DayCycle) error
	SaveCycle(ctx context.Context, c *model.DayCycle) error
	ListCycles(ctx context.Context, limit int) ([]model.DayCycle, error)

	CreatePlan(ctx context.Context, p *model.SavingPlan) error
	FindPlanByID(ctx context.Context, id uuid.UUID) (*model.SavingPlan, error)
	ListPlans(ctx context.Context, onlyActive bool) ([]model.SavingPlan, error)
	SavePlan(ctx context.Context, p *model.SavingPlan) error
	SavePlanTx(tx *gorm.DB, p *model.SavingPlan) error

	CreateSnapshotTx(tx *gorm.DB, s *model.PeriodSnapshot) error
	FindSnapshotByID(ctx context.Context, id uuid.UUID) (*model.PeriodSnapshot, error)
	ListSnapshots(ctx context.Context) ([]model.PeriodSnapshot, error)
}

type periodRepo struct{ db *gorm.DB }

func NewPeriodRepository(db *gorm.DB) PeriodRepository { return &periodRepo{db: db} }

// ── Period lock ──

func (r *periodRepo) ActiveLock(ctx context.Context) (*model.PeriodLock, error) {
	var lock model.PeriodLock
	err := r.db.WithContext(ctx).
		Where("active = true").
		Order("locked_until DESC").
		First(&lock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lock, nil
}

// InstallLockTx deactivates any previous lock and inserts the new one, so
// exactly one lock is active afterwards.
func (r *periodRepo) InstallLockTx(tx *gorm.DB, lock *model.PeriodLock) error {
	if err := tx.Model(&model.PeriodLock{}).Where("active = true").
		Update("active", false).Error; err != nil {
		return err
	}
	lock.Active = true
	return tx.Create(lock).Error
}

// ── Day cycles ──

func (r *periodRepo) OpenCycle(ctx context.Context) (*model.DayCycle, error) {
	var c model.DayCycle
	err := r.db.WithContext(ctx).Where("status = ?", model.CycleOpen).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *periodRepo) CreateCycle(ctx context.Context, c *model.DayCycle) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *periodRepo) SaveCycle(ctx context.Context, c *model.DayCycle) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *periodRepo) ListCycles(ctx context.Context, limit int) ([]model.DayCycle, error) {
	q := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var cycles []model.DayCycle
	err := q.Find(&cycles).Error
	return cycles, err
}

// ── Saving plans ──

func (r *periodRepo) CreatePlan(ctx context.Context, p *model.SavingPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *periodRepo) FindPlanByID(ctx context.Context, id uuid.UUID) (*model.SavingPlan, error) {
	var p model.SavingPlan
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *periodRepo) ListPlans(ctx context.Context, onlyActive bool) ([]model.SavingPlan, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if onlyActive {
		q = q.Where("active = true")
	}
	var plans []model.SavingPlan
	err := q.Find(&plans).Error
	return plans, err
}

func (r *periodRepo) SavePlan(ctx context.Context, p *model.SavingPlan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *periodRepo) SavePlanTx(tx *gorm.DB, p *model.SavingPlan) error {
	return tx.Save(p).Error
}

// ── Snapshots ──

func (r *periodRepo) CreateSnapshotTx(tx *gorm.DB, s *model.PeriodSnapshot) error {
	return tx.Create(s).Error
}

func (r *periodRepo) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*model.PeriodSnapshot, error) {
	var s model.PeriodSnapshot
	err := r.db.WithContext(ctx).Preload("Rows").First(&s, id).Error
	return &s, err
}

func (r *periodRepo) ListSnapshots(ctx context.Context) ([]model.PeriodSnapshot, error) {
	var snaps []model.PeriodSnapshot
	err := r.db.WithContext(ctx).Preload("Rows").Order("period_end DESC").Find(&snaps).Error
	return snaps, err
}
