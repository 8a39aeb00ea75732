package repository

import (
	"context"

	"timecafe/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeviceRepository manages the billable seat catalog.
type DeviceRepository interface {
	Create(ctx context.Context, d *model.Device) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Device, error)
	List(ctx context.Context, includeInactive bool) ([]model.Device, error)
	Update(ctx context.Context, d *model.Device) error
}

type deviceRepo struct{ db *gorm.DB }

func NewDeviceRepository(db *gorm.DB) DeviceRepository { return &deviceRepo{db: db} }

func (r *deviceRepo) Create(ctx context.Context, d *model.Device) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *deviceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Device, error) {
	var d model.Device
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *deviceRepo) List(ctx context.Context, includeInactive bool) ([]model.Device, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	var devices []model.Device
	err := q.Find(&devices).Error
	return devices, err
}

func (r *deviceRepo) Update(ctx context.Context, d *model.Device) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// ProductRepository manages products, inventory items and stock movements.
type ProductRepository interface {
	DB() *gorm.DB
	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error

	CreateItem(ctx context.Context, it *model.InventoryItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	FindItemByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error)
	ListItems(ctx context.Context) ([]model.InventoryItem, error)
	// AdjustStockTx adds delta (negative = depletion) to an item's stock
	// inside the surrounding transaction.
	AdjustStockTx(tx *gorm.DB, itemID uuid.UUID, delta decimal.Decimal) error
	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error
	ListMovements(ctx context.Context, itemID uuid.UUID) ([]model.StockMovement, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) CreateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Components").Preload("Components.Item").First(&p, id).Error
	return &p, err
}

func (r *productRepo) ListProducts(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	var products []model.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) CreateItem(ctx context.Context, it *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *productRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := r.db.WithContext(ctx).First(&it, id).Error
	return &it, err
}

func (r *productRepo) FindItemByIDTx(tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := tx.First(&it, id).Error
	return &it, err
}

func (r *productRepo) ListItems(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *productRepo) AdjustStockTx(tx *gorm.DB, itemID uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.InventoryItem{}).
		Where("id = ?", itemID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *productRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *productRepo) ListMovements(ctx context.Context, itemID uuid.UUID) ([]model.StockMovement, error) {
	var movs []model.StockMovement
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at DESC").Find(&movs).Error
	return movs, err
}
