package service

import (
	"context"

	"timecafe/internal/apierror"
	"timecafe/internal/dto"
	"timecafe/internal/model"
	"timecafe/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages the billable device catalog, products and inventory.
type CatalogService interface {
	CreateDevice(ctx context.Context, req dto.CreateDeviceRequest) (*dto.DeviceResponse, error)
	ListDevices(ctx context.Context, includeInactive bool) ([]dto.DeviceResponse, error)
	DeactivateDevice(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	ListItems(ctx context.Context) ([]dto.ItemResponse, error)
	// Restock adds stock to an item and records the movement.
	Restock(ctx context.Context, itemID uuid.UUID, req dto.RestockRequest) (*dto.ItemResponse, error)
	ListMovements(ctx context.Context, itemID uuid.UUID) ([]model.StockMovement, error)
}

type catalogService struct {
	deviceRepo  repository.DeviceRepository
	productRepo repository.ProductRepository
}

func NewCatalogService(deviceRepo repository.DeviceRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{deviceRepo: deviceRepo, productRepo: productRepo}
}

// ── Devices ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateDevice(ctx context.Context, req dto.CreateDeviceRequest) (*dto.DeviceResponse, error) {
	device := &model.Device{
		Name:            req.Name,
		HourlyRate:      req.HourlyRate,
		HourlyPlaceCost: req.HourlyPlaceCost,
		Active:          true,
	}
	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, err
	}
	return deviceToResponse(device), nil
}

func (s *catalogService) ListDevices(ctx context.Context, includeInactive bool) ([]dto.DeviceResponse, error) {
	devices, err := s.deviceRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DeviceResponse, 0, len(devices))
	for i := range devices {
		resp = append(resp, *deviceToResponse(&devices[i]))
	}
	return resp, nil
}

func (s *catalogService) DeactivateDevice(ctx context.Context, id uuid.UUID) error {
	device, err := s.deviceRepo.FindByID(ctx, id)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "device not found")
	}
	device.Active = false
	return s.deviceRepo.Update(ctx, device)
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Cost:     req.Cost,
		Active:   true,
	}
	for _, c := range req.Components {
		itemID, err := uuid.Parse(c.ItemID)
		if err != nil {
			return nil, apierror.NewDomain(apierror.KindValidation, "invalid component item_id")
		}
		if _, err := s.productRepo.FindItemByID(ctx, itemID); err != nil {
			return nil, apierror.NewDomain(apierror.KindNotFound, "component item not found")
		}
		product.Components = append(product.Components, model.ProductComponent{
			ItemID:   itemID,
			Quantity: c.Quantity,
		})
	}
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, includeInactive bool) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.ListProducts(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, *productToResponse(&products[i]))
	}
	return resp, nil
}

func (s *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindProductByID(ctx, id)
	if err != nil {
		return apierror.NewDomain(apierror.KindNotFound, "product not found")
	}
	product.Active = false
	return s.productRepo.UpdateProduct(ctx, product)
}

// ── Inventory ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item := &model.InventoryItem{
		Name:  req.Name,
		Unit:  req.Unit,
		Stock: req.Stock,
	}
	if err := s.productRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return itemToResponse(item), nil
}

func (s *catalogService) ListItems(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.productRepo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *itemToResponse(&items[i]))
	}
	return resp, nil
}

func (s *catalogService) Restock(ctx context.Context, itemID uuid.UUID, req dto.RestockRequest) (*dto.ItemResponse, error) {
	item, err := s.productRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, apierror.NewDomain(apierror.KindNotFound, "inventory item not found")
	}

	after := item.Stock.Add(req.Quantity)
	err = runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		if err := s.productRepo.AdjustStockTx(tx, itemID, req.Quantity); err != nil {
			return err
		}
		movement := &model.StockMovement{
			ItemID:      itemID,
			Type:        "restock",
			Quantity:    req.Quantity,
			StockBefore: item.Stock,
			StockAfter:  after,
			Reason:      req.Reason,
		}
		return s.productRepo.CreateMovementTx(tx, movement)
	})
	if err != nil {
		return nil, err
	}

	item.Stock = after
	return itemToResponse(item), nil
}

func (s *catalogService) ListMovements(ctx context.Context, itemID uuid.UUID) ([]model.StockMovement, error) {
	return s.productRepo.ListMovements(ctx, itemID)
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func deviceToResponse(d *model.Device) *dto.DeviceResponse {
	return &dto.DeviceResponse{
		ID:              d.ID.String(),
		Name:            d.Name,
		HourlyRate:      d.HourlyRate,
		HourlyPlaceCost: d.HourlyPlaceCost,
		Active:          d.Active,
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Cost:     p.Cost,
		Active:   p.Active,
	}
}

func itemToResponse(it *model.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:    it.ID.String(),
		Name:  it.Name,
		Unit:  it.Unit,
		Stock: it.Stock,
	}
}
