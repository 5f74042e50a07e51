package service

import (
	"context"
	"strings"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"go.uber.org/zap"
)

// WarehouseService manages warehouse records
type WarehouseService struct {
	repo     WarehouseRepository
	notifier changeNotifier
	logger   *zap.Logger
}

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(repo WarehouseRepository, publisher EventPublisher) *WarehouseService {
	return &WarehouseService{
		repo:     repo,
		notifier: newChangeNotifier(publisher),
		logger:   util.GetLogger(),
	}
}

// WarehouseRequest is the body of create and update requests
type WarehouseRequest struct {
	Code string `json:"code"`
}

var warehouseFailure = failure{
	notFound:  "warehouse not found",
	dependent: "cannot delete: warehouse is referenced by inventory lots",
	duplicate: "warehouse already exists",
}

// List returns every warehouse ordered by id
func (s *WarehouseService) List(ctx context.Context) ([]models.Warehouse, error) {
	ctx, span := util.StartSpan(ctx, "WarehouseService.List")
	defer span.End()

	warehouses, err := s.repo.ListWarehouses(ctx)
	return warehouses, warehouseFailure.wrap(err)
}

// Create registers a warehouse with a storage-generated id
func (s *WarehouseService) Create(ctx context.Context, req *WarehouseRequest) (*models.Warehouse, error) {
	ctx, span := util.StartSpan(ctx, "WarehouseService.Create")
	defer span.End()

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, missingFields("code")
	}

	w := &models.Warehouse{Code: code}
	if err := s.repo.CreateWarehouse(ctx, w); err != nil {
		return nil, warehouseFailure.wrap(err)
	}

	s.logger.Info("Warehouse created", zap.Int64("warehouse_id", w.ID), zap.String("code", w.Code))
	s.notifier.notify(ctx, models.EventTypeEntityCreated, models.EntityWarehouse, formatID(w.ID))
	return w, nil
}

// Update replaces the code of an existing warehouse
func (s *WarehouseService) Update(ctx context.Context, id int64, req *WarehouseRequest) (*models.Warehouse, error) {
	ctx, span := util.StartSpan(ctx, "WarehouseService.Update")
	defer span.End()

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, missingFields("code")
	}

	w := &models.Warehouse{ID: id, Code: code}
	if err := s.repo.UpdateWarehouse(ctx, w); err != nil {
		return nil, warehouseFailure.wrap(err)
	}

	s.notifier.notify(ctx, models.EventTypeEntityUpdated, models.EntityWarehouse, formatID(w.ID))
	return w, nil
}

// Delete removes a warehouse. Referencing inventory lots are only detected
// when the schema enforces the foreign key.
func (s *WarehouseService) Delete(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "WarehouseService.Delete")
	defer span.End()

	if err := s.repo.DeleteWarehouse(ctx, id); err != nil {
		return warehouseFailure.wrap(err)
	}

	s.logger.Info("Warehouse deleted", zap.Int64("warehouse_id", id))
	s.notifier.notify(ctx, models.EventTypeEntityDeleted, models.EntityWarehouse, formatID(id))
	return nil
}

// Search matches term against id and code, case-insensitively
func (s *WarehouseService) Search(ctx context.Context, term string) ([]models.Warehouse, error) {
	ctx, span := util.StartSpan(ctx, "WarehouseService.Search")
	defer span.End()

	warehouses, err := s.repo.SearchWarehouses(ctx, term)
	return warehouses, warehouseFailure.wrap(err)
}
