package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"warehouse-service/internal/models"
	"warehouse-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService manages inventory lots
type InventoryService struct {
	repo     InventoryRepository
	notifier changeNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repo InventoryRepository, publisher EventPublisher) *InventoryService {
	return &InventoryService{
		repo:     repo,
		notifier: newChangeNotifier(publisher),
		logger:   util.GetLogger(),
		now:      time.Now,
	}
}

// LotRequest is the body of create and update requests
type LotRequest struct {
	ProductID    string           `json:"product_id"`
	WarehouseID  int64            `json:"warehouse_id"`
	EntryDate    *models.Date     `json:"entry_date"`
	ExitDate     *models.Date     `json:"exit_date"`
	Humidity     *decimal.Decimal `json:"humidity"`
	Fermentation *decimal.Decimal `json:"fermentation"`
}

var lotFailure = failure{
	notFound:  "inventory lot not found",
	reference: "product or warehouse not found",
}

// List returns every lot newest first with product and warehouse resolved
func (s *InventoryService) List(ctx context.Context) ([]models.InventoryLotView, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.List")
	defer span.End()

	lots, err := s.repo.ListLots(ctx)
	return lots, lotFailure.wrap(err)
}

// Get returns one lot with product and warehouse resolved
func (s *InventoryService) Get(ctx context.Context, id int64) (*models.InventoryLotView, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Get")
	defer span.End()

	lot, err := s.repo.GetLot(ctx, id)
	if err != nil {
		return nil, lotFailure.wrap(err)
	}
	return lot, nil
}

// Create records a new lot. The entry date defaults to today.
func (s *InventoryService) Create(ctx context.Context, req *LotRequest) (*models.InventoryLot, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Create")
	defer span.End()

	lot, err := s.buildLot(req, false)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateLot(ctx, lot); err != nil {
		return nil, lotFailure.wrap(err)
	}

	s.logger.Info("Inventory lot created",
		zap.Int64("lot_id", lot.ID),
		zap.String("product_id", lot.ProductID),
		zap.Int64("warehouse_id", lot.WarehouseID))
	s.notifier.notify(ctx, models.EventTypeEntityCreated, models.EntityInventoryLot, formatID(lot.ID))
	return lot, nil
}

// Update replaces every field of an existing lot. Unlike Create the entry
// date is required, so an omitted date never overwrites the stored one.
func (s *InventoryService) Update(ctx context.Context, id int64, req *LotRequest) (*models.InventoryLot, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Update")
	defer span.End()

	lot, err := s.buildLot(req, true)
	if err != nil {
		return nil, err
	}
	lot.ID = id

	if err := s.repo.UpdateLot(ctx, lot); err != nil {
		return nil, lotFailure.wrap(err)
	}

	s.notifier.notify(ctx, models.EventTypeEntityUpdated, models.EntityInventoryLot, formatID(lot.ID))
	return lot, nil
}

// Delete removes a lot
func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryService.Delete")
	defer span.End()

	if err := s.repo.DeleteLot(ctx, id); err != nil {
		return lotFailure.wrap(err)
	}

	s.notifier.notify(ctx, models.EventTypeEntityDeleted, models.EntityInventoryLot, formatID(id))
	return nil
}

// Search matches term against id, product description, warehouse code,
// humidity and fermentation
func (s *InventoryService) Search(ctx context.Context, term string) ([]models.InventoryLotView, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Search")
	defer span.End()

	lots, err := s.repo.SearchLots(ctx, term)
	return lots, lotFailure.wrap(err)
}

func (s *InventoryService) buildLot(req *LotRequest, requireEntry bool) (*models.InventoryLot, error) {
	hasEntry := req.EntryDate != nil && !req.EntryDate.IsZero()

	var missing []string
	if strings.TrimSpace(req.ProductID) == "" {
		missing = append(missing, "product_id")
	}
	if req.WarehouseID == 0 {
		missing = append(missing, "warehouse_id")
	}
	if requireEntry && !hasEntry {
		missing = append(missing, "entry_date")
	}
	if req.Humidity == nil {
		missing = append(missing, "humidity")
	}
	if req.Fermentation == nil {
		missing = append(missing, "fermentation")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	entry := models.NewDate(s.now())
	if hasEntry {
		entry = *req.EntryDate
	}

	var exit *models.Date
	if req.ExitDate != nil && !req.ExitDate.IsZero() {
		if req.ExitDate.Before(entry.Time) {
			return nil, invalid("exit_date must not be before entry_date")
		}
		exit = req.ExitDate
	}

	return &models.InventoryLot{
		ProductID:    strings.TrimSpace(req.ProductID),
		WarehouseID:  req.WarehouseID,
		EntryDate:    entry,
		ExitDate:     exit,
		Humidity:     *req.Humidity,
		Fermentation: *req.Fermentation,
	}, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
