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

const orderLockTTL = 30 * time.Second

// OrderService handles purchase orders
type OrderService struct {
	repo           OrderRepository
	idempotency    IdempotencyStore
	idempotencyTTL time.Duration
	notifier       changeNotifier
	logger         *zap.Logger
}

// NewOrderService creates a new order service. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewOrderService(
	repo OrderRepository,
	publisher EventPublisher,
	idempotency IdempotencyStore,
	idempotencyTTL time.Duration,
) *OrderService {
	return &OrderService{
		repo:           repo,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		notifier:       newChangeNotifier(publisher),
		logger:         util.GetLogger(),
	}
}

// OrderRequest is the body of create and update requests. Fulfilled is
// ignored on create.
type OrderRequest struct {
	SupplierID   string              `json:"supplier_id"`
	ProductID    string              `json:"product_id"`
	DeliveryDate *models.Date        `json:"delivery_date"`
	Quantity     int                 `json:"quantity"`
	TotalWeight  decimal.NullDecimal `json:"total_weight"`
	Notes        *string             `json:"notes"`
	Fulfilled    *bool               `json:"fulfilled"`
}

var orderFailure = failure{
	notFound:  "order not found",
	reference: "supplier or product not found",
}

// List returns every order newest first with supplier and product resolved
func (s *OrderService) List(ctx context.Context) ([]models.OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.repo.ListOrders(ctx)
	return orders, orderFailure.wrap(err)
}

// Get returns one order with supplier and product resolved
func (s *OrderService) Get(ctx context.Context, id int64) (*models.OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Get")
	defer span.End()

	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, orderFailure.wrap(err)
	}
	return order, nil
}

// Create places a new order. The id comes from the database and the
// order always starts unfulfilled. When idempotencyKey was already used the
// original order is returned and replayed is true.
func (s *OrderService) Create(ctx context.Context, req *OrderRequest, idempotencyKey string) (order *models.Order, replayed bool, err error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	order, err = s.buildOrder(req)
	if err != nil {
		return nil, false, err
	}
	order.Fulfilled = false

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.idempotency != nil {
		if existing := s.replay(ctx, key); existing != nil {
			util.IdempotentReplaysTotal.Inc()
			return existing, true, nil
		}

		acquired, lockErr := s.idempotency.AcquireLock(ctx, orderKey(key), orderLockTTL)
		if lockErr != nil {
			s.logger.Warn("Idempotency lock unavailable, continuing without it",
				zap.String("idempotency_key", key),
				zap.Error(lockErr))
		} else if !acquired {
			return nil, false, &Error{Kind: KindUniqueness, Message: "an order with this idempotency key is already being created"}
		} else {
			defer func() {
				if err := s.idempotency.ReleaseLock(context.Background(), orderKey(key)); err != nil {
					s.logger.Warn("Failed to release idempotency lock", zap.Error(err))
				}
			}()
		}
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, false, orderFailure.wrap(err)
	}

	if key != "" && s.idempotency != nil {
		if err := s.idempotency.SetIdempotencyKey(ctx, orderKey(key), order.ID, s.idempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key",
				zap.String("idempotency_key", key),
				zap.Error(err))
		}
	}

	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("supplier_id", order.SupplierID),
		zap.String("product_id", order.ProductID))
	s.notifier.notify(ctx, models.EventTypeEntityCreated, models.EntityOrder, formatID(order.ID))
	return order, false, nil
}

// Update replaces every field of an existing order, fulfilled flag included
func (s *OrderService) Update(ctx context.Context, id int64, req *OrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Update")
	defer span.End()

	order, err := s.buildOrder(req)
	if err != nil {
		return nil, err
	}
	order.ID = id

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, orderFailure.wrap(err)
	}

	s.notifier.notify(ctx, models.EventTypeEntityUpdated, models.EntityOrder, formatID(order.ID))
	return order, nil
}

// Delete removes an order
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.Delete")
	defer span.End()

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return orderFailure.wrap(err)
	}

	s.notifier.notify(ctx, models.EventTypeEntityDeleted, models.EntityOrder, formatID(id))
	return nil
}

// replay returns the order previously created under key, if any
func (s *OrderService) replay(ctx context.Context, key string) *models.Order {
	stored, found, err := s.idempotency.GetIdempotencyKey(ctx, orderKey(key))
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.String("idempotency_key", key), zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	id, err := strconv.ParseInt(stored, 10, 64)
	if err != nil {
		return nil
	}

	existing, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil
	}

	s.logger.Info("Duplicate order request detected",
		zap.String("idempotency_key", key),
		zap.Int64("order_id", existing.ID))
	return &existing.Order
}

func (s *OrderService) buildOrder(req *OrderRequest) (*models.Order, error) {
	var missing []string
	if strings.TrimSpace(req.SupplierID) == "" {
		missing = append(missing, "supplier_id")
	}
	if strings.TrimSpace(req.ProductID) == "" {
		missing = append(missing, "product_id")
	}
	if req.DeliveryDate == nil || req.DeliveryDate.IsZero() {
		missing = append(missing, "delivery_date")
	}
	if req.Quantity == 0 {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}
	if req.Quantity < 0 {
		return nil, invalid("quantity must be positive")
	}
	if req.TotalWeight.Valid && req.TotalWeight.Decimal.IsNegative() {
		return nil, invalid("total_weight must not be negative")
	}

	fulfilled := false
	if req.Fulfilled != nil {
		fulfilled = *req.Fulfilled
	}

	return &models.Order{
		SupplierID:   strings.TrimSpace(req.SupplierID),
		ProductID:    strings.TrimSpace(req.ProductID),
		DeliveryDate: *req.DeliveryDate,
		Quantity:     req.Quantity,
		TotalWeight:  req.TotalWeight,
		Notes:        nonEmpty(req.Notes),
		Fulfilled:    fulfilled,
	}, nil
}

func orderKey(key string) string {
	return "orders:" + key
}
