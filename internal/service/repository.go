package service

import (
	"context"
	"time"

	"warehouse-service/internal/models"
)

// The repositories below are implemented by *store.Store. Each method runs a
// single statement and reports store.ErrNotFound or *store.ConstraintError.

type WarehouseRepository interface {
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
	CreateWarehouse(ctx context.Context, w *models.Warehouse) error
	UpdateWarehouse(ctx context.Context, w *models.Warehouse) error
	DeleteWarehouse(ctx context.Context, id int64) error
	SearchWarehouses(ctx context.Context, term string) ([]models.Warehouse, error)
}

type SupplierRepository interface {
	ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, nationalID string) (*models.Supplier, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	UpdateSupplier(ctx context.Context, s *models.Supplier) error
	DeleteSupplier(ctx context.Context, nationalID string) error
	SearchSuppliers(ctx context.Context, term string) ([]models.Supplier, error)
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.ProductView, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	CountProductReferences(ctx context.Context, id string) (int, error)
}

type InventoryRepository interface {
	ListLots(ctx context.Context) ([]models.InventoryLotView, error)
	GetLot(ctx context.Context, id int64) (*models.InventoryLotView, error)
	CreateLot(ctx context.Context, lot *models.InventoryLot) error
	UpdateLot(ctx context.Context, lot *models.InventoryLot) error
	DeleteLot(ctx context.Context, id int64) error
	SearchLots(ctx context.Context, term string) ([]models.InventoryLotView, error)
}

type OrderRepository interface {
	ListOrders(ctx context.Context) ([]models.OrderView, error)
	GetOrder(ctx context.Context, id int64) (*models.OrderView, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

type StatsRepository interface {
	CountProducts(ctx context.Context) (int, error)
	CountSuppliers(ctx context.Context) (int, error)
	CountWarehouses(ctx context.Context) (int, error)
	CountOrders(ctx context.Context, fulfilled *bool) (int, error)
}

// EventPublisher receives entity change notifications. Implemented by
// *broker.EventPublisher.
type EventPublisher interface {
	PublishEntityEvent(ctx context.Context, event *models.EntityEvent) error
}

// IdempotencyStore remembers request keys. Implemented by *redisclient.Client.
type IdempotencyStore interface {
	GetIdempotencyKey(ctx context.Context, key string) (string, bool, error)
	SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}
