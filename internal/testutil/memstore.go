// Package testutil provides an in-memory stand-in for the relational store.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"warehouse-service/internal/models"
	"warehouse-service/internal/store"
)

// MemStore keeps every entity in maps and enforces the schema's foreign keys
// and primary keys, answering with the same typed errors as store.Store.
// Warehouse deletion is refused while lots reference it, mirroring a schema
// that declares that foreign key.
type MemStore struct {
	mu sync.Mutex

	warehouses map[int64]models.Warehouse
	suppliers  map[string]models.Supplier
	products   map[string]models.Product
	lots       map[int64]models.InventoryLot
	orders     map[int64]models.Order

	nextWarehouse int64
	nextLot       int64
	nextOrder     int64

	failures map[string]error
}

// NewMemStore returns an empty store
func NewMemStore() *MemStore {
	return &MemStore{
		warehouses: make(map[int64]models.Warehouse),
		suppliers:  make(map[string]models.Supplier),
		products:   make(map[string]models.Product),
		lots:       make(map[int64]models.InventoryLot),
		orders:     make(map[int64]models.Order),
		failures:   make(map[string]error),
	}
}

// FailOn makes the named method return err until cleared with a nil err
func (m *MemStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

func (m *MemStore) failure(method string) error {
	return m.failures[method]
}

func referenceErr(table string) error {
	return &store.ConstraintError{
		Kind:  store.ConstraintReference,
		Table: table,
		Err:   errors.New("foreign key violation"),
	}
}

func uniqueErr(table string) error {
	return &store.ConstraintError{
		Kind:  store.ConstraintUnique,
		Table: table,
		Err:   errors.New("duplicate key value"),
	}
}

func contains(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ping always succeeds unless a failure is registered
func (m *MemStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failure("Ping")
}

// Warehouses

func (m *MemStore) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return m.SearchWarehouses(ctx, "")
}

func (m *MemStore) CreateWarehouse(ctx context.Context, w *models.Warehouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateWarehouse"); err != nil {
		return err
	}
	m.nextWarehouse++
	w.ID = m.nextWarehouse
	m.warehouses[w.ID] = *w
	return nil
}

func (m *MemStore) UpdateWarehouse(ctx context.Context, w *models.Warehouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.warehouses[w.ID]; !ok {
		return store.ErrNotFound
	}
	m.warehouses[w.ID] = *w
	return nil
}

func (m *MemStore) DeleteWarehouse(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.warehouses[id]; !ok {
		return store.ErrNotFound
	}
	for _, lot := range m.lots {
		if lot.WarehouseID == id {
			return referenceErr("inventario")
		}
	}
	delete(m.warehouses, id)
	return nil
}

func (m *MemStore) SearchWarehouses(ctx context.Context, term string) ([]models.Warehouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Warehouse{}
	for _, w := range m.warehouses {
		if contains(strconv.FormatInt(w.ID, 10), term) || contains(w.Code, term) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Suppliers

func (m *MemStore) ListSuppliers(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Supplier{}
	for _, s := range m.suppliers {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	sortSuppliers(out)
	return out, nil
}

func (m *MemStore) GetSupplier(ctx context.Context, nationalID string) (*models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.suppliers[nationalID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (m *MemStore) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suppliers[s.NationalID]; ok {
		return uniqueErr("proveedor")
	}
	m.suppliers[s.NationalID] = *s
	return nil
}

func (m *MemStore) UpdateSupplier(ctx context.Context, s *models.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suppliers[s.NationalID]; !ok {
		return store.ErrNotFound
	}
	m.suppliers[s.NationalID] = *s
	return nil
}

func (m *MemStore) DeleteSupplier(ctx context.Context, nationalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.suppliers[nationalID]; !ok {
		return store.ErrNotFound
	}
	for _, p := range m.products {
		if p.SupplierID == nationalID {
			return referenceErr("producto")
		}
	}
	for _, o := range m.orders {
		if o.SupplierID == nationalID {
			return referenceErr("pedido")
		}
	}
	delete(m.suppliers, nationalID)
	return nil
}

func (m *MemStore) SearchSuppliers(ctx context.Context, term string) ([]models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Supplier{}
	for _, s := range m.suppliers {
		if contains(s.NationalID, term) || contains(s.Name, term) ||
			contains(deref(s.Phone), term) || contains(deref(s.Email), term) ||
			contains(deref(s.City), term) {
			out = append(out, s)
		}
	}
	sortSuppliers(out)
	return out, nil
}

func sortSuppliers(out []models.Supplier) {
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
}

// Products

func (m *MemStore) ListProducts(ctx context.Context) ([]models.ProductView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ProductView{}
	for _, p := range m.products {
		name := models.MissingSupplierName
		if s, ok := m.suppliers[p.SupplierID]; ok {
			name = s.Name
		}
		out = append(out, models.ProductView{Product: p, SupplierName: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *MemStore) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; ok {
		return uniqueErr("producto")
	}
	if _, ok := m.suppliers[p.SupplierID]; !ok {
		return referenceErr("producto")
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MemStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := m.suppliers[p.SupplierID]; !ok {
		return referenceErr("producto")
	}
	m.products[p.ID] = *p
	return nil
}

// DeleteProduct removes the product without checking lots or orders, as a
// schema without foreign keys to products would. Only the service guard
// protects referenced products here.
func (m *MemStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemStore) CountProductReferences(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, lot := range m.lots {
		if lot.ProductID == id {
			n++
		}
	}
	for _, o := range m.orders {
		if o.ProductID == id {
			n++
		}
	}
	return n, nil
}

// Inventory lots

func (m *MemStore) lotView(lot models.InventoryLot) models.InventoryLotView {
	view := models.InventoryLotView{InventoryLot: lot}
	if p, ok := m.products[lot.ProductID]; ok {
		desc := p.Description
		view.ProductDescription = &desc
	}
	if w, ok := m.warehouses[lot.WarehouseID]; ok {
		code := w.Code
		view.WarehouseCode = &code
	}
	return view
}

func (m *MemStore) ListLots(ctx context.Context) ([]models.InventoryLotView, error) {
	return m.SearchLots(ctx, "")
}

func (m *MemStore) GetLot(ctx context.Context, id int64) (*models.InventoryLotView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lot, ok := m.lots[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	view := m.lotView(lot)
	return &view, nil
}

func (m *MemStore) checkLotRefs(lot *models.InventoryLot) error {
	if _, ok := m.products[lot.ProductID]; !ok {
		return referenceErr("inventario")
	}
	if _, ok := m.warehouses[lot.WarehouseID]; !ok {
		return referenceErr("inventario")
	}
	return nil
}

func (m *MemStore) CreateLot(ctx context.Context, lot *models.InventoryLot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkLotRefs(lot); err != nil {
		return err
	}
	m.nextLot++
	lot.ID = m.nextLot
	m.lots[lot.ID] = *lot
	return nil
}

func (m *MemStore) UpdateLot(ctx context.Context, lot *models.InventoryLot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lots[lot.ID]; !ok {
		return store.ErrNotFound
	}
	if err := m.checkLotRefs(lot); err != nil {
		return err
	}
	m.lots[lot.ID] = *lot
	return nil
}

func (m *MemStore) DeleteLot(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lots[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.lots, id)
	return nil
}

func (m *MemStore) SearchLots(ctx context.Context, term string) ([]models.InventoryLotView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.InventoryLotView{}
	for _, lot := range m.lots {
		view := m.lotView(lot)
		if contains(strconv.FormatInt(lot.ID, 10), term) ||
			contains(deref(view.ProductDescription), term) ||
			contains(deref(view.WarehouseCode), term) ||
			contains(lot.Humidity.String(), term) ||
			contains(lot.Fermentation.String(), term) {
			out = append(out, view)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Orders

func (m *MemStore) orderView(o models.Order) models.OrderView {
	view := models.OrderView{Order: o}
	if s, ok := m.suppliers[o.SupplierID]; ok {
		name := s.Name
		view.SupplierName = &name
	}
	if p, ok := m.products[o.ProductID]; ok {
		desc := p.Description
		view.ProductDescription = &desc
	}
	return view
}

func (m *MemStore) checkOrderRefs(o *models.Order) error {
	if _, ok := m.suppliers[o.SupplierID]; !ok {
		return referenceErr("pedido")
	}
	if _, ok := m.products[o.ProductID]; !ok {
		return referenceErr("pedido")
	}
	return nil
}

func (m *MemStore) ListOrders(ctx context.Context) ([]models.OrderView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.OrderView{}
	for _, o := range m.orders {
		out = append(out, m.orderView(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemStore) GetOrder(ctx context.Context, id int64) (*models.OrderView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	view := m.orderView(o)
	return &view, nil
}

// CreateOrder assigns the next id the way the pedido trigger does
func (m *MemStore) CreateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CreateOrder"); err != nil {
		return err
	}
	if err := m.checkOrderRefs(o); err != nil {
		return err
	}
	m.nextOrder++
	o.ID = m.nextOrder
	o.Fulfilled = false
	m.orders[o.ID] = *o
	return nil
}

func (m *MemStore) UpdateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return store.ErrNotFound
	}
	if err := m.checkOrderRefs(o); err != nil {
		return err
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *MemStore) DeleteOrder(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// OrderCount returns the number of stored orders
func (m *MemStore) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// Stats

func (m *MemStore) CountProducts(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CountProducts"); err != nil {
		return 0, err
	}
	return len(m.products), nil
}

func (m *MemStore) CountSuppliers(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CountSuppliers"); err != nil {
		return 0, err
	}
	return len(m.suppliers), nil
}

func (m *MemStore) CountWarehouses(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CountWarehouses"); err != nil {
		return 0, err
	}
	return len(m.warehouses), nil
}

func (m *MemStore) CountOrders(ctx context.Context, fulfilled *bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CountOrders"); err != nil {
		return 0, err
	}
	n := 0
	for _, o := range m.orders {
		if fulfilled == nil || o.Fulfilled == *fulfilled {
			n++
		}
	}
	return n, nil
}
