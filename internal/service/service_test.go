package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"warehouse-service/internal/models"
	"warehouse-service/internal/store"
	"warehouse-service/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db         *testutil.MemStore
	events     *testutil.RecordingPublisher
	warehouses *WarehouseService
	suppliers  *SupplierService
	products   *ProductService
	inventory  *InventoryService
	orders     *OrderService
	reporting  *ReportingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewMemStore()
	events := &testutil.RecordingPublisher{}
	return &fixture{
		db:         db,
		events:     events,
		warehouses: NewWarehouseService(db, events),
		suppliers:  NewSupplierService(db, events),
		products:   NewProductService(db, events, true),
		inventory:  NewInventoryService(db, events),
		orders:     NewOrderService(db, events, nil, time.Hour),
		reporting:  NewReportingService(db),
	}
}

func (f *fixture) supplier(t *testing.T, id string) *models.Supplier {
	t.Helper()
	s, err := f.suppliers.Create(context.Background(), &SupplierRequest{NationalID: id, Name: "Supplier " + id})
	require.NoError(t, err)
	return s
}

func (f *fixture) product(t *testing.T, id, supplierID string) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), &ProductRequest{ID: id, Description: "Coffee", SupplierID: supplierID})
	require.NoError(t, err)
	return p
}

func (f *fixture) warehouse(t *testing.T, code string) *models.Warehouse {
	t.Helper()
	w, err := f.warehouses.Create(context.Background(), &WarehouseRequest{Code: code})
	require.NoError(t, err)
	return w
}

func date(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "unexpected kind for %v", err)
}

func TestFailureWrap(t *testing.T) {
	f := failure{notFound: "gone", reference: "dangling", duplicate: "twice"}

	assert.NoError(t, f.wrap(nil))
	assertKind(t, f.wrap(store.ErrNotFound), KindNotFound)
	assertKind(t, f.wrap(&store.ConstraintError{Kind: store.ConstraintReference}), KindReference)
	assertKind(t, f.wrap(&store.ConstraintError{Kind: store.ConstraintUnique}), KindUniqueness)
	assertKind(t, f.wrap(&store.ConstraintError{Kind: store.ConstraintInvalidText}), KindValidation)
	assertKind(t, f.wrap(errors.New("connection reset")), KindStorage)

	dependent := failure{dependent: "still used"}
	err := dependent.wrap(&store.ConstraintError{Kind: store.ConstraintReference})
	assertKind(t, err, KindDependency)
	assert.Contains(t, err.Error(), "still used")
}

func TestStorageFailureHidesDriverMessage(t *testing.T) {
	err := failure{}.wrap(errors.New("pq: password authentication failed"))

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "storage failure", se.Message)
}

func TestMissingFieldsMessage(t *testing.T) {
	err := missingFields("supplier_id", "quantity")
	assert.Equal(t, "missing required fields: supplier_id, quantity", err.Error())
	assert.Equal(t, KindValidation, err.Kind)
}

func TestWarehouseLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.warehouses.Create(ctx, &WarehouseRequest{Code: "  "})
	assertKind(t, err, KindValidation)

	w := f.warehouse(t, "W1")
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "W1", w.Code)

	updated, err := f.warehouses.Update(ctx, w.ID, &WarehouseRequest{Code: "W1-north"})
	require.NoError(t, err)
	assert.Equal(t, "W1-north", updated.Code)

	_, err = f.warehouses.Update(ctx, 999, &WarehouseRequest{Code: "X"})
	assertKind(t, err, KindNotFound)

	found, err := f.warehouses.Search(ctx, "NORTH")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, w.ID, found[0].ID)

	require.NoError(t, f.warehouses.Delete(ctx, w.ID))
	assertKind(t, f.warehouses.Delete(ctx, w.ID), KindNotFound)
}

func TestWarehouseDeleteReferencedByLot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	p := f.product(t, "P1", "S1")
	w := f.warehouse(t, "W1")

	_, err := f.inventory.Create(ctx, &LotRequest{
		ProductID: p.ID, WarehouseID: w.ID, Humidity: dec("11.5"), Fermentation: dec("3"),
	})
	require.NoError(t, err)

	assertKind(t, f.warehouses.Delete(ctx, w.ID), KindDependency)
}

func TestSupplierCreateDefaultsAndDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.suppliers.Create(ctx, &SupplierRequest{})
	assertKind(t, err, KindValidation)
	assert.Contains(t, err.Error(), "national_id, name")

	blank := "   "
	s, err := f.suppliers.Create(ctx, &SupplierRequest{NationalID: "S1", Name: "Acme", Phone: &blank})
	require.NoError(t, err)
	assert.True(t, s.Active)
	assert.Nil(t, s.Phone)

	_, err = f.suppliers.Create(ctx, &SupplierRequest{NationalID: "S1", Name: "Acme again"})
	assertKind(t, err, KindUniqueness)
}

func TestSupplierUpdateAndActiveFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	f.supplier(t, "S2")

	inactive := false
	_, err := f.suppliers.Update(ctx, "S2", &SupplierRequest{Name: "Dormant", Active: &inactive})
	require.NoError(t, err)

	_, err = f.suppliers.Update(ctx, "S1", &SupplierRequest{})
	assertKind(t, err, KindValidation)

	_, err = f.suppliers.Update(ctx, "missing", &SupplierRequest{Name: "Nobody"})
	assertKind(t, err, KindNotFound)

	active, err := f.suppliers.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "S1", active[0].NationalID)

	all, err := f.suppliers.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSupplierDeleteProtectedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	p := f.product(t, "P1", "S1")

	err := f.suppliers.Delete(ctx, "S1")
	assertKind(t, err, KindDependency)

	_, err = f.suppliers.Get(ctx, "S1")
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	require.NoError(t, f.suppliers.Delete(ctx, "S1"))

	_, err = f.suppliers.Get(ctx, "S1")
	assertKind(t, err, KindNotFound)
}

func TestProductCreateRequiresExistingSupplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, &ProductRequest{Description: "Coffee", SupplierID: "ghost"})
	assertKind(t, err, KindReference)
	assert.Contains(t, err.Error(), "supplier not found")

	products, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductCreateGeneratesID(t *testing.T) {
	f := newFixture(t)
	f.supplier(t, "S1")

	p, err := f.products.Create(context.Background(), &ProductRequest{Description: "Cacao", SupplierID: "S1"})
	require.NoError(t, err)
	assert.Len(t, p.ID, 36)
	assert.Equal(t, models.EntityProduct, f.events.Last().Entity)
	assert.Equal(t, p.ID, f.events.Last().EntityID)
}

func TestProductListResolvesSupplierName(t *testing.T) {
	f := newFixture(t)
	f.supplier(t, "S1")
	f.product(t, "P1", "S1")

	products, err := f.products.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Supplier S1", products[0].SupplierName)
}

func TestProductUpdateKeepsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	f.supplier(t, "S2")
	f.product(t, "P1", "S1")

	p, err := f.products.Update(ctx, "P1", &ProductRequest{ID: "other", Description: "Decaf", SupplierID: "S2"})
	require.NoError(t, err)
	assert.Equal(t, "P1", p.ID)

	_, err = f.products.Update(ctx, "P1", &ProductRequest{Description: "Decaf", SupplierID: "ghost"})
	assertKind(t, err, KindReference)

	_, err = f.products.Update(ctx, "nope", &ProductRequest{Description: "Decaf", SupplierID: "S1"})
	assertKind(t, err, KindNotFound)
}

func TestProductDeleteGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	p := f.product(t, "P1", "S1")

	_, _, err := f.orders.Create(ctx, &OrderRequest{
		SupplierID: "S1", ProductID: p.ID, DeliveryDate: date(t, "2024-05-01"), Quantity: 3,
	}, "")
	require.NoError(t, err)

	err = f.products.Delete(ctx, p.ID)
	assertKind(t, err, KindDependency)

	unguarded := NewProductService(f.db, nil, false)
	require.NoError(t, unguarded.Delete(ctx, p.ID))
	assertKind(t, unguarded.Delete(ctx, p.ID), KindNotFound)
}

func TestInventoryCreateDefaultsEntryDate(t *testing.T) {
	f := newFixture(t)
	f.supplier(t, "S1")
	p := f.product(t, "P1", "S1")
	w := f.warehouse(t, "W1")
	f.inventory.now = func() time.Time { return time.Date(2024, 2, 29, 18, 30, 0, 0, time.UTC) }

	lot, err := f.inventory.Create(context.Background(), &LotRequest{
		ProductID: p.ID, WarehouseID: w.ID, Humidity: dec("0"), Fermentation: dec("4.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", lot.EntryDate.String())
	assert.Nil(t, lot.ExitDate)
	assert.True(t, lot.Humidity.IsZero())
	assert.NotZero(t, lot.ID)
}

func TestInventoryValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inventory.Create(ctx, &LotRequest{})
	assertKind(t, err, KindValidation)
	assert.Contains(t, err.Error(), "product_id, warehouse_id, humidity, fermentation")

	_, err = f.inventory.Create(ctx, &LotRequest{
		ProductID: "P1", WarehouseID: 1, Humidity: dec("1"), Fermentation: dec("1"),
		EntryDate: date(t, "2024-03-10"), ExitDate: date(t, "2024-03-01"),
	})
	assertKind(t, err, KindValidation)

	_, err = f.inventory.Create(ctx, &LotRequest{
		ProductID: "P1", WarehouseID: 1, Humidity: dec("1"), Fermentation: dec("1"),
	})
	assertKind(t, err, KindReference)
}

func TestInventoryUpdateRequiresEntryDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	p := f.product(t, "P1", "S1")
	w := f.warehouse(t, "W1")

	lot, err := f.inventory.Create(ctx, &LotRequest{
		ProductID: p.ID, WarehouseID: w.ID, Humidity: dec("12"), Fermentation: dec("2"),
		EntryDate: date(t, "2020-01-15"),
	})
	require.NoError(t, err)

	_, err = f.inventory.Update(ctx, lot.ID, &LotRequest{
		ProductID: p.ID, WarehouseID: w.ID, Humidity: dec("9"), Fermentation: dec("2"),
	})
	assertKind(t, err, KindValidation)
	assert.Contains(t, err.Error(), "entry_date")

	stored, err := f.inventory.Get(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, "2020-01-15", stored.EntryDate.String())
	assert.Equal(t, "12", stored.Humidity.String())
}

func TestInventoryUpdateDeleteAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier(t, "S1")
	p := f.product(t, "P1", "S1")
	w := f.warehouse(t, "NORTE")

	lot, err := f.inventory.Create(ctx, &LotRequest{
		ProductID: p.ID, WarehouseID: w.ID, Humidity: dec("12.5"), Fermentation: dec("2"),
		EntryDate: date(t, "2024-01-10"),
	})
	require.NoError(t, err)

	updated, err := f.inventory.Update(ctx, lot.ID, &LotRequest{
		ProductID: p.ID, WarehouseID: w.ID, Humidity: dec("10"), Fermentation: dec("2"),
		EntryDate: date(t, "2024-01-10"), ExitDate: date(t, "2024-01-20"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ExitDate)
	assert.Equal(t, "2024-01-20", updated.ExitDate.String())

	_, err = f.inventory.Update(ctx, 999, &LotRequest{
		ProductID: p.ID, WarehouseID: w.ID, Humidity: dec("10"), Fermentation: dec("2"),
		EntryDate: date(t, "2024-01-10"),
	})
	assertKind(t, err, KindNotFound)

	found, err := f.inventory.Search(ctx, "norte")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].WarehouseCode)
	assert.Equal(t, "NORTE", *found[0].WarehouseCode)

	none, err := f.inventory.Search(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, f.inventory.Delete(ctx, lot.ID))
	assertKind(t, f.inventory.Delete(ctx, lot.ID), KindNotFound)
}
