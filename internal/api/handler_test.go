package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"warehouse-service/internal/service"
	"warehouse-service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *testutil.MemStore
	keys   *testutil.MemIdempotency
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewMemStore()
	keys := testutil.NewMemIdempotency()
	events := &testutil.RecordingPublisher{}

	services := Services{
		Warehouses: service.NewWarehouseService(db, events),
		Suppliers:  service.NewSupplierService(db, events),
		Products:   service.NewProductService(db, events, true),
		Inventory:  service.NewInventoryService(db, events),
		Orders:     service.NewOrderService(db, events, keys, time.Hour),
		Reporting:  service.NewReportingService(db),
	}

	router := gin.New()
	NewHandler(services, db).SetupRoutes(router)
	return &testServer{router: router, db: db, keys: keys}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(service.KindValidation))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.KindReference))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.KindUniqueness))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.KindDependency))
	assert.Equal(t, http.StatusNotFound, statusFor(service.KindNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(service.KindStorage))
}

func TestFailHidesUnexpectedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fail(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestCatalogScenario(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/warehouses", gin.H{"code": "W1"})
	require.Equal(t, http.StatusCreated, code)
	var warehouse struct {
		ID   int64  `json:"id"`
		Code string `json:"code"`
	}
	decode(t, env, &warehouse)
	assert.Equal(t, int64(1), warehouse.ID)
	assert.Equal(t, "W1", warehouse.Code)

	code, env = s.do(t, http.MethodPost, "/api/products", gin.H{"description": "Coffee", "supplier_id": "nonexistent"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, "supplier not found", env.Error)

	code, _ = s.do(t, http.MethodPost, "/api/suppliers", gin.H{"national_id": "S1", "name": "Acme"})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(t, http.MethodPost, "/api/products", gin.H{"description": "Coffee", "supplier_id": "S1"})
	require.Equal(t, http.StatusCreated, code)
	var product struct {
		ID string `json:"id"`
	}
	decode(t, env, &product)
	require.NotEmpty(t, product.ID)

	code, env = s.do(t, http.MethodDelete, "/api/suppliers/S1", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "referenced")

	code, _ = s.do(t, http.MethodDelete, "/api/products/"+product.ID, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodDelete, "/api/suppliers/S1", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, _ = s.do(t, http.MethodGet, "/api/suppliers/S1", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWarehouseRoutes(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/warehouses", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPut, "/api/warehouses/42", gin.H{"code": "X"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodDelete, "/api/warehouses/42", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := s.do(t, http.MethodPut, "/api/warehouses/abc", gin.H{"code": "X"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid id", env.Error)

	s.do(t, http.MethodPost, "/api/warehouses", gin.H{"code": "Bodega Norte"})
	s.do(t, http.MethodPost, "/api/warehouses", gin.H{"code": "Bodega Sur"})

	code, env = s.do(t, http.MethodGet, "/api/warehouses/search/norte", nil)
	require.Equal(t, http.StatusOK, code)
	var found []map[string]interface{}
	decode(t, env, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Bodega Norte", found[0]["code"])

	code, env = s.do(t, http.MethodGet, "/api/warehouses", nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &found)
	assert.Len(t, found, 2)
}

func TestSupplierActiveFilter(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/suppliers", gin.H{"national_id": "S1", "name": "Acme"})
	s.do(t, http.MethodPost, "/api/suppliers", gin.H{"national_id": "S2", "name": "Beta", "active": false})

	code, env := s.do(t, http.MethodGet, "/api/suppliers?active=true", nil)
	require.Equal(t, http.StatusOK, code)
	var suppliers []map[string]interface{}
	decode(t, env, &suppliers)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "S1", suppliers[0]["national_id"])

	code, env = s.do(t, http.MethodPost, "/api/suppliers", gin.H{"national_id": "S1", "name": "Again"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "supplier already exists", env.Error)
}

func TestInventoryRoutes(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/suppliers", gin.H{"national_id": "S1", "name": "Acme"})
	s.do(t, http.MethodPost, "/api/products", gin.H{"id": "P1", "description": "Coffee", "supplier_id": "S1"})
	_, env := s.do(t, http.MethodPost, "/api/warehouses", gin.H{"code": "W1"})
	var warehouse struct {
		ID int64 `json:"id"`
	}
	decode(t, env, &warehouse)

	code, env := s.do(t, http.MethodPost, "/api/inventory", gin.H{"product_id": "P1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "missing required fields")

	code, env = s.do(t, http.MethodPost, "/api/inventory", gin.H{
		"product_id":   "P1",
		"warehouse_id": warehouse.ID,
		"entry_date":   "2024-01-05",
		"humidity":     11.5,
		"fermentation": "3.2",
	})
	require.Equal(t, http.StatusCreated, code)
	var lot struct {
		ID        int64  `json:"id"`
		EntryDate string `json:"entry_date"`
		Humidity  string `json:"humidity"`
	}
	decode(t, env, &lot)
	assert.Equal(t, "2024-01-05", lot.EntryDate)
	assert.Equal(t, "11.5", lot.Humidity)

	code, env = s.do(t, http.MethodGet, "/api/inventory/1", nil)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		ProductDescription string `json:"product_description"`
		WarehouseCode      string `json:"warehouse_code"`
	}
	decode(t, env, &view)
	assert.Equal(t, "Coffee", view.ProductDescription)
	assert.Equal(t, "W1", view.WarehouseCode)

	code, _ = s.do(t, http.MethodGet, "/api/inventory/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodDelete, "/api/inventory/1", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, "/api/inventory/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOrderRoutes(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/suppliers", gin.H{"national_id": "S1", "name": "Acme"})
	s.do(t, http.MethodPost, "/api/products", gin.H{"id": "P1", "description": "Coffee", "supplier_id": "S1"})

	body := gin.H{
		"supplier_id":   "S1",
		"product_id":    "P1",
		"delivery_date": "2024-07-01",
		"quantity":      5,
		"fulfilled":     true,
	}

	code, env := s.do(t, http.MethodPost, "/api/orders", body, IdempotencyHeader, "abc-1")
	require.Equal(t, http.StatusCreated, code)
	var order struct {
		ID        int64 `json:"id"`
		Fulfilled bool  `json:"fulfilled"`
	}
	decode(t, env, &order)
	assert.False(t, order.Fulfilled)

	code, env = s.do(t, http.MethodPost, "/api/orders", body, IdempotencyHeader, "abc-1")
	require.Equal(t, http.StatusOK, code)
	var replay struct {
		ID int64 `json:"id"`
	}
	decode(t, env, &replay)
	assert.Equal(t, order.ID, replay.ID)
	assert.Equal(t, 1, s.db.OrderCount())

	code, env = s.do(t, http.MethodPost, "/api/orders", gin.H{"supplier_id": "S1", "product_id": "ghost", "delivery_date": "2024-07-01", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "supplier or product not found", env.Error)

	code, _ = s.do(t, http.MethodPut, "/api/orders/1", body)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/orders/1", nil)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		Fulfilled    bool   `json:"fulfilled"`
		SupplierName string `json:"supplier_name"`
	}
	decode(t, env, &view)
	assert.True(t, view.Fulfilled)
	assert.Equal(t, "Acme", view.SupplierName)

	code, _ = s.do(t, http.MethodDelete, "/api/orders/1", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodDelete, "/api/orders/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDashboardStatsRoute(t *testing.T) {
	s := newTestServer(t)
	s.db.FailOn("CountSuppliers", errors.New("schema missing"))
	s.do(t, http.MethodPost, "/api/warehouses", gin.H{"code": "W1"})

	code, env := s.do(t, http.MethodGet, "/api/dashboard-stats", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var stats map[string]float64
	decode(t, env, &stats)
	assert.Equal(t, 1.0, stats["total_warehouses"])
	assert.Equal(t, 0.0, stats["total_suppliers"])
	assert.Equal(t, 0.0, stats["fulfillment_rate"])
	assert.Len(t, stats, 6)
}

func TestUnmountedComponentIsNotRouted(t *testing.T) {
	db := testutil.NewMemStore()
	router := gin.New()
	NewHandler(Services{Warehouses: service.NewWarehouseService(db, nil)}, db).SetupRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/warehouses", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type downDB struct{}

func (downDB) Ping(ctx context.Context) error { return errors.New("down") }

func TestReadiness(t *testing.T) {
	router := gin.New()
	NewHandler(Services{}, downDB{}).SetupRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
