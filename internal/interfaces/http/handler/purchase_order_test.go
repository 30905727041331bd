package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppurchasing "github.com/retailops/backend/internal/application/purchasing"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/purchasing"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/cache"
	"github.com/retailops/backend/internal/interfaces/http/dto"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
)

// In-memory stubs driving the real application service.

type stubOrderRepo struct {
	orders map[uuid.UUID]*purchasing.PurchaseOrder
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*purchasing.PurchaseOrder)}
}

func (r *stubOrderRepo) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *stubOrderRepo) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *stubOrderRepo) FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*purchasing.PurchaseOrder, error) {
	order, ok := r.orders[orderID]
	if !ok || order.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *stubOrderRepo) FindByIDLocked(ctx context.Context, storeID, orderID uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return r.FindByID(ctx, storeID, orderID)
}

func (r *stubOrderRepo) FindByPONumber(ctx context.Context, storeID uuid.UUID, poNumber string) (*purchasing.PurchaseOrder, error) {
	for _, order := range r.orders {
		if order.StoreID == storeID && order.PONumber == poNumber {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *stubOrderRepo) FindAll(ctx context.Context, storeID uuid.UUID, filter purchasing.ListFilter) ([]*purchasing.PurchaseOrder, error) {
	var result []*purchasing.PurchaseOrder
	for _, order := range r.orders {
		if order.StoreID == storeID {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *stubOrderRepo) Count(ctx context.Context, storeID uuid.UUID, filter purchasing.ListFilter) (int64, error) {
	var count int64
	for _, order := range r.orders {
		if order.StoreID == storeID {
			count++
		}
	}
	return count, nil
}

func (r *stubOrderRepo) CountByStatus(ctx context.Context, storeID uuid.UUID) (map[purchasing.Status]int64, error) {
	counts := make(map[purchasing.Status]int64)
	for _, order := range r.orders {
		if order.StoreID == storeID {
			counts[order.Status]++
		}
	}
	return counts, nil
}

type stubCounterRepo struct {
	counters map[uuid.UUID]*purchasing.StoreCounter
}

func newStubCounterRepo() *stubCounterRepo {
	return &stubCounterRepo{counters: make(map[uuid.UUID]*purchasing.StoreCounter)}
}

func (r *stubCounterRepo) NextPONumber(ctx context.Context, storeID uuid.UUID) (*purchasing.StoreCounter, error) {
	counter, ok := r.counters[storeID]
	if !ok {
		var err error
		counter, err = purchasing.NewStoreCounter(storeID)
		if err != nil {
			return nil, err
		}
		r.counters[storeID] = counter
	}
	counter.LastPONumber++
	return counter, nil
}

func (r *stubCounterRepo) Get(ctx context.Context, storeID uuid.UUID) (*purchasing.StoreCounter, error) {
	counter, ok := r.counters[storeID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return counter, nil
}

func (r *stubCounterRepo) SaveConfig(ctx context.Context, counter *purchasing.StoreCounter) error {
	r.counters[counter.StoreID] = counter
	return nil
}

type stubSupplierReader struct {
	suppliers map[uuid.UUID]*partner.Supplier
}

func (r *stubSupplierReader) FindByID(ctx context.Context, storeID, supplierID uuid.UUID) (*partner.Supplier, error) {
	supplier, ok := r.suppliers[supplierID]
	if !ok || supplier.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return supplier, nil
}

type stubProductReader struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *stubProductReader) FindByID(ctx context.Context, storeID, productID uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[productID]
	if !ok || product.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *stubProductReader) FindByIDs(ctx context.Context, storeID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	result := make(map[uuid.UUID]*catalog.Product)
	for _, id := range productIDs {
		if product, err := r.FindByID(ctx, storeID, id); err == nil {
			result[id] = product
		}
	}
	return result, nil
}

type stubLocationReader struct {
	locations map[uuid.UUID]*inventory.Location
}

func (r *stubLocationReader) FindByID(ctx context.Context, storeID, locationID uuid.UUID) (*inventory.Location, error) {
	location, ok := r.locations[locationID]
	if !ok || location.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return location, nil
}

type stubStockLedger struct {
	unitReceipts  []inventory.UnitReceipt
	batchReceipts []inventory.BatchReceipt
}

func (l *stubStockLedger) AddUnitTrackedItem(ctx context.Context, receipt inventory.UnitReceipt) error {
	l.unitReceipts = append(l.unitReceipts, receipt)
	return nil
}

func (l *stubStockLedger) AddBatch(ctx context.Context, receipt inventory.BatchReceipt) error {
	l.batchReceipts = append(l.batchReceipts, receipt)
	return nil
}

type stubTxManager struct{}

func (stubTxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// poTestEnv bundles a wired router with the fixtures behind it.
type poTestEnv struct {
	router     *gin.Engine
	storeID    uuid.UUID
	userID     uuid.UUID
	supplierID uuid.UUID
	productID  uuid.UUID
	locationID uuid.UUID
	orders     *stubOrderRepo
	ledger     *stubStockLedger
}

func newPOTestEnv(t *testing.T) *poTestEnv {
	t.Helper()

	storeID := uuid.New()
	supplier, err := partner.NewSupplier(storeID, "Acme Supply")
	require.NoError(t, err)
	product, err := catalog.NewProduct(storeID, "Widget", "WID-001", false)
	require.NoError(t, err)
	location, err := inventory.NewLocation(storeID, "Main Floor", "MAIN")
	require.NoError(t, err)

	orders := newStubOrderRepo()
	ledger := &stubStockLedger{}
	service := apppurchasing.NewPurchaseOrderService(
		orders,
		newStubCounterRepo(),
		&stubSupplierReader{suppliers: map[uuid.UUID]*partner.Supplier{supplier.ID: supplier}},
		&stubProductReader{products: map[uuid.UUID]*catalog.Product{product.ID: product}},
		&stubLocationReader{locations: map[uuid.UUID]*inventory.Location{location.ID: location}},
		ledger,
		stubTxManager{},
	)

	env := &poTestEnv{
		storeID:    storeID,
		userID:     uuid.New(),
		supplierID: supplier.ID,
		productID:  product.ID,
		locationID: location.ID,
		orders:     orders,
		ledger:     ledger,
	}

	h := NewPurchaseOrderHandler(service, cache.NewInMemoryIdempotencyStore(), time.Hour)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.JWTStoreIDKey, env.storeID.String())
		c.Set(middleware.JWTUserIDKey, env.userID.String())
	})
	h.RegisterRoutes(router.Group("/api/v1"))
	env.router = router
	return env
}

func (env *poTestEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *poTestEnv) createOrder(t *testing.T, quantity int64) apppurchasing.PurchaseOrderResponse {
	t.Helper()
	w := env.do(t, "POST", "/api/v1/purchase-orders", gin.H{
		"supplier_id": env.supplierID,
		"lines": []gin.H{
			{"product_id": env.productID, "quantity": quantity, "unit_cost": "5.00"},
		},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data apppurchasing.PurchaseOrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestPurchaseOrderHandler_Create(t *testing.T) {
	env := newPOTestEnv(t)

	order := env.createOrder(t, 10)

	assert.Equal(t, "ORDERED", order.Status)
	assert.Equal(t, env.storeID, order.StoreID)
	assert.NotEmpty(t, order.PONumber)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("50.00")))
}

func TestPurchaseOrderHandler_Create_ValidationError(t *testing.T) {
	env := newPOTestEnv(t)

	w := env.do(t, "POST", "/api/v1/purchase-orders", gin.H{
		"supplier_id": env.supplierID,
		"lines":       []gin.H{},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
}

func TestPurchaseOrderHandler_Create_UnknownSupplier(t *testing.T) {
	env := newPOTestEnv(t)

	w := env.do(t, "POST", "/api/v1/purchase-orders", gin.H{
		"supplier_id": uuid.New(),
		"lines": []gin.H{
			{"product_id": env.productID, "quantity": 1, "unit_cost": "1.00"},
		},
	}, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
}

func TestPurchaseOrderHandler_GetByID(t *testing.T) {
	env := newPOTestEnv(t)
	order := env.createOrder(t, 3)

	w := env.do(t, "GET", "/api/v1/purchase-orders/"+order.ID.String(), nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), order.PONumber)
}

func TestPurchaseOrderHandler_GetByID_NotFound(t *testing.T) {
	env := newPOTestEnv(t)

	w := env.do(t, "GET", "/api/v1/purchase-orders/"+uuid.NewString(), nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseOrderHandler_GetByID_InvalidUUID(t *testing.T) {
	env := newPOTestEnv(t)

	w := env.do(t, "GET", "/api/v1/purchase-orders/not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, w))
}

func TestPurchaseOrderHandler_OtherStoreOrderIsNotFound(t *testing.T) {
	env := newPOTestEnv(t)

	otherStore := uuid.New()
	foreign, err := purchasing.NewPurchaseOrder(otherStore, "PO-2026-000001", uuid.New(), "Foreign Supplier")
	require.NoError(t, err)
	env.orders.orders[foreign.ID] = foreign

	w := env.do(t, "GET", "/api/v1/purchase-orders/"+foreign.ID.String(), nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
}

func TestPurchaseOrderHandler_List(t *testing.T) {
	env := newPOTestEnv(t)
	env.createOrder(t, 1)
	env.createOrder(t, 2)

	w := env.do(t, "GET", "/api/v1/purchase-orders?page=1&page_size=10", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestPurchaseOrderHandler_List_UnknownStatus(t *testing.T) {
	env := newPOTestEnv(t)

	w := env.do(t, "GET", "/api/v1/purchase-orders?status=SHIPPED", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchaseOrderHandler_ReceiveLine(t *testing.T) {
	env := newPOTestEnv(t)
	order := env.createOrder(t, 10)
	require.Len(t, order.Lines, 1)

	path := fmt.Sprintf("/api/v1/purchase-orders/%s/lines/%s/receive", order.ID, order.Lines[0].ID)
	w := env.do(t, "POST", path, gin.H{
		"quantity":    4,
		"location_id": env.locationID,
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "PARTIALLY_RECEIVED")
	require.Len(t, env.ledger.batchReceipts, 1)
	assert.Equal(t, int64(4), env.ledger.batchReceipts[0].Quantity)
	assert.Equal(t, order.ID, env.ledger.batchReceipts[0].ReferenceID)
	assert.Equal(t, order.Lines[0].ID, env.ledger.batchReceipts[0].SourceLineID)
}

func TestPurchaseOrderHandler_ReceiveLine_ExceedsRemaining(t *testing.T) {
	env := newPOTestEnv(t)
	order := env.createOrder(t, 5)

	path := fmt.Sprintf("/api/v1/purchase-orders/%s/lines/%s/receive", order.ID, order.Lines[0].ID)
	w := env.do(t, "POST", path, gin.H{
		"quantity":    6,
		"location_id": env.locationID,
	}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidQuantity, errorCode(t, w))
	assert.Empty(t, env.ledger.batchReceipts)
}

func TestPurchaseOrderHandler_ReceiveLine_ZeroQuantity(t *testing.T) {
	env := newPOTestEnv(t)
	order := env.createOrder(t, 5)

	path := fmt.Sprintf("/api/v1/purchase-orders/%s/lines/%s/receive", order.ID, order.Lines[0].ID)
	for _, quantity := range []int64{0, -3} {
		w := env.do(t, "POST", path, gin.H{
			"quantity":    quantity,
			"location_id": env.locationID,
		}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		assert.Equal(t, dto.ErrCodeInvalidQuantity, errorCode(t, w))
	}
	assert.Empty(t, env.ledger.batchReceipts)
}

func TestPurchaseOrderHandler_ReceiveLine_IdempotencyKeyReplay(t *testing.T) {
	env := newPOTestEnv(t)
	order := env.createOrder(t, 10)

	path := fmt.Sprintf("/api/v1/purchase-orders/%s/lines/%s/receive", order.ID, order.Lines[0].ID)
	body := gin.H{"quantity": 2, "location_id": env.locationID}
	headers := map[string]string{IdempotencyKeyHeader: "receive-attempt-1"}

	first := env.do(t, "POST", path, body, headers)
	assert.Equal(t, http.StatusOK, first.Code, first.Body.String())

	second := env.do(t, "POST", path, body, headers)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, dto.ErrCodeConflict, errorCode(t, second))

	// Only the first attempt hit the ledger.
	assert.Len(t, env.ledger.batchReceipts, 1)
}

func TestPurchaseOrderHandler_Cancel(t *testing.T) {
	env := newPOTestEnv(t)
	order := env.createOrder(t, 5)

	w := env.do(t, "POST", "/api/v1/purchase-orders/"+order.ID.String()+"/cancel", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CANCELLED")
}

func TestPurchaseOrderHandler_Cancel_PartiallyReceived(t *testing.T) {
	env := newPOTestEnv(t)
	order := env.createOrder(t, 10)

	path := fmt.Sprintf("/api/v1/purchase-orders/%s/lines/%s/receive", order.ID, order.Lines[0].ID)
	w := env.do(t, "POST", path, gin.H{"quantity": 3, "location_id": env.locationID}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "POST", "/api/v1/purchase-orders/"+order.ID.String()+"/cancel", nil, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w))
}

func TestPurchaseOrderHandler_StatusSummary(t *testing.T) {
	env := newPOTestEnv(t)
	env.createOrder(t, 1)
	order := env.createOrder(t, 2)
	w := env.do(t, "POST", "/api/v1/purchase-orders/"+order.ID.String()+"/cancel", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/v1/purchase-orders/status-summary", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data apppurchasing.StatusSummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Ordered)
	assert.Equal(t, int64(1), resp.Data.Cancelled)
	assert.Equal(t, int64(2), resp.Data.Total)
}

func TestPurchaseOrderHandler_NumberingConfig(t *testing.T) {
	env := newPOTestEnv(t)

	w := env.do(t, "PUT", "/api/v1/purchase-orders/numbering", gin.H{
		"prefix":  "ACME",
		"padding": 8,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, "GET", "/api/v1/purchase-orders/numbering", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data apppurchasing.NumberingConfigResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ACME", resp.Data.Prefix)
	assert.Equal(t, 8, resp.Data.Padding)

	order := env.createOrder(t, 1)
	assert.Contains(t, order.PONumber, "ACME-")
}

func TestPurchaseOrderHandler_MissingStoreIdentity(t *testing.T) {
	// A router without the identity middleware simulates an unauthenticated
	// request reaching the handler.
	bare := gin.New()
	h := NewPurchaseOrderHandler(nil, cache.NewInMemoryIdempotencyStore(), time.Hour)
	h.RegisterRoutes(bare.Group("/api/v1"))

	req, _ := http.NewRequest("GET", "/api/v1/purchase-orders", nil)
	w := httptest.NewRecorder()
	bare.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
