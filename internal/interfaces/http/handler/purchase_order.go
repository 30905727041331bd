package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apppurchasing "github.com/retailops/backend/internal/application/purchasing"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-supplied key that deduplicates
// retried receive requests.
const IdempotencyKeyHeader = "Idempotency-Key"

// PurchaseOrderHandler exposes purchase order operations over HTTP.
type PurchaseOrderHandler struct {
	BaseHandler
	service        *apppurchasing.PurchaseOrderService
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
}

// NewPurchaseOrderHandler creates a purchase order handler.
func NewPurchaseOrderHandler(
	service *apppurchasing.PurchaseOrderService,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		service:        service,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
	}
}

// RegisterRoutes mounts the purchase order endpoints on the given group.
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/status-summary", h.StatusSummary)
		orders.GET("/numbering", h.GetNumberingConfig)
		orders.PUT("/numbering", h.UpdateNumberingConfig)
		orders.GET("/number/:po_number", h.GetByPONumber)
		orders.GET("/:id", h.GetByID)
		orders.PATCH("/:id", h.Update)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/close", h.Close)
		orders.POST("/:id/lines/:line_id/receive", h.ReceiveLine)
	}
}

// Create handles POST /purchase-orders.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}

	var req apppurchasing.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if userID, ok := h.getUserID(c); ok {
		req.CreatedBy = &userID
	}

	order, err := h.service.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /purchase-orders/:id.
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByPONumber handles GET /purchase-orders/number/:po_number.
func (h *PurchaseOrderHandler) GetByPONumber(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}
	poNumber := c.Param("po_number")
	if poNumber == "" {
		h.BadRequest(c, "PO number is required")
		return
	}

	order, err := h.service.GetByPONumber(c.Request.Context(), storeID, poNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /purchase-orders.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}

	var filter apppurchasing.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		h.BadRequest(c, fmt.Sprintf("Unknown status %q", *filter.Status))
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.service.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// StatusSummary handles GET /purchase-orders/status-summary.
func (h *PurchaseOrderHandler) StatusSummary(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}

	summary, err := h.service.StatusSummary(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update handles PATCH /purchase-orders/:id.
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req apppurchasing.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.service.Update(c.Request.Context(), storeID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// ReceiveLine handles POST /purchase-orders/:id/lines/:line_id/receive.
//
// When the client supplies an Idempotency-Key header, the key is claimed
// before the receive executes; a retry with the same key while the claim is
// live gets a 409 instead of double-receiving. A failed receive does not
// release the key, so retries after a failure need a fresh key.
func (h *PurchaseOrderHandler) ReceiveLine(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseUUIDParam(c, "line_id")
	if !ok {
		return
	}

	var req apppurchasing.ReceiveLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if userID, ok := h.getUserID(c); ok {
		req.ReceivedBy = &userID
	}

	if key := c.GetHeader(IdempotencyKeyHeader); key != "" {
		scopedKey := fmt.Sprintf("%s:%s:%s", storeID, orderID, key)
		first, err := h.idempotency.MarkProcessed(c.Request.Context(), scopedKey, h.idempotencyTTL)
		if err != nil {
			logger.L(c.Request.Context()).Error("idempotency check failed", zap.Error(err))
			h.InternalError(c)
			return
		}
		if !first {
			h.Conflict(c, "Duplicate request: this idempotency key was already used")
			return
		}
	}

	order, err := h.service.ReceiveLine(c.Request.Context(), storeID, orderID, lineID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /purchase-orders/:id/cancel.
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// Close handles POST /purchase-orders/:id/close.
func (h *PurchaseOrderHandler) Close(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.Close(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, order)
}

// GetNumberingConfig handles GET /purchase-orders/numbering.
func (h *PurchaseOrderHandler) GetNumberingConfig(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}

	cfg, err := h.service.GetNumberingConfig(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cfg)
}

// UpdateNumberingConfig handles PUT /purchase-orders/numbering.
func (h *PurchaseOrderHandler) UpdateNumberingConfig(c *gin.Context) {
	storeID, ok := h.requireStoreID(c)
	if !ok {
		return
	}

	var req apppurchasing.UpdateNumberingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cfg, err := h.service.UpdateNumberingConfig(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cfg)
}

func (h *PurchaseOrderHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.ErrorWithCode(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, fmt.Sprintf("Invalid %s parameter", name))
		return uuid.Nil, false
	}
	return id, true
}
