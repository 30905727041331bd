package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/purchasing"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo      purchasing.PurchaseOrderRepository
	counterRepo    purchasing.StoreCounterRepository
	supplierReader partner.SupplierReader
	productReader  catalog.ProductReader
	locationReader inventory.LocationReader
	stockLedger    inventory.StockLedger
	txManager      shared.TxManager
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchasing.PurchaseOrderRepository,
	counterRepo purchasing.StoreCounterRepository,
	supplierReader partner.SupplierReader,
	productReader catalog.ProductReader,
	locationReader inventory.LocationReader,
	stockLedger inventory.StockLedger,
	txManager shared.TxManager,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:      orderRepo,
		counterRepo:    counterRepo,
		supplierReader: supplierReader,
		productReader:  productReader,
		locationReader: locationReader,
		stockLedger:    stockLedger,
		txManager:      txManager,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order in ORDERED status. Number allocation,
// header and lines are committed in one transaction.
func (s *PurchaseOrderService) Create(ctx context.Context, storeID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierReader.FindByID(ctx, storeID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.productReader.FindByIDs(ctx, storeID, productIDs)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if _, ok := products[line.ProductID]; !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Product %s not found", line.ProductID))
		}
	}

	var order *purchasing.PurchaseOrder
	err = s.txManager.InTx(ctx, func(ctx context.Context) error {
		counter, err := s.counterRepo.NextPONumber(ctx, storeID)
		if err != nil {
			return err
		}
		poNumber := counter.PONumber(time.Now().Year())

		order, err = purchasing.NewPurchaseOrder(storeID, poNumber, supplier.ID, supplier.Name)
		if err != nil {
			return err
		}

		for _, line := range req.Lines {
			product := products[line.ProductID]
			unitCost := valueobject.NewMoneyUSD(line.UnitCost)
			if _, err := order.AddLine(product.ID, product.Name, product.SKU, line.Quantity, unitCost); err != nil {
				return err
			}
		}

		if req.Notes != "" {
			order.SetNotes(req.Notes)
		}
		if req.OrderDate != nil {
			order.SetOrderDate(*req.OrderDate)
		}
		order.SetExpectedDate(req.ExpectedDate)
		if req.CreatedBy != nil {
			order.SetCreatedBy(*req.CreatedBy)
		}

		if err := order.Place(); err != nil {
			return err
		}

		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByPONumber retrieves a purchase order by its document number
func (s *PurchaseOrderService) GetByPONumber(ctx context.Context, storeID uuid.UUID, poNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByPONumber(ctx, storeID, poNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, storeID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Unknown status %q", *filter.Status))
	}

	domainFilter := purchasing.ListFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
			Filters:  make(map[string]interface{}),
		},
		Status:     filter.Status,
		SupplierID: filter.SupplierID,
	}

	orders, err := s.orderRepo.FindAll(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// StatusSummary returns order counts grouped by status
func (s *PurchaseOrderService) StatusSummary(ctx context.Context, storeID uuid.UUID) (*StatusSummaryResponse, error) {
	counts, err := s.orderRepo.CountByStatus(ctx, storeID)
	if err != nil {
		return nil, err
	}
	summary := ToStatusSummaryResponse(counts)
	return &summary, nil
}

// Update updates header fields of an order that has not started receiving
func (s *PurchaseOrderService) Update(ctx context.Context, storeID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}

	if req.SupplierID != nil {
		supplier, err := s.supplierReader.FindByID(ctx, storeID, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		if err := order.ChangeSupplier(supplier.ID, supplier.Name); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := order.UpdateNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.ExpectedDate != nil {
		if err := order.UpdateExpectedDate(req.ExpectedDate); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// ReceiveLine records a receipt of goods against one order line. The row
// lock on the order, the line update, the status recomputation and every
// stock ledger write happen in a single transaction; a failure at any point
// leaves both the order and the ledger untouched.
func (s *PurchaseOrderService) ReceiveLine(ctx context.Context, storeID, orderID, lineID uuid.UUID, req ReceiveLineRequest) (*PurchaseOrderResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Receive quantity must be positive")
	}

	var order *purchasing.PurchaseOrder
	err := s.txManager.InTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDLocked(ctx, storeID, orderID)
		if err != nil {
			return err
		}

		line := order.GetLine(lineID)
		if line == nil {
			return shared.NewDomainError(shared.CodeNotFound, "Purchase order line not found")
		}

		product, err := s.productReader.FindByID(ctx, storeID, line.ProductID)
		if err != nil {
			return err
		}
		location, err := s.locationReader.FindByID(ctx, storeID, req.LocationID)
		if err != nil {
			return err
		}

		// Guards the state and quantity bounds before any ledger write
		if _, err := order.ReceiveLine(lineID, req.Quantity); err != nil {
			return err
		}

		if product.UnitTracked {
			if err := s.addUnitTrackedStock(ctx, order, line, location.ID, req); err != nil {
				return err
			}
		} else {
			if len(req.SerializedUnits) > 0 {
				return shared.NewDomainError(shared.CodeInvalidInput,
					"Serialized units are not accepted for batch-tracked products")
			}
			err := s.stockLedger.AddBatch(ctx, inventory.BatchReceipt{
				StoreID:       storeID,
				ProductID:     line.ProductID,
				LocationID:    location.ID,
				Quantity:      req.Quantity,
				UnitCost:      line.UnitCost,
				ReferenceType: inventory.ReferenceTypePurchaseOrder,
				ReferenceID:   order.ID,
				SourceLineID:  line.ID,
				ReceivedBy:    req.ReceivedBy,
			})
			if err != nil {
				return err
			}
		}

		return s.orderRepo.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// addUnitTrackedStock writes one ledger entry per serialized unit
func (s *PurchaseOrderService) addUnitTrackedStock(ctx context.Context, order *purchasing.PurchaseOrder, line *purchasing.PurchaseOrderLine, locationID uuid.UUID, req ReceiveLineRequest) error {
	if int64(len(req.SerializedUnits)) != req.Quantity {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Expected %d serialized units, got %d", req.Quantity, len(req.SerializedUnits)))
	}

	seen := make(map[string]struct{}, len(req.SerializedUnits))
	for _, unit := range req.SerializedUnits {
		if _, dup := seen[unit.SerialNumber]; dup {
			return shared.NewDomainError(shared.CodeInvalidInput,
				fmt.Sprintf("Duplicate serial number %q in request", unit.SerialNumber))
		}
		seen[unit.SerialNumber] = struct{}{}
	}

	for _, unit := range req.SerializedUnits {
		condition := unit.Condition
		if condition == "" {
			condition = inventory.UnitConditionNew
		}
		err := s.stockLedger.AddUnitTrackedItem(ctx, inventory.UnitReceipt{
			StoreID:       order.StoreID,
			ProductID:     line.ProductID,
			LocationID:    locationID,
			SerialNumber:  unit.SerialNumber,
			Condition:     condition,
			UnitCost:      line.UnitCost,
			Notes:         unit.Notes,
			ReferenceType: inventory.ReferenceTypePurchaseOrder,
			ReferenceID:   order.ID,
			SourceLineID:  line.ID,
			ReceivedBy:    req.ReceivedBy,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Cancel cancels an order that has no received goods
func (s *PurchaseOrderService) Cancel(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Close closes a fully received order
func (s *PurchaseOrderService) Close(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Close(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetNumberingConfig returns the store's PO number settings. Stores that
// never created an order report the defaults.
func (s *PurchaseOrderService) GetNumberingConfig(ctx context.Context, storeID uuid.UUID) (*NumberingConfigResponse, error) {
	counter, err := s.counterRepo.Get(ctx, storeID)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.CodeNotFound {
			return &NumberingConfigResponse{
				Prefix:  purchasing.DefaultPONumberPrefix,
				Padding: purchasing.DefaultPONumberPadding,
			}, nil
		}
		return nil, err
	}
	return &NumberingConfigResponse{
		Prefix:       counter.PONumberPrefix,
		Padding:      counter.PONumberPadding,
		LastSequence: counter.LastPONumber,
	}, nil
}

// UpdateNumberingConfig changes the store's PO number prefix and padding.
// Existing document numbers are never rewritten.
func (s *PurchaseOrderService) UpdateNumberingConfig(ctx context.Context, storeID uuid.UUID, req UpdateNumberingConfigRequest) (*NumberingConfigResponse, error) {
	counter, err := s.counterRepo.Get(ctx, storeID)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != shared.CodeNotFound {
			return nil, err
		}
		counter, err = purchasing.NewStoreCounter(storeID)
		if err != nil {
			return nil, err
		}
	}

	if err := counter.Configure(req.Prefix, req.Padding); err != nil {
		return nil, err
	}
	if err := s.counterRepo.SaveConfig(ctx, counter); err != nil {
		return nil, err
	}

	return &NumberingConfigResponse{
		Prefix:       counter.PONumberPrefix,
		Padding:      counter.PONumberPadding,
		LastSequence: counter.LastPONumber,
	}, nil
}

// publishEvents publishes and clears pending domain events. Publication is
// best effort after commit; the publisher handles its own error reporting.
func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *purchasing.PurchaseOrder) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}
