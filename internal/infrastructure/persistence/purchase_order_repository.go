package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/retailops/backend/internal/domain/purchasing"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM.
// All methods run on the transaction carried in the context when one is
// present, so repository calls inside a TxManager callback join that
// transaction.
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its lines within a store
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, storeID, orderID uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	err := DBFromContext(ctx, r.db).
		Preload("Lines").
		Where("store_id = ? AND id = ?", storeID, orderID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDLocked finds a purchase order and takes a FOR UPDATE lock on its
// header row. Concurrent receivers of the same order serialize here.
func (r *GormPurchaseOrderRepository) FindByIDLocked(ctx context.Context, storeID, orderID uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	err := DBFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Lines").
		Where("store_id = ? AND id = ?", storeID, orderID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPONumber finds a purchase order by its document number within a store
func (r *GormPurchaseOrderRepository) FindByPONumber(ctx context.Context, storeID uuid.UUID, poNumber string) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	err := DBFromContext(ctx, r.db).
		Preload("Lines").
		Where("store_id = ? AND po_number = ?", storeID, poNumber).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds purchase orders for a store with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, storeID uuid.UUID, filter purchasing.ListFilter) ([]*purchasing.PurchaseOrder, error) {
	var orderModels []models.PurchaseOrderModel

	query := DBFromContext(ctx, r.db).
		Model(&models.PurchaseOrderModel{}).
		Where("store_id = ?", storeID)
	query = r.applyFilter(query, filter, true)

	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*purchasing.PurchaseOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, nil
}

// Count returns the number of purchase orders for a store matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, storeID uuid.UUID, filter purchasing.ListFilter) (int64, error) {
	var count int64
	query := DBFromContext(ctx, r.db).
		Model(&models.PurchaseOrderModel{}).
		Where("store_id = ?", storeID)
	query = r.applyFilter(query, filter, false)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns purchase order counts grouped by status for a store
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context, storeID uuid.UUID) (map[purchasing.Status]int64, error) {
	type statusCount struct {
		Status purchasing.Status
		Count  int64
	}
	var rows []statusCount

	err := DBFromContext(ctx, r.db).
		Model(&models.PurchaseOrderModel{}).
		Select("status, count(*) as count").
		Where("store_id = ?", storeID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[purchasing.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save persists a new purchase order together with its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return DBFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		model := models.PurchaseOrderModelFromDomain(order)

		if err := tx.Omit("Lines").Create(model).Error; err != nil {
			if isDuplicateKeyError(err) {
				return shared.NewDomainError(shared.CodeConflict, "PO number already exists")
			}
			return err
		}

		for i := range order.Lines {
			order.Lines[i].PurchaseOrderID = order.ID
			lineModel := models.PurchaseOrderLineModelFromDomain(&order.Lines[i])
			if err := tx.Create(lineModel).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check). Lines are
// updated in place; a purchase order never loses lines after creation.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return DBFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		err := tx.Model(&models.PurchaseOrderModel{}).
			Where("store_id = ? AND id = ?", order.StoreID, order.ID).
			Select("version").
			Scan(&currentVersion).Error
		if err != nil {
			return err
		}
		if currentVersion == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != order.Version {
			return shared.NewDomainError(shared.CodeConflict, "The order has been modified by another process")
		}

		newVersion := currentVersion + 1
		order.UpdatedAt = time.Now()

		result := tx.Model(&models.PurchaseOrderModel{}).
			Where("store_id = ? AND id = ? AND version = ?", order.StoreID, order.ID, currentVersion).
			Updates(map[string]interface{}{
				"supplier_id":   order.SupplierID,
				"supplier_name": order.SupplierName,
				"total_amount":  order.TotalAmount,
				"status":        order.Status,
				"notes":         order.Notes,
				"order_date":    order.OrderDate,
				"expected_date": order.ExpectedDate,
				"received_date": order.ReceivedDate,
				"cancelled_at":  order.CancelledAt,
				"closed_at":     order.ClosedAt,
				"version":       newVersion,
				"updated_at":    order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConflict, "The order has been modified by another process")
		}
		order.Version = newVersion

		for i := range order.Lines {
			line := &order.Lines[i]
			line.PurchaseOrderID = order.ID
			err := tx.Model(&models.PurchaseOrderLineModel{}).
				Where("id = ? AND purchase_order_id = ?", line.ID, order.ID).
				Updates(map[string]interface{}{
					"received_quantity": line.ReceivedQuantity,
					"updated_at":        line.UpdatedAt,
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// applyFilter applies list filter conditions; pagination and ordering are
// skipped for count queries
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter purchasing.ListFilter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("po_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}

	if !paginate {
		return query
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Whitelist sort field to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
