package persistence

import (
	"context"
	"time"

	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLedger implements the inventory.StockLedger gateway using GORM.
// Every write goes through DBFromContext, so calls made inside a TxManager
// callback join the caller's transaction and roll back with it.
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// AddUnitTrackedItem records one serialized unit: the unit row itself, a
// stock level increment of one, and a receipt audit record.
func (l *GormStockLedger) AddUnitTrackedItem(ctx context.Context, receipt inventory.UnitReceipt) error {
	if receipt.SerialNumber == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Serial number cannot be empty")
	}

	db := DBFromContext(ctx, l.db)
	now := time.Now()

	condition := receipt.Condition
	if condition == "" {
		condition = inventory.UnitConditionNew
	}

	unit := &models.StockUnitModel{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		StoreID:      receipt.StoreID,
		ProductID:    receipt.ProductID,
		LocationID:   receipt.LocationID,
		SerialNumber: receipt.SerialNumber,
		Condition:    condition,
		UnitCost:     receipt.UnitCost,
		Notes:        receipt.Notes,
		Status:       inventory.UnitStatusInStock,
		SourceLineID: receipt.SourceLineID,
	}
	if err := db.Create(unit).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.NewDomainError(shared.CodeConflict, "Serial number already in stock")
		}
		return err
	}

	if err := l.incrementStockLevel(db, receipt.StoreID, receipt.ProductID, receipt.LocationID, 1, now); err != nil {
		return err
	}

	return l.writeReceipt(db, receiptRecord{
		StoreID:       receipt.StoreID,
		ProductID:     receipt.ProductID,
		LocationID:    receipt.LocationID,
		Quantity:      1,
		UnitCost:      receipt.UnitCost,
		ReferenceType: receipt.ReferenceType,
		ReferenceID:   receipt.ReferenceID,
		SourceLineID:  receipt.SourceLineID,
		ReceivedBy:    receipt.ReceivedBy,
	}, now)
}

// AddBatch records a quantity of non-serialized stock in one stock level
// increment and one receipt record.
func (l *GormStockLedger) AddBatch(ctx context.Context, receipt inventory.BatchReceipt) error {
	if receipt.Quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Batch quantity must be positive")
	}

	db := DBFromContext(ctx, l.db)
	now := time.Now()

	if err := l.incrementStockLevel(db, receipt.StoreID, receipt.ProductID, receipt.LocationID, receipt.Quantity, now); err != nil {
		return err
	}

	return l.writeReceipt(db, receiptRecord{
		StoreID:       receipt.StoreID,
		ProductID:     receipt.ProductID,
		LocationID:    receipt.LocationID,
		Quantity:      receipt.Quantity,
		UnitCost:      receipt.UnitCost,
		ReferenceType: receipt.ReferenceType,
		ReferenceID:   receipt.ReferenceID,
		SourceLineID:  receipt.SourceLineID,
		ReceivedBy:    receipt.ReceivedBy,
	}, now)
}

// incrementStockLevel upserts the per-location quantity. The conflict
// target matches the unique index on (store_id, product_id, location_id).
func (l *GormStockLedger) incrementStockLevel(db *gorm.DB, storeID, productID, locationID uuid.UUID, quantity int64, now time.Time) error {
	level := &models.StockLevelModel{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		StoreID:    storeID,
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "store_id"}, {Name: "product_id"}, {Name: "location_id"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("stock_levels.quantity + ?", quantity),
			"updated_at": now,
		}),
	}).Create(level).Error
}

type receiptRecord struct {
	StoreID       uuid.UUID
	ProductID     uuid.UUID
	LocationID    uuid.UUID
	Quantity      int64
	UnitCost      decimal.Decimal
	ReferenceType string
	ReferenceID   uuid.UUID
	SourceLineID  uuid.UUID
	ReceivedBy    *uuid.UUID
}

func (l *GormStockLedger) writeReceipt(db *gorm.DB, rec receiptRecord, now time.Time) error {
	model := &models.StockReceiptModel{
		ID:            uuid.New(),
		StoreID:       rec.StoreID,
		ProductID:     rec.ProductID,
		LocationID:    rec.LocationID,
		Quantity:      rec.Quantity,
		UnitCost:      rec.UnitCost,
		ReferenceType: rec.ReferenceType,
		ReferenceID:   rec.ReferenceID,
		SourceLineID:  rec.SourceLineID,
		ReceivedBy:    rec.ReceivedBy,
		CreatedAt:     now,
	}
	return db.Create(model).Error
}

// Ensure GormStockLedger implements StockLedger
var _ inventory.StockLedger = (*GormStockLedger)(nil)
