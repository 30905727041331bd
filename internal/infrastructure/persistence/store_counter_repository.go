package persistence

import (
	"context"
	"errors"

	"github.com/retailops/backend/internal/domain/purchasing"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreCounterRepository implements StoreCounterRepository using GORM
type GormStoreCounterRepository struct {
	db *gorm.DB
}

// NewGormStoreCounterRepository creates a new GormStoreCounterRepository
func NewGormStoreCounterRepository(db *gorm.DB) *GormStoreCounterRepository {
	return &GormStoreCounterRepository{db: db}
}

// nextPONumberSQL allocates the next sequence value in one statement. The
// upsert takes a row lock on the counter, so concurrent allocations for the
// same store serialize and each caller sees a distinct value.
const nextPONumberSQL = `
INSERT INTO store_counters (store_id, last_po_number, po_number_prefix, po_number_padding, created_at, updated_at)
VALUES (?, 1, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (store_id)
DO UPDATE SET last_po_number = store_counters.last_po_number + 1, updated_at = CURRENT_TIMESTAMP
RETURNING store_id, last_po_number, po_number_prefix, po_number_padding, created_at, updated_at`

// NextPONumber atomically increments the store's purchase order sequence,
// creating the counter row with defaults on first use.
func (r *GormStoreCounterRepository) NextPONumber(ctx context.Context, storeID uuid.UUID) (*purchasing.StoreCounter, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Store ID cannot be empty")
	}

	var model models.StoreCounterModel
	err := DBFromContext(ctx, r.db).
		Raw(nextPONumberSQL, storeID, purchasing.DefaultPONumberPrefix, purchasing.DefaultPONumberPadding).
		Scan(&model).Error
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Get returns the current counter state for a store
func (r *GormStoreCounterRepository) Get(ctx context.Context, storeID uuid.UUID) (*purchasing.StoreCounter, error) {
	var model models.StoreCounterModel
	err := DBFromContext(ctx, r.db).
		Where("store_id = ?", storeID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveConfig persists prefix and padding settings without touching the
// sequence value of an existing row.
func (r *GormStoreCounterRepository) SaveConfig(ctx context.Context, counter *purchasing.StoreCounter) error {
	db := DBFromContext(ctx, r.db)

	result := db.Model(&models.StoreCounterModel{}).
		Where("store_id = ?", counter.StoreID).
		Updates(map[string]interface{}{
			"po_number_prefix":  counter.PONumberPrefix,
			"po_number_padding": counter.PONumberPadding,
			"updated_at":        counter.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	model := &models.StoreCounterModel{}
	model.FromDomain(counter)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}

// Ensure GormStoreCounterRepository implements StoreCounterRepository
var _ purchasing.StoreCounterRepository = (*GormStoreCounterRepository)(nil)
