package persistence

import (
	"context"
	"errors"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/inventory"
	"github.com/retailops/backend/internal/domain/partner"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierReader implements partner.SupplierReader using GORM
type GormSupplierReader struct {
	db *gorm.DB
}

// NewGormSupplierReader creates a new GormSupplierReader
func NewGormSupplierReader(db *gorm.DB) *GormSupplierReader {
	return &GormSupplierReader{db: db}
}

// FindByID finds a supplier by ID within a store
func (r *GormSupplierReader) FindByID(ctx context.Context, storeID, supplierID uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	err := DBFromContext(ctx, r.db).
		Where("store_id = ? AND id = ?", storeID, supplierID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Supplier not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormProductReader implements catalog.ProductReader using GORM
type GormProductReader struct {
	db *gorm.DB
}

// NewGormProductReader creates a new GormProductReader
func NewGormProductReader(db *gorm.DB) *GormProductReader {
	return &GormProductReader{db: db}
}

// FindByID finds a product by ID within a store
func (r *GormProductReader) FindByID(ctx context.Context, storeID, productID uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	err := DBFromContext(ctx, r.db).
		Where("store_id = ? AND id = ?", storeID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Product not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds products by IDs within a store, keyed by product ID.
// Missing products are simply absent from the result.
func (r *GormProductReader) FindByIDs(ctx context.Context, storeID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	var productModels []models.ProductModel
	err := DBFromContext(ctx, r.db).
		Where("store_id = ? AND id IN ?", storeID, productIDs).
		Find(&productModels).Error
	if err != nil {
		return nil, err
	}

	products := make(map[uuid.UUID]*catalog.Product, len(productModels))
	for i := range productModels {
		products[productModels[i].ID] = productModels[i].ToDomain()
	}
	return products, nil
}

// GormLocationReader implements inventory.LocationReader using GORM
type GormLocationReader struct {
	db *gorm.DB
}

// NewGormLocationReader creates a new GormLocationReader
func NewGormLocationReader(db *gorm.DB) *GormLocationReader {
	return &GormLocationReader{db: db}
}

// FindByID finds a location by ID within a store
func (r *GormLocationReader) FindByID(ctx context.Context, storeID, locationID uuid.UUID) (*inventory.Location, error) {
	var model models.LocationModel
	err := DBFromContext(ctx, r.db).
		Where("store_id = ? AND id = ?", storeID, locationID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Location not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var (
	_ partner.SupplierReader   = (*GormSupplierReader)(nil)
	_ catalog.ProductReader    = (*GormProductReader)(nil)
	_ inventory.LocationReader = (*GormLocationReader)(nil)
)
