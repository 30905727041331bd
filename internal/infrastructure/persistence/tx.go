package persistence

import (
	"context"

	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTxManager implements shared.TxManager on a GORM connection. The
// transaction handle is stored in the context passed to the callback, so
// any repository built on DBFromContext participates in the same
// transaction automatically.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// InTx runs fn inside a database transaction. A nested call reuses the
// transaction already present in the context instead of opening a new one.
func (m *GormTxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// DBFromContext returns the transaction handle carried in ctx, or fallback
// when the caller is not running inside a transaction.
func DBFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}

var _ shared.TxManager = (*GormTxManager)(nil)
