package persistence

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/retailops/backend/internal/domain/purchasing"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormStoreCounterRepository_NextPONumber(t *testing.T) {
	t.Run("allocates next sequence value", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStoreCounterRepository(gormDB)

		storeID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"store_id", "last_po_number", "po_number_prefix", "po_number_padding", "created_at", "updated_at"}).
			AddRow(storeID, 42, "PO", 5, now, now)

		mock.ExpectQuery(`INSERT INTO store_counters .*ON CONFLICT \(store_id\).*RETURNING.*`).
			WithArgs(storeID, "PO", 5).
			WillReturnRows(rows)

		counter, err := repo.NextPONumber(context.Background(), storeID)

		require.NoError(t, err)
		assert.Equal(t, storeID, counter.StoreID)
		assert.Equal(t, int64(42), counter.LastPONumber)
		assert.Equal(t, "PO-2026-00042", counter.PONumber(2026))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty store ID", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStoreCounterRepository(gormDB)

		_, err := repo.NextPONumber(context.Background(), uuid.Nil)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
	})
}

// newCounterDB opens an in-memory sqlite database holding the counter table,
// pinned to a single connection so every allocation hits the same database.
func newCounterDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.StoreCounterModel{}))
	return db
}

func TestGormStoreCounterRepository_NextPONumber_ConcurrentAllocations(t *testing.T) {
	repo := NewGormStoreCounterRepository(newCounterDB(t))
	storeID := uuid.New()

	const callers = 25
	values := make(chan int64, callers)
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counter, err := repo.NextPONumber(context.Background(), storeID)
			if err != nil {
				errs <- err
				return
			}
			values <- counter.LastPONumber
		}()
	}
	wg.Wait()
	close(values)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int64]struct{}, callers)
	for value := range values {
		_, dup := seen[value]
		assert.False(t, dup, "sequence value %d allocated twice", value)
		seen[value] = struct{}{}
	}
	assert.Len(t, seen, callers)

	counter, err := repo.Get(context.Background(), storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(callers), counter.LastPONumber)
}

func TestGormStoreCounterRepository_Get(t *testing.T) {
	t.Run("finds existing counter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStoreCounterRepository(gormDB)

		storeID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"store_id", "last_po_number", "po_number_prefix", "po_number_padding", "created_at", "updated_at"}).
			AddRow(storeID, 7, "ACME", 4, now, now)

		mock.ExpectQuery(`SELECT \* FROM "store_counters" WHERE store_id = \$1.*`).
			WithArgs(storeID, 1).
			WillReturnRows(rows)

		counter, err := repo.Get(context.Background(), storeID)

		require.NoError(t, err)
		assert.Equal(t, "ACME", counter.PONumberPrefix)
		assert.Equal(t, 4, counter.PONumberPadding)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports missing counter as not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStoreCounterRepository(gormDB)

		storeID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "store_counters" WHERE store_id = \$1.*`).
			WithArgs(storeID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.Get(context.Background(), storeID)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStoreCounterRepository_Interface(t *testing.T) {
	gormDB, _, mockDB := newMockDB(t)
	defer mockDB.Close()

	var repo purchasing.StoreCounterRepository = NewGormStoreCounterRepository(gormDB)
	assert.NotNil(t, repo)
}
