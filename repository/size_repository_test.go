package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestDecrementStock_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	sizeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "product_sizes" SET "available_qty"=available_qty - .+ WHERE id = .+ AND available_qty >= .+`).
		WithArgs(3, sizeID, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := decrementStock(gormDB, sizeID, 3, "Medium tray")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStock_Insufficient(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	sizeID := uuid.New()

	// The conditional WHERE matched no row: stock too low.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "product_sizes" SET "available_qty"=available_qty - .+`).
		WithArgs(5, sizeID, 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := decrementStock(gormDB, sizeID, 5, "Medium tray")
	assert.True(t, IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Medium tray")
}

func TestDecrementStockClamped_NeverFails(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	sizeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "product_sizes" SET "available_qty"=GREATEST\(available_qty - .+, 0\) WHERE id = .+`).
		WithArgs(5, sizeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := decrementStockClamped(gormDB, sizeID, 5)
	assert.NoError(t, err)
}

func TestUpdateFields_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewGormSizeRepository(gormDB)
	sizeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "product_sizes" SET .+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := repo.UpdateFields(context.Background(), sizeID, map[string]interface{}{"price_cents": 2500})
	assert.ErrorIs(t, err, ErrSizeNotFound)
}
