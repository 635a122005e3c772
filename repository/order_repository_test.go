package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-service/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestFindBySessionID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE stripe_session_id = .+`).
		WithArgs("cs_unknown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindBySessionID(context.Background(), "cs_unknown")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestUpdateStatus_AppendsHistory(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(orderID.String(), "Outstanding"))
	mock.ExpectExec(`UPDATE "orders" SET "status"=.+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "order_status_histories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	order, err := repo.UpdateStatus(context.Background(), orderID, "Ready", "Status updated by admin")
	assert.NoError(t, err)
	assert.Equal(t, "Ready", order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), orderID, "Ready", "Status updated by admin")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestHistory_OrderedOldestFirst(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	orderID := uuid.New()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "order_status_histories" WHERE order_id = .+ ORDER BY created_at ASC`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "status", "note", "created_at"}).
			AddRow(uuid.New().String(), orderID.String(), "Outstanding", "Order created, awaiting Venmo payment", now.Add(-time.Hour)).
			AddRow(uuid.New().String(), orderID.String(), "Ready", "Status updated by admin", now))

	history, err := repo.History(context.Background(), orderID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "Outstanding", history[0].Status)
	assert.Equal(t, "Ready", history[1].Status)
}
