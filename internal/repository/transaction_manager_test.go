package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTransactionManager_Commit(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)
	users := NewSQLXUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET email`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return users.UpdateEmail(ctx, "u1", "a@example.com")
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_Rollback(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExecutor_WithoutTransaction(t *testing.T) {
	db, _ := setupTestDB(t)
	assert.Equal(t, DBTX(db), GetExecutor(context.Background(), db))
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	var outerTx, innerTx DBTX
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		outerTx = GetExecutor(ctx, db)
		return tm.WithTransaction(ctx, func(ctx context.Context) error {
			innerTx = GetExecutor(ctx, db)
			return nil
		})
	})
	assert.NoError(t, err)
	assert.Same(t, outerTx, innerTx)
	assert.NotEqual(t, DBTX(db), outerTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_PanicRollsBack(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			panic("kaboom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
