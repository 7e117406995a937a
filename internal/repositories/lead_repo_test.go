package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *gorm.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock, gdb
}

func TestLeadDeleteCascadesConversationsAndMessages(t *testing.T) {
	db, mock, gdb := setupMockDB(t)
	defer db.Close()

	repo := NewLeadRepository(gdb)
	leadID := uuid.New()

	// soft deletes are updates, so the cascade must touch every level
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "messages" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`UPDATE "conversations" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "leads" SET "deleted_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), leadID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadDeleteRollsBackOnMessageFailure(t *testing.T) {
	db, mock, gdb := setupMockDB(t)
	defer db.Close()

	repo := NewLeadRepository(gdb)
	leadID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "messages" SET "deleted_at"`).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), leadID)

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
