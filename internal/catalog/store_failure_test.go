package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"ms-railway/internal/apperr"
	"ms-railway/internal/catalog"
	"ms-railway/internal/catalog/db"
	"ms-railway/internal/logger"
)

func newMockStore(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}, mock
}

func TestSearchTrains_StoreFailureIsInternal(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT (.+) FROM "trains"`).
		WillReturnError(errors.New("database is locked"))

	svc := catalog.NewService(store, nil, logger.Nop())
	_, err := svc.SearchTrains(context.Background(), "北京南", "上海虹桥", "")

	require.Error(t, err)
	assert.True(t, apperr.IsInternal(err))
	assert.Equal(t, "internal error", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchStations_StoreFailureWithoutCache(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT (.+) FROM "stations"`).
		WillReturnError(errors.New("disk I/O error"))

	svc := catalog.NewService(store, nil, logger.Nop())
	_, err := svc.SearchStations(context.Background(), "bj")

	require.Error(t, err)
	assert.True(t, apperr.IsInternal(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
