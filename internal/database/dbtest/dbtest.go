// Package dbtest provides migrated in-memory databases for package tests.
package dbtest

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-railway/internal/database/migrations"
)

// New returns an in-memory database with the schema and reference data applied.
// The pool is pinned to one connection because every new in-memory connection is a fresh database.
func New(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	_, err = sqldb.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	runner := migrations.NewRunner(db, migrations.DefaultOptions())
	require.NoError(t, runner.RunMigrations())
	return db
}

// CreateUser inserts a bare user row and returns its id.
func CreateUser(t testing.TB, db *bun.DB, username, idCard string) int64 {
	t.Helper()

	res, err := db.Exec(
		"INSERT INTO users (username, password_hash, id_type, id_card, real_name, phone, user_type) VALUES (?, ?, ?, ?, ?, ?, ?)",
		username, "$2a$10$placeholder", "身份证", idCard, "Test "+username, "1380000"+idCard[len(idCard)-4:], "成人",
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
