package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-railway/internal/database/migrations"
)

func openMemory(t *testing.T) *bun.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *bun.DB, table string) int {
	n, err := db.NewSelect().Table(table).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestRunMigrations_SchemaOnly(t *testing.T) {
	db := openMemory(t)
	runner := migrations.NewRunner(db, migrations.MigrateOptions{SeedData: false})

	require.NoError(t, runner.RunMigrations())

	version, dirty, err := runner.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(migrations.SchemaVersion), version)
	assert.Equal(t, 0, count(t, db, "stations"))
}

func TestRunMigrations_SeedIsIdempotent(t *testing.T) {
	db := openMemory(t)
	runner := migrations.NewRunner(db, migrations.DefaultOptions())

	require.NoError(t, runner.RunMigrations())
	stations := count(t, db, "stations")
	assert.Greater(t, stations, 10)
	assert.Greater(t, count(t, db, "train_seats"), 0)
	assert.Greater(t, count(t, db, "catering_items"), 0)

	require.NoError(t, migrations.NewRunner(db, migrations.DefaultOptions()).RunMigrations())
	assert.Equal(t, stations, count(t, db, "stations"))
}

func TestRunMigrations_SchemaOnlyKeepsSeededDatabase(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, migrations.NewRunner(db, migrations.DefaultOptions()).RunMigrations())

	runner := migrations.NewRunner(db, migrations.MigrateOptions{SeedData: false})
	require.NoError(t, runner.RunMigrations())

	assert.Greater(t, count(t, db, "stations"), 0)
}

func TestMigrateDown_WithCateringHistory(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	runner := migrations.NewRunner(db, migrations.DefaultOptions())
	require.NoError(t, runner.RunMigrations())

	_, err = db.ExecContext(ctx, `INSERT INTO users (username, password_hash, id_type, id_card, real_name, phone, user_type)
		VALUES ('u1', 'x', '身份证', '110101199001011234', '张三', '13800000000', '成人')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO catering_orders (user_id, train_number, status, total_price)
		VALUES ((SELECT id FROM users WHERE username = 'u1'), 'G1', 'Paid', 45.0)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO catering_order_items (order_id, item_id, item_name, quantity, unit_price)
		VALUES ((SELECT MAX(id) FROM catering_orders), (SELECT MIN(id) FROM catering_items), '红烧牛肉饭', 1, 45.0)`)
	require.NoError(t, err)

	require.NoError(t, runner.MigrateDown())

	version, _, err := runner.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}
