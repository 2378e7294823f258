package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/late-show-api/internal/config"
)

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(config.DBConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db, config.DriverSQLite))
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMigrated(t)
	require.NoError(t, Migrate(context.Background(), db, config.DriverSQLite))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type='table'
		AND name IN ('episodes', 'guests', 'appearances')`).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestMigrateUnknownDriver(t *testing.T) {
	db := openMigrated(t)
	assert.Error(t, Migrate(context.Background(), db, "postgres"))
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	db := openMigrated(t)
	_, err := db.Exec("INSERT INTO appearances (rating, episode_id, guest_id) VALUES (3, 99, 99)")
	assert.Error(t, err)
}

func TestSeedResetsData(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()

	_, err := Seed(ctx, db)
	require.NoError(t, err)
	res, err := Seed(ctx, db)
	require.NoError(t, err)

	assert.Len(t, res.EpisodeIDs, 2)
	assert.Len(t, res.GuestIDs, 3)
	assert.Len(t, res.AppearanceIDs, 2)

	for table, want := range map[string]int{"episodes": 2, "guests": 3, "appearances": 2} {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM "+table).Scan(&n))
		assert.Equal(t, want, n, table)
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\n CREATE TABLE b (y INT);  ;")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, got)
}
