// Package testsupport opens throwaway databases and fixtures for package
// tests.
package testsupport

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/iliyamo/late-show-api/internal/config"
	"github.com/iliyamo/late-show-api/internal/database"
)

// MustOpenDB returns a migrated SQLite database that lives in t.TempDir and
// is closed when the test ends.
func MustOpenDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "late_show.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Lineup holds the ids created by SeedLineup, in insertion order.
type Lineup struct {
	EpisodeIDs    []int64
	GuestIDs      []int64
	AppearanceIDs []int64
}

// SeedLineup inserts two episodes, three guests and three appearances:
// episode 0 hosts guests 0 and 1, episode 1 hosts guest 2.
func SeedLineup(t testing.TB, db *sql.DB) Lineup {
	t.Helper()
	var l Lineup
	for _, e := range []struct {
		date   string
		number int
	}{{"2024-01-01", 1}, {"2024-01-02", 2}} {
		l.EpisodeIDs = append(l.EpisodeIDs, mustInsert(t, db, "INSERT INTO episodes (date, number) VALUES (?, ?)", e.date, e.number))
	}
	for _, g := range [][2]string{{"Taylor Star", "Comedian"}, {"Riley Pop", "Actor"}, {"Jordan Art", "Musician"}} {
		l.GuestIDs = append(l.GuestIDs, mustInsert(t, db, "INSERT INTO guests (name, occupation) VALUES (?, ?)", g[0], g[1]))
	}
	for _, a := range []struct {
		rating, episode, guest int
	}{{4, 0, 0}, {5, 0, 1}, {3, 1, 2}} {
		l.AppearanceIDs = append(l.AppearanceIDs, mustInsert(t, db,
			"INSERT INTO appearances (rating, episode_id, guest_id) VALUES (?, ?, ?)",
			a.rating, l.EpisodeIDs[a.episode], l.GuestIDs[a.guest]))
	}
	return l
}

// Count returns the number of rows in table matching where (may be empty).
func Count(t testing.TB, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	q := "SELECT COUNT(1) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := db.QueryRow(q, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func mustInsert(t testing.TB, db *sql.DB, q string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(q, args...)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}
