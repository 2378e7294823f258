package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/iliyamo/late-show-api/internal/config"
)

//go:embed schema_mysql.sql
var schemaMySQL string

//go:embed schema_sqlite.sql
var schemaSQLite string

// Migrate creates the episodes, guests and appearances tables for the given
// driver.  Every statement is idempotent so Migrate can run on each start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var schema string
	switch driver {
	case config.DriverMySQL:
		schema = schemaMySQL
	case config.DriverSQLite:
		schema = schemaSQLite
	default:
		return fmt.Errorf("no schema for driver %q", driver)
	}
	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	var out []string
	for _, s := range strings.Split(schema, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
