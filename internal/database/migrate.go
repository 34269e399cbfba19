package database

import (
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/schoolconnect/schoolconnect/internal/database/migrations"
)

// Migrate applies any pending embedded migrations. Safe to run on every
// startup; goose tracks the applied version in its own table.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
