//go:build !cgo_sqlite

package main

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// initDB opens the manifest database with the pure Go driver.
func initDB(dataSource string) (*sql.DB, error) {
	return openManifestDB("sqlite", dataSource)
}
