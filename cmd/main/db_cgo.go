//go:build cgo_sqlite

package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// initDB opens the manifest database with the cgo driver.
func initDB(dataSource string) (*sql.DB, error) {
	return openManifestDB("sqlite3", dataSource)
}
