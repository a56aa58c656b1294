// Package db holds the embedded SQL migrations and the migration runner.
package db

import "embed"

//go:embed migrations/*.sql
var migrationFS embed.FS
