package migrations

import (
	"embed"
	"io/fs"
)

// migrationsFS holds the ledger schema, with SQLite alternatives under
// data/sql/migrations/sqlite.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

// FS returns the full embedded migration tree.
func FS() fs.FS {
	return migrationsFS
}
