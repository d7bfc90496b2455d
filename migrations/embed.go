package migrations

import "embed"

// FS SQL-миграции goose.
//
//go:embed *.sql
var FS embed.FS
