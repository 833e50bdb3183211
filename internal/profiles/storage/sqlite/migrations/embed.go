package migrations

import "embed"

// FS contains embedded SQLite migrations for the profile name cache.
//
//go:embed *.sql
var FS embed.FS
