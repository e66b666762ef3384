package migrations

import "embed"

// FS holds the ordered schema files for the structured store.
//
//go:embed *.sql
var FS embed.FS
