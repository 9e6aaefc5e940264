// Package migrations embeds the SQL schema of the storefront database.
package migrations

import "embed"

// FS holds the up and down migration files
//
//go:embed *.sql
var FS embed.FS
