// Package migrations embeds the postgres schema migrations so the server
// and the migrate command can run them without a migrations directory.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS
