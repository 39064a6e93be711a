// Package migrations embeds the PostgreSQL schema of the order archive.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
