// Package migrations embeds the goose SQL migrations for the experiences
// table.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
