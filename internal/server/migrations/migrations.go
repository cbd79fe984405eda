// Package migrations embeds the goose migrations for the server schema and
// the seed menu.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
