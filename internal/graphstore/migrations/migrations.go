// Package migrations embeds the SQL migrations for the abstract
// graph store, for goose.SetBaseFS (spec §6 "persist the built
// graph"). Grounded on the teacher's internal/db/migrations package.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
