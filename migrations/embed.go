// Package migrations embeds the SQL migration files so both binaries can
// run them without the files on disk.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
