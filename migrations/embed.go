// Package migrations carries the SQL schema so the binary can apply it at boot.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
