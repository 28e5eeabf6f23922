// Package cart embeds the goose migrations for the cart schema so the
// migrate binary and integration tests apply the same files.
package cart

import "embed"

//go:embed *.sql
var FS embed.FS
