// Package migrations embeds the goose migration scripts so tests and tooling
// can apply the schema without a checkout-relative path.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
