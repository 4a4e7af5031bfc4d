package migrations

import "embed"

// Files holds the ordered SQL migrations compiled into the binary so the
// server can bootstrap any database file it is pointed at.
//
//go:embed *.sql
var Files embed.FS
