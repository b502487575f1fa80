// Package repository defines error values shared across repositories.
// These sentinels let handlers branch on expected failures without parsing
// driver error strings at the call site. For example, ErrNotFound maps to
// an HTTP 404 on public lookups, while ownership-sensitive paths respond
// identically for missing and foreign rows.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup by primary key matches no row.
var ErrNotFound = errors.New("not found")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). Repositories use it to convert unique-index failures into
// their entity-specific sentinels.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
