package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "s3cret", "db.local", "3306", "dealer")
	if !strings.HasPrefix(got, "app:s3cret@tcp(db.local:3306)/dealer?") {
		t.Errorf("dsn = %q", got)
	}
	// clientFoundRows makes RowsAffected count matched rows, so a no-op
	// UPDATE on an existing row is not mistaken for a missing one.
	for _, param := range []string{"clientFoundRows=true", "parseTime=true", "loc=UTC", "charset=utf8mb4"} {
		if !strings.Contains(got, param) {
			t.Errorf("dsn %q missing %s", got, param)
		}
	}
}

func TestDSN_EmptyPassword(t *testing.T) {
	got := dsn("app", "", "db.local", "3306", "dealer")
	if !strings.HasPrefix(got, "app@tcp(") {
		t.Errorf("dsn = %q, want no colon for empty password", got)
	}
}
