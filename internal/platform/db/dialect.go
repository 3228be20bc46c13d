package db

import (
	"fmt"
	"strings"
)

// Dialect covers the placeholder differences between the sqlite and postgres drivers.
// Both accept INSERT ... ON CONFLICT DO UPDATE.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Placeholder returns the n-th (1-based) bind placeholder.
func (d Dialect) Placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Placeholders returns count comma separated placeholders starting at start.
func (d Dialect) Placeholders(start, count int) string {
	ph := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ph = append(ph, d.Placeholder(start+i))
	}
	return strings.Join(ph, ", ")
}

// Rebind rewrites "?" placeholders for the dialect.
func (d Dialect) Rebind(q string) string {
	if d != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FloatType is the column type for double precision values.
func (d Dialect) FloatType() string {
	if d == DialectPostgres {
		return "DOUBLE PRECISION"
	}
	return "REAL"
}
