package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// Rebind rewrites '?' placeholders into PostgreSQL positional parameters
// starting at $start. It returns the rewritten query and the next free position.
func Rebind(query string, start int) (string, int) {
	var b strings.Builder
	b.Grow(len(query) + 8)
	pos := start
	for _, r := range query {
		if r == '?' {
			fmt.Fprintf(&b, "$%d", pos)
			pos++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), pos
}
