package domain

import "strings"

// NormalizeJobField trims leading/trailing whitespace.
// It is applied to company and position before validation.
func NormalizeJobField(s string) string {
	return strings.TrimSpace(s)
}
