// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// CollapseSpace trims s and replaces each inner run of whitespace with a
// single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DedupeLines cleans a list of free-text lines such as OCR address lines.
// Whitespace is collapsed, empty lines are dropped and later lines that differ
// from an earlier one only by case are removed. Order and the first spelling
// are preserved. Always returns a non-nil slice.
//
// Example:
//
//	DedupeLines([]string{"  12  Marina Rd ", "LAGOS", "12 marina rd", ""})
//	// Returns: []string{"12 Marina Rd", "LAGOS"}
func DedupeLines(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		line := CollapseSpace(v)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, line)
	}

	return result
}
