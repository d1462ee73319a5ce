// Package strings parses list-valued settings such as permission sets and
// broker addresses.
package strings

import (
	"strings"
)

// SplitList splits raw on sep and cleans the parts with DedupeAndTrim.
// An empty or blank input yields nil.
func SplitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(raw, sep))
}

// DedupeAndTrim trims every element and drops blanks and repeats, keeping the
// first occurrence. The result is never nil for a non-nil input.
func DedupeAndTrim(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
