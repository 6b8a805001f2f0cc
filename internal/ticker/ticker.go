// Package ticker normalizes instrument identifiers.
package ticker

import (
	"sort"
	"strings"
)

// DefaultSuffix is the Yahoo exchange suffix for B3 listings
const DefaultSuffix = ".SA"

// Parse splits free-form input (commas, semicolons, whitespace) and normalizes it
func Parse(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return Normalize(fields)
}

// Normalize trims, upper-cases, drops empties and duplicates and sorts
func Normalize(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Canonical reduces ids to their display form: suffix stripped, then Normalize.
// "PETR4" and "petr4.sa" collapse into one "PETR4".
func Canonical(ids []string, suffix string) []string {
	if suffix == "" {
		return Normalize(ids)
	}
	stripped := make([]string, len(ids))
	for i, id := range ids {
		stripped[i] = StripSuffix(strings.TrimSpace(id), suffix)
	}
	return Normalize(stripped)
}

// WithSuffix returns the provider lookup form of id
func WithSuffix(id, suffix string) string {
	if suffix == "" || strings.HasSuffix(strings.ToUpper(id), strings.ToUpper(suffix)) {
		return id
	}
	return id + suffix
}

// StripSuffix returns the display form of id
func StripSuffix(id, suffix string) string {
	if suffix == "" {
		return id
	}
	if strings.HasSuffix(strings.ToUpper(id), strings.ToUpper(suffix)) {
		return id[:len(id)-len(suffix)]
	}
	return id
}

// Difference returns the ids in requested that are absent from present, keeping order
func Difference(requested []string, present map[string]struct{}) []string {
	missing := make([]string, 0)
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
