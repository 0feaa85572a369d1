package entity

import (
	"strings"
	"time"
)

// Plate is a registered license plate. The plate string itself is the
// natural key and is always stored normalized.
type Plate struct {
	Plate     string
	CreatedAt time.Time
}

// NormalizePlate upper-cases the input and strips every character outside
// A-Z/0-9. Applied identically on write and on query construction so stored
// values and search patterns are comparable.
func NormalizePlate(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToUpper(strings.TrimSpace(value)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
