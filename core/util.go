package core

import (
	"math"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Percent1 returns part/whole as a percentage rounded to one decimal place (halves round up),
// 0 when whole is 0.
func Percent1(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Floor(part/whole*1000+0.5) / 10
}
