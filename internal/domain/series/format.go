package series

import (
	"strconv"
	"strings"
	"time"
)

// formatCodes are league codes that name a match format rather than a
// tournament. Groups carrying one of these are never paired.
var formatCodes = map[string]struct{}{
	"T20":       {},
	"T10":       {},
	"ODI":       {},
	"T20I":      {},
	"4DAY":      {},
	"TEST":      {},
	"TEST/5DAY": {},
	"LIST A":    {},
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsFormatCode reports whether code is a bare format label. Matching is case
// insensitive.
func IsFormatCode(code string) bool {
	_, ok := formatCodes[normalizeCode(code)]
	return ok
}

// ExtraDays is how long after its start a match of the given type ends.
func ExtraDays(matchType string) int {
	switch normalizeCode(matchType) {
	case "TEST", "TEST/5DAY":
		return 4
	case "4DAY":
		return 3
	default:
		return 0
	}
}

// EffectiveEnd is the start time extended by the multi-day allowance of the
// match type.
func EffectiveEnd(startingAt time.Time, matchType string) time.Time {
	return startingAt.AddDate(0, 0, ExtraDays(matchType))
}

// CompressSeasonLabel collapses "YYYY/YYYY" labels spanning more than one year
// to the starting year. Anything else is returned unchanged.
func CompressSeasonLabel(label string) string {
	if !strings.Contains(label, "/") {
		return label
	}
	parts := strings.Split(label, "/")
	startYear, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return label
	}
	endYear, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return label
	}
	if endYear-startYear > 1 {
		return strconv.Itoa(startYear)
	}
	return label
}
