// Package formatting provides parsing utilities for human-readable value
// formats and for strict-JSON model responses.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Base-1024 units, index doubles as the exponent.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

var bytesPattern = regexp.MustCompile(`^(\d+\.?\d*)\s*([A-Za-z]*)$`)

// FormatBytes renders a byte count with the largest unit that keeps the
// value at or above 1. Negative precision is clamped to zero.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}

	exp := min(int(math.Log(float64(n))/math.Log(1024)), len(units)-1)
	scaled := float64(n) / math.Pow(1024, float64(exp))

	return strconv.FormatFloat(scaled, 'f', max(precision, 0), 64) + " " + units[exp]
}

// ParseBytes converts a size string such as "50MB" or "1.5 GB" into a byte
// count. Units are case-insensitive, base-1024, and optional: a bare number
// is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	matches := bytesPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	if matches[2] == "" {
		return int64(value), nil
	}

	exp := slices.Index(units, strings.ToUpper(matches[2]))
	if exp == -1 {
		return 0, fmt.Errorf("unknown byte size unit: %q", matches[2])
	}

	return int64(value * math.Pow(1024, float64(exp))), nil
}
