package util

import (
	"fmt"
	"strings"
)

// ParseSize parses a human-readable size string (e.g. "100MB", "512KB",
// "2GB", "4096B") into bytes. Returns defaultBytes if the string cannot be
// parsed or is not positive.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}

	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1 << 30
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "MB"):
		multiplier = 1 << 20
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "KB"):
		multiplier = 1 << 10
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var val int64
	var rest string
	if n, _ := fmt.Sscanf(strings.TrimSpace(s), "%d%s", &val, &rest); n == 1 && val > 0 {
		return val * multiplier
	}
	return defaultBytes
}
