package utils

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var rangePattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*$`)

// NormalizeCalories collapses the calorie shapes the external services hand
// back (numbers, numeric strings, ranges like "100-150") into one float.
// Ranges become their midpoint. Anything unparseable degrades to 0 — callers
// must not read that as a verified zero-calorie value.
func NormalizeCalories(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		if m := rangePattern.FindStringSubmatch(n); m != nil {
			low, _ := strconv.ParseFloat(m[1], 64)
			high, _ := strconv.ParseFloat(m[2], 64)
			return (low + high) / 2
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
