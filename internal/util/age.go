package util

import (
	"math"
	"strconv"
	"strings"
)

// NewbornYears is the 0-27 day threshold expressed in years.
const NewbornYears = 28.0 / 365.25

// AgeBands is the surveillance age stratification, in classification order.
var AgeBands = []string{
	"0-27 Days",
	"28 days to 23 months",
	"2-11 Years",
	"12-17 Years",
	"18-44 Years",
	"45-64 Years",
	"65+ Years",
	"Unknown",
}

// NormalizeAge converts an (age magnitude, age unit) pair into years.
// Returns nil for missing, non-numeric or negative magnitudes and for
// unrecognized units. Days use a fixed 365-day year.
func NormalizeAge(magnitude any, unit string) *float64 {
	value, ok := toFloat(magnitude)
	if !ok || math.IsNaN(value) || value < 0 {
		return nil
	}

	u := strings.ToLower(strings.TrimSpace(unit))
	var years float64
	switch {
	case strings.HasPrefix(u, "year"):
		years = value
	case strings.HasPrefix(u, "month"):
		years = value / 12
	case strings.HasPrefix(u, "week"):
		years = value / 52
	case strings.HasPrefix(u, "day"):
		years = value / 365
	default:
		return nil
	}
	return &years
}

// AgeInYears coerces a value that is already expressed in years. Returns
// nil for missing, non-numeric, NaN or negative values.
func AgeInYears(v any) *float64 {
	years, ok := toFloat(v)
	if !ok || math.IsNaN(years) || years < 0 {
		return nil
	}
	return &years
}

// ClassifyAgeBand maps a normalized age in years onto the fixed band table.
// Boundaries are exclusive below: exactly 2.0 years falls in "2-11 Years".
func ClassifyAgeBand(years *float64) string {
	if years == nil || math.IsNaN(*years) {
		return "Unknown"
	}
	a := *years
	switch {
	case a < NewbornYears:
		return "0-27 Days"
	case a < 2:
		return "28 days to 23 months"
	case a < 12:
		return "2-11 Years"
	case a < 18:
		return "12-17 Years"
	case a < 45:
		return "18-44 Years"
	case a < 65:
		return "45-64 Years"
	default:
		return "65+ Years"
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
