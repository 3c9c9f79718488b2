package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Excel serial day for 9999-12-31; serial values are only plausible below it.
const maxExcelSerial = 2958466

var (
	excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

	reFirstLine   = regexp.MustCompile(`[\r\n]+`)
	reCompactDate = regexp.MustCompile(`^\d{8}$`)
	reYMD         = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	reDMY         = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	// Bare years, year-months and month-years carry no day component and are
	// rejected rather than guessed.
	reAmbiguous = regexp.MustCompile(`^(?:\d{4}|\d{6}|\d{4}[-/]\d{1,2}|\d{1,2}[-/]\d{4})$`)
)

// ParseDate converts a raw cell value into a date-only value at UTC midnight.
// Accepts native times, Excel serial day counts, and strings in YYYYMMDD,
// YYYY-MM-DD, DD-MM-YYYY (with - or / separators) or any free-text form the
// fallback parser understands. Digit strings are tried as calendar dates
// before serials so 20240216 reads as a date, not day 20,240,216.
func ParseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(v), true
	case string:
		return parseDateString(v)
	case float64:
		return parseDateNumber(v)
	case int:
		return parseDateNumber(float64(v))
	case int64:
		return parseDateNumber(float64(v))
	default:
		return parseDateString(fmt.Sprint(v))
	}
}

// FormatISO renders a parsed date in the canonical YYYY-MM-DD form.
func FormatISO(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseDateNumber(n float64) (time.Time, bool) {
	// An 8-digit integral number is a compact calendar date that happens to
	// live in a numeric cell.
	if n == float64(int64(n)) {
		if s := strconv.FormatInt(int64(n), 10); reCompactDate.MatchString(s) {
			return parseCompact(s)
		}
	}
	if n <= 0 || n >= maxExcelSerial {
		return time.Time{}, false
	}
	ms := int64(n * 86400000)
	return dateOnly(excelEpoch.Add(time.Duration(ms) * time.Millisecond)), true
}

func parseDateString(raw string) (time.Time, bool) {
	// Multi-date cells carry only their first line through this function;
	// callers needing every value split the cell first.
	s := strings.TrimSpace(reFirstLine.Split(raw, 2)[0])
	s = strings.NewReplacer("\t", "", " ", "").Replace(s)
	if s == "" {
		return time.Time{}, false
	}

	if reCompactDate.MatchString(s) {
		return parseCompact(s)
	}
	if m := reYMD.FindStringSubmatch(s); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reDMY.FindStringSubmatch(s); m != nil {
		return makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if reAmbiguous.MatchString(s) {
		return time.Time{}, false
	}

	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(parsed), true
}

func parseCompact(s string) (time.Time, bool) {
	return makeDate(atoi(s[0:4]), atoi(s[4:6]), atoi(s[6:8]))
}

// makeDate builds a UTC midnight date, rejecting impossible calendar dates
// (month 13, Feb 30) instead of letting them normalize forward.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
