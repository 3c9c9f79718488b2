package util

import (
	"strings"
	"time"

	"aefidash/internal"
)

// Delimiter sets for the two kinds of multi-valued cells. Date cells only
// split on line breaks; categorical cells also split on commas.
const (
	DateDelimiters        = "\r\n"
	CategoricalDelimiters = ",\r\n"
)

// Cell is the parsed form of a spreadsheet cell whose text may encode
// several logical values. Built once from the raw string; the delimiter
// hierarchy lives here and nowhere else.
type Cell struct {
	Values []string
}

// SplitCell splits raw on any of the delimiter runes, trimming each piece
// and dropping empties. Order is preserved.
func SplitCell(raw, delimiters string) Cell {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return Cell{Values: values}
}

// AnyEquals reports whether at least one sub-value equals target,
// case-insensitively.
func (c Cell) AnyEquals(target string) bool {
	for _, v := range c.Values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

// AllEqual reports whether every sub-value equals target. An empty cell has
// nothing to match and reports false.
func (c Cell) AllEqual(target string) bool {
	if len(c.Values) == 0 {
		return false
	}
	for _, v := range c.Values {
		if !strings.EqualFold(v, target) {
			return false
		}
	}
	return true
}

// NoneEquals reports whether no sub-value equals target. True for an empty
// cell.
func (c Cell) NoneEquals(target string) bool {
	return !c.AnyEquals(target)
}

// EarliestDate parses every line of a date cell and returns the minimum,
// skipping lines that fail to parse.
func EarliestDate(raw string) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, v := range SplitCell(raw, DateDelimiters).Values {
		d, ok := ParseDate(v)
		if !ok {
			continue
		}
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	}
	return earliest, found
}

// ClassifySeriousness applies the three-way seriousness rule: a case is
// Serious if any sub-value is "yes", Not Serious only if none is "yes" and
// at least one is "no", otherwise Unknown. One record can aggregate several
// AEFI episodes with mixed seriousness, so this is deliberately not a
// boolean.
func ClassifySeriousness(raw string) internal.Seriousness {
	cell := SplitCell(raw, CategoricalDelimiters)
	switch {
	case cell.AnyEquals("yes"):
		return internal.Serious
	case cell.AnyEquals("no"):
		return internal.NotSerious
	default:
		return internal.UnknownSeriousness
	}
}
