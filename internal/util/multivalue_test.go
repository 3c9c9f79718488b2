package util

import (
	"testing"
	"time"

	"aefidash/internal"
)

func TestSplitCell(t *testing.T) {
	cases := []struct {
		name       string
		raw        string
		delimiters string
		want       []string
	}{
		{name: "newlines", raw: "a\nb\r\nc", delimiters: DateDelimiters, want: []string{"a", "b", "c"}},
		{name: "commas categorical", raw: "fever, rash", delimiters: CategoricalDelimiters, want: []string{"fever", "rash"}},
		{name: "comma kept for dates", raw: "a, b", delimiters: DateDelimiters, want: []string{"a, b"}},
		{name: "trims and drops empties", raw: " a \n\n  \n b ", delimiters: DateDelimiters, want: []string{"a", "b"}},
		{name: "empty", raw: "", delimiters: DateDelimiters, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitCell(tc.raw, tc.delimiters).Values
			if len(got) != len(tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v want %v", got, tc.want)
				}
			}
		})
	}
}

func TestCellPredicates(t *testing.T) {
	c := SplitCell("Yes\nno", DateDelimiters)
	if !c.AnyEquals("YES") {
		t.Fatalf("AnyEquals should be case-insensitive")
	}
	if c.AllEqual("yes") {
		t.Fatalf("AllEqual should fail on mixed values")
	}
	if !c.NoneEquals("maybe") {
		t.Fatalf("NoneEquals failed")
	}
	if SplitCell("", DateDelimiters).AllEqual("yes") {
		t.Fatalf("AllEqual on empty cell should be false")
	}
}

func TestEarliestDate(t *testing.T) {
	got, ok := EarliestDate("2024-03-01\njunk\n2024-02-16")
	if !ok {
		t.Fatalf("parse failed")
	}
	want := time.Date(2024, time.February, 16, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}

	if _, ok := EarliestDate("junk\nmore junk"); ok {
		t.Fatalf("expected no date")
	}
	if _, ok := EarliestDate(""); ok {
		t.Fatalf("expected no date for empty cell")
	}
}

func TestClassifySeriousness(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want internal.Seriousness
	}{
		{name: "mixed yes wins", raw: "Yes\nNo", want: internal.Serious},
		{name: "all no", raw: "No\nNo", want: internal.NotSerious},
		{name: "single no", raw: "no", want: internal.NotSerious},
		{name: "empty", raw: "", want: internal.UnknownSeriousness},
		{name: "neither", raw: "maybe\nunsure", want: internal.UnknownSeriousness},
		{name: "case and padding", raw: "  YES  ", want: internal.Serious},
		{name: "no among junk", raw: "maybe\nNo", want: internal.NotSerious},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifySeriousness(tc.raw); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
