package util

import (
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	want := time.Date(2024, time.February, 16, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		input any
	}{
		{name: "iso dash", input: "2024-02-16"},
		{name: "iso slash", input: "2024/02/16"},
		{name: "day first dash", input: "16-02-2024"},
		{name: "day first slash", input: "16/2/2024"},
		{name: "compact", input: "20240216"},
		{name: "compact numeric", input: float64(20240216)},
		{name: "interior spaces", input: "2024 - 02 - 16"},
		{name: "multiline takes first", input: "2024-02-16\n2023-01-01"},
		{name: "native time keeps date only", input: time.Date(2024, time.February, 16, 15, 30, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseDate(tc.input)
			if !ok {
				t.Fatalf("parse failed")
			}
			if !got.Equal(want) {
				t.Fatalf("got %v want %v", got, want)
			}
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	cases := []struct {
		name  string
		input any
	}{
		{name: "nil", input: nil},
		{name: "empty", input: ""},
		{name: "bare year", input: "2024"},
		{name: "bare year month", input: "202402"},
		{name: "dashed year month", input: "2024-02"},
		{name: "month year", input: "02/2024"},
		{name: "month 13", input: "2024-13-01"},
		{name: "feb 30", input: "2024-02-30"},
		{name: "negative serial", input: float64(-5)},
		{name: "serial out of range", input: float64(3000000)},
		{name: "garbage", input: "not a date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, ok := ParseDate(tc.input); ok {
				t.Fatalf("expected failure, got %v", got)
			}
		})
	}
}

func TestParseDateExcelSerial(t *testing.T) {
	got, ok := ParseDate(float64(45000))
	if !ok {
		t.Fatalf("parse failed")
	}
	want := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseDateCompactBeatsSerial(t *testing.T) {
	// 20240216 must read as Feb 16 2024, never as an enormous serial day
	// count.
	got, ok := ParseDate("20240216")
	if !ok || got.Year() != 2024 || got.Month() != time.February || got.Day() != 16 {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}
