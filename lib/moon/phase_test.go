// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package moon

import (
	"testing"
	"time"
)

// Golden values captured from the reference formula. They pin the
// coefficients and the truncation behavior: a rounding conversion or a
// fused multiply-add moves several of these.
func TestComputeGolden(t *testing.T) {
	tests := []struct {
		date Date
		want Index
	}{
		{Date{2024, 1, 11}, 0},
		{Date{2024, 1, 18}, 2},
		{Date{2024, 1, 25}, 4},
		{Date{2024, 2, 3}, 6},
		{Date{2024, 3, 10}, 0},
		{Date{2024, 3, 25}, 4},
		{Date{2023, 12, 31}, 5},
		{Date{2024, 1, 1}, 6},
		{Date{2000, 1, 6}, 0},
		{Date{2000, 1, 21}, 4},
		{Date{1999, 12, 22}, 4},
		{Date{1900, 1, 1}, 0},
		{Date{1850, 6, 15}, 2},
		{Date{1, 1, 1}, 6},
		{Date{2026, 10, 18}, 2},
	}

	for _, test := range tests {
		t.Run(test.date.String(), func(t *testing.T) {
			if got := Compute(test.date); got != test.want {
				t.Errorf("Compute(%s) = %d, want %d", test.date, got, test.want)
			}
		})
	}
}

func TestComputeRangeAndDeterminism(t *testing.T) {
	// Sweep every day of several centuries, including the years where
	// the day count goes negative.
	start := time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := make(map[Index]bool)

	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		date := DateOf(day)
		first := Compute(date)
		if first >= PhaseCount {
			t.Fatalf("Compute(%s) = %d, outside [0, %d)", date, first, PhaseCount)
		}
		if second := Compute(date); second != first {
			t.Fatalf("Compute(%s) not deterministic: %d then %d", date, first, second)
		}
		seen[first] = true
	}

	if len(seen) != PhaseCount {
		t.Errorf("sweep produced %d distinct phases, want %d", len(seen), PhaseCount)
	}
}

func TestComputeEarlyYearsStayInRange(t *testing.T) {
	for year := 1; year <= 50; year++ {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= 31; day++ {
				date := Date{Year: year, Month: month, Day: day}
				if got := Compute(date); got >= PhaseCount {
					t.Fatalf("Compute(%s) = %d, outside [0, %d)", date, got, PhaseCount)
				}
			}
		}
	}
}

func TestDateOfUsesTimeLocation(t *testing.T) {
	// 23:30 UTC on Jan 10 is already Jan 11 in UTC+2.
	instant := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)

	if got := DateOf(instant); got != (Date{2024, 1, 10}) {
		t.Errorf("DateOf(UTC) = %s, want 2024-01-10", got)
	}

	eastern := instant.In(time.FixedZone("UTC+2", 2*60*60))
	if got := DateOf(eastern); got != (Date{2024, 1, 11}) {
		t.Errorf("DateOf(UTC+2) = %s, want 2024-01-11", got)
	}
}

func TestDateValidate(t *testing.T) {
	valid := []Date{{1, 1, 1}, {2024, 2, 29}, {9999, 12, 31}}
	for _, date := range valid {
		if err := date.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", date, err)
		}
	}

	invalid := []Date{{0, 1, 1}, {2024, 0, 1}, {2024, 13, 1}, {2024, 1, 0}, {2024, 1, 32}}
	for _, date := range invalid {
		if err := date.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", date)
		}
	}
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-01-11")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if date != (Date{2024, 1, 11}) {
		t.Errorf("ParseDate = %+v, want 2024-01-11", date)
	}

	if _, err := ParseDate("11/01/2024"); err == nil {
		t.Error("ParseDate accepted a non-ISO date")
	}
}
