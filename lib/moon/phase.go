// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package moon

import (
	"fmt"
	"time"
)

// PhaseCount is the number of discrete phases an Index can take.
const PhaseCount = 8

// Constants of the phase formula. These must not be "corrected":
// golden outputs depend on every digit.
const (
	daysPerYear  = 365.25
	daysPerMonth = 30.6
	epochOffset  = 694039.09
	synodicMonth = 29.53
)

// Index identifies one of the eight phase buckets, 0 (new moon)
// through 7.
type Index uint8

// Date is a calendar date. It carries no time of day and no location:
// callers decide which calendar breakdown of "now" they mean.
type Date struct {
	Year  int
	Month int
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: int(month), Day: day}
}

// Validate checks that the date is within the domain of [Compute].
// It checks field ranges only; February 30 passes.
func (d Date) Validate() error {
	if d.Year < 1 {
		return fmt.Errorf("year %d out of range (must be >= 1)", d.Year)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d out of range (must be 1-12)", d.Month)
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("day %d out of range (must be 1-31)", d.Day)
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", value, err)
	}
	return DateOf(parsed), nil
}

// Compute returns the phase bucket for a date.
//
// Every float-to-int conversion truncates toward zero, and the
// product in the bucketing step goes through an explicit float64
// conversion: Go permits fusing x*y+z into one FMA instruction on
// some architectures, and the fused result can land on the other
// side of a bucket boundary.
func Compute(date Date) Index {
	year, month, day := date.Year, date.Month, date.Day

	// March-based year: January and February count as months 13 and
	// 14 of the previous year.
	if month < 3 {
		year--
		month += 12
	}
	month++

	c := int(daysPerYear * float64(year))
	e := int(daysPerMonth * float64(month))

	jd := float64(c+e+day) - epochOffset
	jd /= synodicMonth

	b := int(jd)
	jd -= float64(b)

	b = int(float64(jd*PhaseCount) + 0.5)

	// The low three bits give 0..7 for negative intermediates as
	// well (years before ~1900 produce a negative day count).
	return Index(b & (PhaseCount - 1))
}
