// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package moon computes a coarse lunar phase from a calendar date.
//
// [Compute] is a truncated, low-precision ephemeris: a day count from
// a fixed epoch divided by the synodic month (29.53 days), with the
// fractional part of the cycle bucketed into eight phases. It is not
// astronomically exact. Its value is that it is small, pure, and
// reproducible bit for bit: the coefficients and the truncating
// float-to-int conversions are part of the contract, and changing
// either silently moves results near bucket boundaries.
//
// [Lookup] maps the resulting [Index] onto a fixed catalog of display
// names and emoji symbols. The catalog is data, not derived: two
// entries share the name "Waning Gibbous Moon" and that is kept as is.
package moon
