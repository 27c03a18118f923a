// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// The phase device recomputes its document from "now" on every read,
// which makes wall-clock time its only external input. Production code
// accepts a Clock instead of calling time.Now directly so that tests
// and the command-line date override can pin the calendar date:
//
//	builder, err := document.New(document.Options{Clock: clock.Real()})
//
// In tests:
//
//	fake := clock.Fake(time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC))
//	builder, err := document.New(document.Options{Clock: fake})
//	// ... read ...
//	fake.Advance(7 * 24 * time.Hour) // next read sees a new phase
package clock
