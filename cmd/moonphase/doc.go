// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// moonphase prints the current moon phase without mounting anything.
//
// By default it prints exactly what a reader of the service's device
// file would get: the phase heading followed by the moon drawing. The
// document is read through a device session, so it goes through the
// same code path as the file. On a terminal the heading is printed in
// bold.
//
//	$ moonphase
//	First Quarter Moon 🌓
//	...
//	$ moonphase --date 2024-01-11 --format json
//	{"date": "2024-01-11", "index": 0, "name": "New Moon", "symbol": "🌑"}
//
// --format json and --format cbor print the phase record instead of
// the drawing. CBOR uses deterministic encoding; when stdout is a
// terminal the record is shown in CBOR diagnostic notation instead.
// --list prints the whole phase catalog.
package main
