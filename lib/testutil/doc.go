// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for moonphase packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// [Retry] polls an operation that is expected to succeed shortly,
// such as re-opening the FUSE device file while the kernel is still
// delivering the release of a previous descriptor, or reading the file
// while a mount is coming up.
//
// These are the only places in the test suite where real wall-clock
// timeouts are used. All helpers call t.Fatalf on failure rather than
// returning errors, since test setup failures are not recoverable.
//
// This package has no moonphase-internal dependencies.
package testutil
