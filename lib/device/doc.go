// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package device implements the moon phase device: a read-only,
// exclusively-opened byte stream whose content is regenerated from the
// current date on every read.
//
// # Sessions
//
// A [Device] admits at most one [Session] at a time. [Device.Open]
// claims the device with a single atomic compare-and-swap on its
// [Gate]; a second Open while a session is live fails immediately
// with [ErrBusy]. Nothing queues and nothing waits: callers that want
// the device later retry on their own schedule. [Session.Close]
// releases the gate.
//
// # Reading
//
// A Session is an [io.Reader] over the phase document with a cursor
// that the session owns:
//
//   - Every Read rebuilds the document from the clock. The document is
//     not pinned for the duration of a drain, so a drain that spans a
//     phase change yields the head of one rendering followed by the
//     tail of another.
//   - A Read at or past the end of the document returns (0, io.EOF)
//     and rewinds the cursor to zero, so the next Read starts a fresh
//     cycle. Tools like cat(1) stop at the first empty read; a reader
//     that keeps going sees the document again.
//
// # Writing
//
// The device is read-only. [Session.Write] and [Device.Write] always
// fail with [ErrNotSupported], whatever the input and whether or not a
// session is open.
package device
