// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package moonfs serves the moon phase device as a file on a FUSE
// filesystem, so ordinary tools read it the way they would read a
// character device:
//
//	$ cat /run/moonphase/moonphase
//	Full Moon 🌖
//	            .----------.
//	...
//
// The mount has a single file at its root (named "moonphase" by
// default). Each FUSE open maps to [device.Device.Open], each read to
// [device.Session.Read], each write to [device.Session.Write], and the
// release of the last file descriptor to [device.Session.Close].
//
// # Stream semantics
//
// The file is opened with FOPEN_DIRECT_IO and FOPEN_NONSEEKABLE and
// reports a size of zero, like a character device. Direct I/O keeps the
// kernel page cache out of the way so every read(2) reaches the
// session, and the session's own cursor decides what is returned: the
// kernel file offset is ignored. This is what lets the cursor rewind
// after the end-of-message read.
//
// # Errors
//
//   - open while another descriptor holds the device: EBUSY
//   - write: EINVAL, logged as "operation not supported"
//   - truncate (O_TRUNC): ignored, as for a character device
//
// Release is asynchronous in FUSE: close(2) can return before the
// server sees the release, so an immediate re-open may briefly still
// observe EBUSY.
package moonfs
