// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// moonphase-service mounts the moon phase device as a file on a FUSE
// filesystem and serves it until SIGINT or SIGTERM:
//
//	$ moonphase-service --mountpoint /run/moonphase &
//	$ cat /run/moonphase/moonphase
//	Waxing Crescent Moon 🌒
//	...
//
// The file behaves like the character device it replaces: one reader
// at a time (a second open fails with EBUSY), every read recomputes
// the phase from the current date, writes fail with EINVAL, and a read
// after the end of the document starts it over.
//
// Mounting is the service start hook and unmounting the stop hook;
// nothing survives the process. Configuration comes from --config,
// MOONPHASE_CONFIG, or built-in defaults, with --mountpoint,
// --allow-other, and --log-level overriding the file.
package main
