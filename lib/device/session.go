// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"io"
	"sync"
	"sync/atomic"
)

// Session is the exclusive handle on a Device. It reads the phase
// document through a cursor that survives between calls. Safe for
// concurrent use; concurrent reads are serialized on the cursor.
type Session struct {
	device *Device
	closed atomic.Bool

	// mu guards cursor. It is held only while copying out of an
	// in-memory document.
	mu     sync.Mutex
	cursor int64
}

var (
	_ io.ReadWriteCloser = (*Session)(nil)
)

// Read rebuilds the document and copies bytes from the cursor into p,
// advancing the cursor by the amount copied. When the cursor is at or
// past the end of the freshly built document, Read rewinds the cursor
// to zero and returns (0, io.EOF).
//
// A zero-length p returns (0, nil) and leaves the cursor alone.
func (s *Session) Read(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	content := s.device.source.Build().Bytes()

	s.mu.Lock()
	defer s.mu.Unlock()

	// The cursor may come from an older, longer rendering. Anything
	// at or past the end of this rendering counts as end of message.
	if s.cursor >= int64(len(content)) {
		s.device.logger.Debug("device read end of message", "cursor", s.cursor)
		s.cursor = 0
		return 0, io.EOF
	}

	n := copy(p, content[s.cursor:])
	s.cursor += int64(n)

	s.device.logger.Debug("device read", "bytes", n, "cursor", s.cursor)
	return n, nil
}

// Write always fails with ErrNotSupported, open or closed.
func (s *Session) Write(p []byte) (int, error) {
	return s.device.Write(p)
}

// Offset returns the current cursor position.
func (s *Session) Offset() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Close releases the device. Only the first call releases the gate;
// later calls are no-ops and cannot free a gate that a newer session
// has since acquired.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.device.release()
	return nil
}
