// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/moonphase/lib/document"
)

var (
	// ErrBusy is returned by Open while another session holds the
	// device.
	ErrBusy = errors.New("device busy")

	// ErrNotSupported is returned by every write.
	ErrNotSupported = errors.New("operation not supported")

	// ErrClosed is returned by Read on a session after Close.
	ErrClosed = os.ErrClosed
)

// DocumentSource produces the document served by a session. Each call
// must reflect the current time.
type DocumentSource interface {
	Build() document.Document
}

// Options configures a Device.
type Options struct {
	// Source builds the document for every read. Required.
	Source DocumentSource

	// Logger receives open, read, and release events at debug level
	// and rejected writes at warn level. If nil, logs are discarded.
	Logger *slog.Logger
}

// Device is the phase device service. It owns the session gate; all
// access goes through the *Session returned by Open.
type Device struct {
	gate   Gate
	source DocumentSource
	logger *slog.Logger
}

// New returns an idle Device.
func New(options Options) (*Device, error) {
	if options.Source == nil {
		return nil, fmt.Errorf("document source is required")
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	return &Device{
		source: options.Source,
		logger: options.Logger,
	}, nil
}

// Open claims the device and returns a session positioned at the start
// of the document. It fails with ErrBusy, without blocking, if a
// session is already open.
func (d *Device) Open() (*Session, error) {
	if !d.gate.TryAcquire() {
		d.logger.Debug("device open rejected", "error", ErrBusy)
		return nil, ErrBusy
	}
	d.logger.Debug("device opened")
	return &Session{device: d}, nil
}

// Busy reports whether a session currently holds the device.
func (d *Device) Busy() bool {
	return d.gate.Held()
}

// Write rejects the write. It exists so that callers without a session
// get the same answer as callers with one.
func (d *Device) Write(data []byte) (int, error) {
	d.logger.Warn("write rejected: operation not supported", "bytes", len(data))
	return 0, ErrNotSupported
}

func (d *Device) release() {
	d.gate.Release()
	d.logger.Debug("device released")
}
