// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package document renders the moon phase document served by the
// phase device: a heading line with the phase name and emoji, followed
// by a fixed block of ASCII art.
//
//	Full Moon 🌖
//	<art>
//
// A document is built from scratch for every read. The [Builder] holds
// only its collaborators (clock, art, size ceiling) and no state that
// outlives a call, so two builds a phase boundary apart return
// different documents.
package document

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/moonphase/lib/clock"
	"github.com/bureau-foundation/moonphase/lib/moon"
)

// DefaultMaxSize is the document ceiling in bytes: the size of a
// kernel driver's fixed message buffer.
const DefaultMaxSize = 10240

// DefaultArt is the compiled-in moon drawing. Lines end in CRLF and
// the last line has no terminator; the renderer appends one newline.
//
//go:embed art.txt
var DefaultArt string

// ErrTooLarge is returned by New when the longest possible document
// does not fit in the configured ceiling.
var ErrTooLarge = errors.New("document exceeds maximum size")

// Document is one rendering of the phase for a specific date.
type Document struct {
	Date  moon.Date
	Phase moon.Phase
	Art   string
}

// Bytes renders the document as served to readers:
// "{name} {symbol}\n{art}\n".
func (d Document) Bytes() []byte {
	buffer := make([]byte, 0, d.Len())
	buffer = append(buffer, d.Phase.Name...)
	buffer = append(buffer, ' ')
	buffer = append(buffer, d.Phase.Symbol...)
	buffer = append(buffer, '\n')
	buffer = append(buffer, d.Art...)
	buffer = append(buffer, '\n')
	return buffer
}

// Len returns the rendered length in bytes.
func (d Document) Len() int {
	return renderedLen(d.Phase, d.Art)
}

func renderedLen(phase moon.Phase, art string) int {
	return len(phase.Name) + 1 + len(phase.Symbol) + 1 + len(art) + 1
}

// Options configures a Builder.
type Options struct {
	// Clock supplies "now" for Build. If nil, defaults to clock.Real().
	Clock clock.Clock

	// Art is the block printed under the heading. If empty,
	// DefaultArt is used.
	Art string

	// MaxSize is the ceiling on the rendered document in bytes. Zero
	// uses DefaultMaxSize.
	MaxSize int

	// Logger receives a debug record for every build. If nil, logs
	// are discarded.
	Logger *slog.Logger
}

// Builder produces documents for the current date.
type Builder struct {
	clock  clock.Clock
	art    string
	logger *slog.Logger
}

// New returns a Builder. It fails with ErrTooLarge if the longest
// heading in the catalog plus the art would exceed MaxSize, so that
// Build itself never has to.
func New(options Options) (*Builder, error) {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Art == "" {
		options.Art = DefaultArt
	}
	if options.MaxSize == 0 {
		options.MaxSize = DefaultMaxSize
	}
	if options.MaxSize < 0 {
		return nil, fmt.Errorf("maximum document size must be positive, got %d", options.MaxSize)
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	for _, phase := range moon.Phases() {
		if size := renderedLen(phase, options.Art); size > options.MaxSize {
			return nil, fmt.Errorf("%w: %q renders to %d bytes, limit is %d",
				ErrTooLarge, phase.Name, size, options.MaxSize)
		}
	}

	return &Builder{
		clock:  options.Clock,
		art:    options.Art,
		logger: options.Logger,
	}, nil
}

// Build returns the document for the clock's current date.
func (b *Builder) Build() Document {
	return b.BuildFor(moon.DateOf(b.clock.Now()))
}

// BuildFor returns the document for a fixed date.
func (b *Builder) BuildFor(date moon.Date) Document {
	index := moon.Compute(date)
	b.logger.Debug("computed moon phase",
		"date", date.String(),
		"phase", int(index),
	)
	return Document{
		Date:  date,
		Phase: moon.Lookup(index),
		Art:   b.art,
	}
}

// LoadArt reads a replacement art block from path. A single trailing
// newline is dropped because the renderer adds its own.
func LoadArt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading art file: %w", err)
	}
	art := string(data)
	if n := len(art); n > 0 && art[n-1] == '\n' {
		art = art[:n-1]
	}
	if art == "" {
		return "", fmt.Errorf("art file %s is empty", path)
	}
	return art, nil
}
