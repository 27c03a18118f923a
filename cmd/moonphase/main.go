// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/moonphase/lib/clock"
	"github.com/bureau-foundation/moonphase/lib/codec"
	"github.com/bureau-foundation/moonphase/lib/device"
	"github.com/bureau-foundation/moonphase/lib/document"
	"github.com/bureau-foundation/moonphase/lib/logging"
	"github.com/bureau-foundation/moonphase/lib/moon"
	"github.com/bureau-foundation/moonphase/lib/process"
	"github.com/bureau-foundation/moonphase/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, clock.Real()); err != nil {
		process.Fatal(err)
	}
}

// report is the machine-readable form of one phase evaluation.
type report struct {
	Date   string     `json:"date"`
	Index  moon.Index `json:"index"`
	Name   string     `json:"name"`
	Symbol string     `json:"symbol"`
}

func newReport(doc document.Document) report {
	return report{
		Date:   doc.Date.String(),
		Index:  doc.Phase.Index,
		Name:   doc.Phase.Name,
		Symbol: doc.Phase.Symbol,
	}
}

var headingStyle = lipgloss.NewStyle().Bold(true)

func run(args []string, stdout io.Writer, clk clock.Clock) error {
	var (
		dateFlag    string
		format      string
		artFile     string
		list        bool
		verbose     bool
		showVersion bool
		showHelp    bool
	)

	flagSet := pflag.NewFlagSet("moonphase", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&dateFlag, "date", "", "evaluate this date (YYYY-MM-DD) instead of today")
	flagSet.StringVarP(&format, "format", "f", "text", "output format: text, json, or cbor")
	flagSet.StringVar(&artFile, "art-file", "", "replace the moon drawing with the contents of this file")
	flagSet.BoolVar(&list, "list", false, "print the phase catalog instead of today's phase")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log phase computation to stderr")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit (with -v, include Go and platform)")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return process.Usage("%v", err)
	}
	if showHelp {
		printHelp(stdout, flagSet)
		return nil
	}
	if showVersion {
		if verbose {
			version.FprintFull(stdout, "moonphase")
		} else {
			version.Fprint(stdout, "moonphase")
		}
		return nil
	}
	if flagSet.NArg() > 0 {
		return process.Usage("unexpected argument: %s", flagSet.Arg(0))
	}
	switch format {
	case "text", "json", "cbor":
	default:
		return process.Usage("unknown format %q (want text, json, or cbor)", format)
	}

	if list {
		return printCatalog(stdout, format)
	}

	if dateFlag != "" {
		date, err := moon.ParseDate(dateFlag)
		if err != nil {
			return process.Usage("--date: %v", err)
		}
		if err := date.Validate(); err != nil {
			return process.Usage("--date: %v", err)
		}
		// Noon avoids any doubt about which calendar day is meant.
		clk = clock.Fake(time.Date(date.Year, time.Month(date.Month), date.Day, 12, 0, 0, 0, time.Local))
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewCommandLogger(level)

	var art string
	if artFile != "" {
		loaded, err := document.LoadArt(artFile)
		if err != nil {
			return err
		}
		art = loaded
	}

	builder, err := document.New(document.Options{Clock: clk, Art: art, Logger: logger})
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeJSON(stdout, newReport(builder.Build()))
	case "cbor":
		return writeCBOR(stdout, newReport(builder.Build()))
	}

	content, err := readDevice(builder, logger)
	if err != nil {
		return err
	}
	if isTerminal(stdout) {
		content = boldHeading(content)
	}
	_, err = stdout.Write(content)
	return err
}

// readDevice drains one document through a device session, the same
// way a reader of the mounted file does.
func readDevice(source device.DocumentSource, logger *slog.Logger) ([]byte, error) {
	dev, err := device.New(device.Options{Source: source, Logger: logger})
	if err != nil {
		return nil, err
	}
	session, err := dev.Open()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return io.ReadAll(session)
}

// boldHeading renders the first line of content in bold.
func boldHeading(content []byte) []byte {
	heading, rest, found := bytes.Cut(content, []byte("\n"))
	if !found {
		return content
	}
	styled := []byte(headingStyle.Render(string(heading)))
	styled = append(styled, '\n')
	return append(styled, rest...)
}

func printCatalog(w io.Writer, format string) error {
	phases := moon.Phases()
	switch format {
	case "json":
		return writeJSON(w, phases)
	case "cbor":
		return writeCBOR(w, phases)
	}
	for _, phase := range phases {
		if _, err := fmt.Fprintf(w, "%d  %s  %s\n", phase.Index, phase.Symbol, phase.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// writeCBOR encodes value as deterministic CBOR. A terminal gets the
// diagnostic notation of the encoding instead of raw bytes.
func writeCBOR(w io.Writer, value any) error {
	if !isTerminal(w) {
		if err := codec.NewEncoder(w).Encode(value); err != nil {
			return fmt.Errorf("encoding CBOR: %w", err)
		}
		return nil
	}

	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding CBOR: %w", err)
	}
	notation, err := codec.Diagnose(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, notation)
	return err
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `moonphase prints the current moon phase.

Usage:
  moonphase [flags]

Examples:
  # Today's phase with the moon drawing
  moonphase

  # The phase on a given date, as JSON
  moonphase --date 2024-01-11 --format json

  # The phase catalog
  moonphase --list

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
