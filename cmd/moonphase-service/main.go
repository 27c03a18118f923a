// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/moonphase/lib/clock"
	"github.com/bureau-foundation/moonphase/lib/config"
	"github.com/bureau-foundation/moonphase/lib/device"
	"github.com/bureau-foundation/moonphase/lib/document"
	"github.com/bureau-foundation/moonphase/lib/logging"
	"github.com/bureau-foundation/moonphase/lib/moonfs"
	"github.com/bureau-foundation/moonphase/lib/process"
	"github.com/bureau-foundation/moonphase/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	cfg, done, err := loadConfig(args, os.Stdout)
	if err != nil || done {
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Format, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, clock.Real(), logger)
}

// loadConfig parses flags and resolves the configuration: --config,
// then MOONPHASE_CONFIG, then defaults, with flag overrides applied on
// top. done is true when the invocation was fully handled (--help,
// --version).
func loadConfig(args []string, stdout io.Writer) (cfg *config.Config, done bool, err error) {
	var (
		configPath  string
		mountpoint  string
		allowOther  bool
		logLevel    string
		showVersion bool
		showHelp    bool
	)

	flagSet := pflag.NewFlagSet("moonphase-service", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", "", "path to moonphase.yaml (default: $MOONPHASE_CONFIG, else built-in defaults)")
	flagSet.StringVar(&mountpoint, "mountpoint", "", "directory to mount the device filesystem on")
	flagSet.BoolVar(&allowOther, "allow-other", false, "let other users open the device file (needs user_allow_other)")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return nil, false, process.Usage("%v", err)
	}
	if showHelp {
		printHelp(stdout, flagSet)
		return nil, true, nil
	}
	if showVersion {
		version.Fprint(stdout, "moonphase-service")
		return nil, true, nil
	}
	if flagSet.NArg() > 0 {
		return nil, false, process.Usage("unexpected argument: %s", flagSet.Arg(0))
	}

	switch {
	case configPath != "":
		cfg, err = config.LoadFile(configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
		cfg.ExpandVariables()
	}
	if err != nil {
		return nil, false, err
	}

	if flagSet.Changed("mountpoint") {
		cfg.Mount.Mountpoint = mountpoint
	}
	if flagSet.Changed("allow-other") {
		cfg.Mount.AllowOther = allowOther
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, false, nil
}

// newDevice builds the document source and device described by cfg.
func newDevice(cfg *config.Config, clk clock.Clock, logger *slog.Logger) (*device.Device, error) {
	var art string
	if cfg.Document.ArtFile != "" {
		loaded, err := document.LoadArt(cfg.Document.ArtFile)
		if err != nil {
			return nil, err
		}
		art = loaded
	}

	builder, err := document.New(document.Options{
		Clock:   clk,
		Art:     art,
		MaxSize: cfg.Document.MaxSize,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("preparing document: %w", err)
	}

	return device.New(device.Options{Source: builder, Logger: logger})
}

// serve mounts the device and blocks until ctx is cancelled or the
// filesystem is unmounted externally (fusermount -u).
func serve(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *slog.Logger) error {
	if err := moonfs.Available(); err != nil {
		return err
	}

	dev, err := newDevice(cfg, clk, logger)
	if err != nil {
		return err
	}

	mode, err := cfg.FileMode()
	if err != nil {
		return err
	}

	server, err := moonfs.Mount(moonfs.Options{
		Mountpoint: cfg.Mount.Mountpoint,
		Device:     dev,
		FileName:   cfg.Mount.FileName,
		Mode:       mode,
		AllowOther: cfg.Mount.AllowOther,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	unmounted := make(chan struct{})
	go func() {
		server.Wait()
		close(unmounted)
	}()

	logger.Info("moonphase service started", "version", version.Info())

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := server.Unmount(); err != nil {
			return fmt.Errorf("unmounting %s: %w", cfg.Mount.Mountpoint, err)
		}
		<-unmounted
	case <-unmounted:
		logger.Warn("filesystem unmounted externally", "mountpoint", cfg.Mount.Mountpoint)
	}

	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `moonphase-service serves the current moon phase as a read-only file.

Usage:
  moonphase-service [flags]

Examples:
  # Serve on the default mountpoint ($XDG_RUNTIME_DIR/moonphase)
  moonphase-service

  # Serve under /run for every user on the machine
  moonphase-service --mountpoint /run/moonphase --allow-other

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
