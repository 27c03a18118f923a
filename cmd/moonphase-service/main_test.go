// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/moonphase/lib/clock"
	"github.com/bureau-foundation/moonphase/lib/config"
	"github.com/bureau-foundation/moonphase/lib/document"
	"github.com/bureau-foundation/moonphase/lib/moonfs"
	"github.com/bureau-foundation/moonphase/lib/process"
	"github.com/bureau-foundation/moonphase/lib/testutil"
)

var testTimestamp = time.Date(2024, 1, 25, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/42")

	cfg, done, err := loadConfig(nil, io.Discard)
	if err != nil || done {
		t.Fatalf("loadConfig = %v, %v", done, err)
	}
	if cfg.Mount.Mountpoint != "/run/user/42/moonphase" {
		t.Errorf("mountpoint = %s", cfg.Mount.Mountpoint)
	}
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moonphase.yaml")
	content := "mount:\n  mountpoint: /from/file\n  allow_other: true\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, _, err := loadConfig([]string{
		"--config", path,
		"--mountpoint", "/from/flag",
		"--allow-other=false",
		"--log-level", "debug",
	}, io.Discard)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Mount.Mountpoint != "/from/flag" {
		t.Errorf("mountpoint = %s, want /from/flag", cfg.Mount.Mountpoint)
	}
	if cfg.Mount.AllowOther {
		t.Error("allow_other = true, want flag override to false")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %s, want debug", cfg.Log.Level)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moonphase.yaml")
	if err := os.WriteFile(path, []byte("mount:\n  file_name: luna\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(config.EnvironmentVariable, path)

	cfg, _, err := loadConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Mount.FileName != "luna" {
		t.Errorf("file_name = %s, want luna", cfg.Mount.FileName)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")

	var usage *process.UsageError
	if _, _, err := loadConfig([]string{"--bogus"}, io.Discard); !errors.As(err, &usage) {
		t.Errorf("unknown flag: err = %v, want UsageError", err)
	}
	if _, _, err := loadConfig([]string{"extra"}, io.Discard); !errors.As(err, &usage) {
		t.Errorf("positional argument: err = %v, want UsageError", err)
	}
	if _, _, err := loadConfig([]string{"--log-level", "loud"}, io.Discard); err == nil {
		t.Error("invalid log level accepted")
	}
}

func TestLoadConfigHelpAndVersion(t *testing.T) {
	var output bytes.Buffer
	cfg, done, err := loadConfig([]string{"--version"}, &output)
	if err != nil || !done || cfg != nil {
		t.Fatalf("--version: cfg=%v done=%v err=%v", cfg, done, err)
	}
	if !strings.HasPrefix(output.String(), "moonphase-service ") {
		t.Errorf("--version output = %q", output.String())
	}

	output.Reset()
	if _, done, err := loadConfig([]string{"-h"}, &output); err != nil || !done {
		t.Fatalf("-h: done=%v err=%v", done, err)
	}
	if !strings.Contains(output.String(), "--mountpoint") {
		t.Errorf("help output lacks flags: %q", output.String())
	}
}

func TestNewDeviceWithArtFile(t *testing.T) {
	artPath := filepath.Join(t.TempDir(), "art.txt")
	if err := os.WriteFile(artPath, []byte("(o)\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := config.Default()
	cfg.Document.ArtFile = artPath

	dev, err := newDevice(cfg, clock.Fake(testTimestamp), discardLogger())
	if err != nil {
		t.Fatalf("newDevice: %v", err)
	}
	session, err := dev.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	got, err := io.ReadAll(session)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if want := "Full Moon \U0001F316\n(o)\n"; string(got) != want {
		t.Errorf("document = %q, want %q", got, want)
	}
}

func TestNewDeviceRejectsOversizedArt(t *testing.T) {
	cfg := config.Default()
	cfg.Document.MaxSize = 100

	_, err := newDevice(cfg, clock.Fake(testTimestamp), discardLogger())
	if !errors.Is(err, document.ErrTooLarge) {
		t.Errorf("newDevice with default art and 100-byte ceiling: err = %v, want ErrTooLarge", err)
	}
}

func TestServeMountsUntilCancelled(t *testing.T) {
	if err := moonfs.Available(); err != nil {
		t.Skipf("skipping: %v", err)
	}

	cfg := config.Default()
	cfg.Mount.Mountpoint = filepath.Join(t.TempDir(), "mount")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result := make(chan error, 1)
	go func() {
		result <- serve(ctx, cfg, clock.Fake(testTimestamp), discardLogger())
	}()

	path := filepath.Join(cfg.Mount.Mountpoint, cfg.Mount.FileName)
	var content []byte
	testutil.Retry(t, 5*time.Second, 20*time.Millisecond, nil, func() (err error) {
		select {
		case serveErr := <-result:
			t.Fatalf("serve returned before the device file was readable: %v", serveErr)
		default:
		}
		content, err = os.ReadFile(path)
		return err
	})

	if !bytes.HasPrefix(content, []byte("Full Moon \U0001F316\n")) {
		t.Errorf("served document starts %q", content[:min(len(content), 32)])
	}

	cancel()
	if err := testutil.RequireReceive(t, result, 10*time.Second, "waiting for serve to return"); err != nil {
		t.Errorf("serve: %v", err)
	}
}
