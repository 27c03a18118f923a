// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the moon phase
// service.
//
// Configuration comes from a single file named by the --config flag
// (via [LoadFile]) or the MOONPHASE_CONFIG environment variable (via
// [Load]). There is no search path and no merging of several files.
// When neither is given, the service runs on [Default]. Command-line
// flags may override individual values after loading; environment
// variables never do.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_RUNTIME_DIR}, and ${VAR:-default} patterns are
// expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Mount, Document, and Log sections
//   - [Default] -- returns a Config with working defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every invalid field at once
package config
