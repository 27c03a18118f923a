// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration for
// machine-readable phase reports.
//
// The moon phase device itself speaks plain bytes. Tools that want the
// phase as data (index, name, symbol, date) ask the moonphase command
// for JSON or CBOR instead. JSON is for people and scripts; CBOR is for
// programs that already speak it and want a compact, deterministic
// encoding.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same report always produces identical bytes.
//
//	data, err := codec.Marshal(report)
//	err = codec.Unmarshal(data, &report)
//
// Types shared with JSON output carry only `json` struct tags;
// fxamacker/cbor reads them as a fallback, so one tag names the field
// in both encodings.
package codec
