// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package device

import "sync/atomic"

// Gate is a single-slot, non-blocking admission flag. The zero value
// is an idle gate.
type Gate struct {
	held atomic.Bool
}

// TryAcquire claims the gate. It returns false without waiting if the
// gate is already held. Exactly one of any number of concurrent
// callers on an idle gate wins.
func (g *Gate) TryAcquire() bool {
	return g.held.CompareAndSwap(false, true)
}

// Release returns the gate to idle.
func (g *Gate) Release() {
	g.held.Store(false)
}

// Held reports whether the gate is currently claimed.
func (g *Gate) Held() bool {
	return g.held.Load()
}
