// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"fmt"
	"runtime"
	"testing"
	"time"
)

// recorder is a TB that records the failure message and stops the
// calling goroutine, as testing.T does.
type recorder struct {
	failed  bool
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	runtime.Goexit()
}

// capture runs fn on its own goroutine so Fatalf can stop it.
func capture(fn func(tb TB)) *recorder {
	r := &recorder{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(r)
	}()
	<-done
	return r
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}

	r := capture(func(tb TB) { RequireReceive(tb, make(chan int), 10*time.Millisecond, "waiting for %s", "nothing") })
	if !r.failed || r.message != "timed out after 10ms: waiting for nothing" {
		t.Errorf("timeout: failed=%v message=%q", r.failed, r.message)
	}

	closed := make(chan int)
	close(closed)
	r = capture(func(tb TB) { RequireReceive(tb, closed, time.Second) })
	if !r.failed || r.message != "channel closed without sending a value: (no message)" {
		t.Errorf("closed: failed=%v message=%q", r.failed, r.message)
	}
}

func TestRequireClosed(t *testing.T) {
	ch := make(chan struct{})
	close(ch)
	RequireClosed(t, ch, time.Second, "closed channel")

	r := capture(func(tb TB) { RequireClosed(tb, make(chan struct{}), 10*time.Millisecond, "never") })
	if !r.failed {
		t.Error("RequireClosed on an open channel did not fail")
	}
}

func TestRetry(t *testing.T) {
	errTransient := errors.New("transient")
	transient := func(err error) bool { return errors.Is(err, errTransient) }

	calls := 0
	Retry(t, time.Second, time.Millisecond, transient, func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if calls != 3 {
		t.Errorf("attempts = %d, want 3", calls)
	}

	calls = 0
	r := capture(func(tb TB) {
		Retry(tb, time.Second, time.Millisecond, transient, func() error {
			calls++
			return errors.New("permanent")
		})
	})
	if !r.failed || calls != 1 {
		t.Errorf("permanent error: failed=%v attempts=%d, want failure after 1", r.failed, calls)
	}

	r = capture(func(tb TB) {
		Retry(tb, 20*time.Millisecond, time.Millisecond, nil, func() error { return errTransient })
	})
	if !r.failed {
		t.Error("Retry did not fail after its timeout")
	}
}
