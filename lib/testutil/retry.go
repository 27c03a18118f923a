// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "time"

// Retry calls attempt until it returns nil, sleeping interval between
// calls. An error for which retryable returns false fails the test
// immediately; a nil retryable retries every error. The test also
// fails if attempt has not succeeded within timeout.
//
//	var file *os.File
//	testutil.Retry(t, 5*time.Second, 10*time.Millisecond,
//		func(err error) bool { return errors.Is(err, syscall.EBUSY) },
//		func() (err error) { file, err = os.Open(path); return err })
func Retry(t TB, timeout, interval time.Duration, retryable func(error) bool, attempt func() error) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		err := attempt()
		if err == nil {
			return
		}
		if retryable != nil && !retryable(err) {
			t.Fatalf("attempt failed: %v", err)
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("still failing after %v: %v", timeout, err)
			return
		}
		time.Sleep(interval)
	}
}
