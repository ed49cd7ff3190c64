// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/jblestang/AIStegano/lib/secret"
)

// Secret wraps a string in a secret.Buffer, closing it when the test
// completes.
func Secret(t *testing.T, s string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(s))
	if err != nil {
		t.Fatalf("creating secret buffer: %v", err)
	}
	t.Cleanup(func() { _ = buffer.Close() })
	return buffer
}
