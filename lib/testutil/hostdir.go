// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// HostDir creates a temporary directory holding count host files of
// fileSize bytes each, named host_0.dat .. host_{count-1}.dat. With a
// 4096-byte block size, a 1024-byte file leaves 3072 bytes of slack.
func HostDir(t *testing.T, count, fileSize int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < count; i++ {
		WriteHostFile(t, dir, fmt.Sprintf("host_%d.dat", i), fileSize)
	}
	return dir
}

// WriteHostFile creates one host file of size bytes filled with a
// recognizable pattern, returning its path.
func WriteHostFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := bytes.Repeat([]byte{'H'}, size)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing host file %s: %v", path, err)
	}
	return path
}
