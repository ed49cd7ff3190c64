// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package slackio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func hostFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "host.dat")
	content := bytes.Repeat([]byte{'A'}, size)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCapacity(t *testing.T) {
	cases := []struct {
		name      string
		size      int
		blockSize uint64
		want      uint64
	}{
		{"partial block", 1000, 4096, 3096},
		{"aligned", 4096, 4096, 0},
		{"empty", 0, 4096, 0},
		{"just over a block", 4097, 4096, 4095},
	}

	for _, backend := range []struct {
		name string
		b    Backend
	}{
		{"file", NewFileBackend()},
		{"memory", NewMemoryBackend(4096)},
	} {
		for _, tc := range cases {
			t.Run(backend.name+"/"+tc.name, func(t *testing.T) {
				path := hostFile(t, tc.size)
				got, err := backend.b.Capacity(path, tc.blockSize)
				if err != nil {
					t.Fatalf("Capacity: %v", err)
				}
				if got != tc.want {
					t.Errorf("Capacity = %d, want %d", got, tc.want)
				}
			})
		}
	}
}

func TestCapacityMissingHost(t *testing.T) {
	backend := NewFileBackend()
	_, err := backend.Capacity(filepath.Join(t.TempDir(), "absent"), 4096)
	if !errors.Is(err, ErrSlackIO) {
		t.Errorf("err = %v, want ErrSlackIO", err)
	}
}

func TestFileWritePreservesLogicalContent(t *testing.T) {
	path := hostFile(t, 1000)
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	backend := NewFileBackend()
	if err := backend.Write(path, 1000, []byte("hidden payload")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 1000 {
		t.Errorf("logical size = %d, want 1000", info.Size())
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(after, original) {
		t.Error("pre-EOF content changed")
	}
}

func TestFileWriteRefusesPreEOFOffset(t *testing.T) {
	path := hostFile(t, 1000)
	backend := NewFileBackend()
	if err := backend.Write(path, 500, []byte("x")); !errors.Is(err, ErrSlackIO) {
		t.Errorf("err = %v, want ErrSlackIO", err)
	}
}

func TestFileWipeRestoresLogicalSize(t *testing.T) {
	path := hostFile(t, 1000)
	backend := NewFileBackend()
	if err := backend.Wipe(path, 1000, 2048, 2); err != nil {
		t.Fatalf("Wipe: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 1000 {
		t.Errorf("logical size = %d, want 1000", info.Size())
	}
}

func TestMemoryRoundtrip(t *testing.T) {
	path := hostFile(t, 1000)
	backend := NewMemoryBackend(4096)

	payload := []byte("steganographic symbol bytes")
	if err := backend.Write(path, 1200, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := backend.Read(path, 1200, len(payload))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Read = %q, want %q", got, payload)
	}

	// Unwritten slack reads as zeros.
	zeros, err := backend.Read(path, 3000, 16)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(zeros, make([]byte, 16)) {
		t.Errorf("unwritten slack = %x, want zeros", zeros)
	}
}

func TestMemoryBoundsChecks(t *testing.T) {
	path := hostFile(t, 1000) // capacity 3096 with 4 KiB blocks
	backend := NewMemoryBackend(4096)

	if err := backend.Write(path, 999, []byte("x")); !errors.Is(err, ErrSlackIO) {
		t.Errorf("pre-EOF write: err = %v, want ErrSlackIO", err)
	}
	if err := backend.Write(path, 4095, []byte("xx")); !errors.Is(err, ErrSlackIO) {
		t.Errorf("over-capacity write: err = %v, want ErrSlackIO", err)
	}
	if _, err := backend.Read(path, 4000, 200); !errors.Is(err, ErrSlackIO) {
		t.Errorf("over-capacity read: err = %v, want ErrSlackIO", err)
	}
}

func TestMemoryWipeScrambles(t *testing.T) {
	path := hostFile(t, 1000)
	backend := NewMemoryBackend(4096)

	payload := bytes.Repeat([]byte{0xAB}, 512)
	if err := backend.Write(path, 1000, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := backend.Wipe(path, 1000, 512, 0); err != nil {
		t.Fatalf("Wipe: %v", err)
	}

	got, err := backend.Read(path, 1000, 512)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if bytes.Equal(got, payload) {
		t.Error("wiped range still holds the payload")
	}
}
