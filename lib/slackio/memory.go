// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package slackio

import (
	"crypto/rand"
	"fmt"
	"os"
	"sync"
)

// MemoryBackend keeps slack bytes in memory, keyed by host path, while
// logical sizes and capacities still come from the real files on
// disk. It is the reference implementation of the past-EOF semantics
// the file backend assumes, and the backend the integration tests run
// against; on file systems whose userland tail reads return short it
// also serves as a stand-in for the future block-device backend.
type MemoryBackend struct {
	mu        sync.Mutex
	blockSize uint64
	regions   map[string][]byte
}

// NewMemoryBackend returns a memory backend computing capacities with
// the given block size.
func NewMemoryBackend(blockSize uint64) *MemoryBackend {
	return &MemoryBackend{
		blockSize: blockSize,
		regions:   map[string][]byte{},
	}
}

func (m *MemoryBackend) Capacity(path string, blockSize uint64) (uint64, error) {
	if blockSize == 0 {
		return 0, fmt.Errorf("%w: block size must be positive", ErrSlackIO)
	}
	logical, err := m.logicalSize(path)
	if err != nil {
		return 0, err
	}
	return slackCapacity(logical, blockSize), nil
}

func (m *MemoryBackend) Read(path string, offset uint64, n int) ([]byte, error) {
	logical, err := m.logicalSize(path)
	if err != nil {
		return nil, err
	}
	if offset < logical {
		return nil, fmt.Errorf("%w: read of %s at %d is before logical EOF %d", ErrSlackIO, path, offset, logical)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	region := m.region(path, logical)
	relative := offset - logical
	if relative+uint64(n) > uint64(len(region)) {
		return nil, fmt.Errorf("%w: read %s at %d: %d bytes exceed slack capacity %d", ErrSlackIO, path, offset, n, len(region))
	}
	out := make([]byte, n)
	copy(out, region[relative:])
	return out, nil
}

func (m *MemoryBackend) Write(path string, offset uint64, data []byte) error {
	logical, err := m.logicalSize(path)
	if err != nil {
		return err
	}
	if offset < logical {
		return fmt.Errorf("%w: write to %s at %d would clobber logical content (EOF %d)", ErrSlackIO, path, offset, logical)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	region := m.region(path, logical)
	relative := offset - logical
	if relative+uint64(len(data)) > uint64(len(region)) {
		return fmt.Errorf("%w: write %s at %d: %d bytes exceed slack capacity %d", ErrSlackIO, path, offset, len(data), len(region))
	}
	copy(region[relative:], data)
	return nil
}

func (m *MemoryBackend) Wipe(path string, offset uint64, length uint64, passes int) error {
	if passes <= 0 {
		passes = DefaultWipePasses
	}
	logical, err := m.logicalSize(path)
	if err != nil {
		return err
	}
	if offset < logical {
		return fmt.Errorf("%w: wipe of %s at %d would clobber logical content (EOF %d)", ErrSlackIO, path, offset, logical)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	region := m.region(path, logical)
	relative := offset - logical
	if relative+length > uint64(len(region)) {
		return fmt.Errorf("%w: wipe %s at %d: %d bytes exceed slack capacity %d", ErrSlackIO, path, offset, length, len(region))
	}
	noise := make([]byte, length)
	for pass := 0; pass < passes; pass++ {
		if _, err := rand.Read(noise); err != nil {
			return fmt.Errorf("%w: generating wipe pattern: %w", ErrSlackIO, err)
		}
		copy(region[relative:relative+length], noise)
	}
	return nil
}

// region returns the slack buffer for path, allocating it at full
// capacity on first touch. Caller holds the mutex.
func (m *MemoryBackend) region(path string, logical uint64) []byte {
	if region, ok := m.regions[path]; ok {
		return region
	}
	region := make([]byte, slackCapacity(logical, m.blockSize))
	m.regions[path] = region
	return region
}

func (m *MemoryBackend) logicalSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %w", ErrSlackIO, path, err)
	}
	return uint64(info.Size()), nil
}
