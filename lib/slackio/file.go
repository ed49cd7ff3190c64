// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package slackio

import (
	"crypto/rand"
	"fmt"
	"os"
)

// FileBackend reads and writes slack space through ordinary file
// descriptors. Writes seek past logical EOF, write in a single
// positioned write, and truncate the file back to its original
// length, so stat keeps reporting the pre-write size and the pre-EOF
// region is never touched. Descriptors are opened per operation and
// released on every exit path.
type FileBackend struct{}

// NewFileBackend returns the default userland backend.
func NewFileBackend() *FileBackend { return &FileBackend{} }

func (*FileBackend) Capacity(path string, blockSize uint64) (uint64, error) {
	if blockSize == 0 {
		return 0, fmt.Errorf("%w: block size must be positive", ErrSlackIO)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %w", ErrSlackIO, path, err)
	}
	return slackCapacity(uint64(info.Size()), blockSize), nil
}

func (*FileBackend) Read(path string, offset uint64, n int) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSlackIO, path, err)
	}
	defer file.Close()

	buffer := make([]byte, n)
	read, err := file.ReadAt(buffer, int64(offset))
	if read < n {
		return nil, fmt.Errorf("%w: read %s at %d: got %d of %d bytes (%v)", ErrSlackIO, path, offset, read, n, err)
	}
	return buffer, nil
}

func (*FileBackend) Write(path string, offset uint64, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrSlackIO, path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrSlackIO, path, err)
	}
	logical := info.Size()
	if int64(offset) < logical {
		return fmt.Errorf("%w: write to %s at %d would clobber logical content (EOF %d)", ErrSlackIO, path, offset, logical)
	}

	if _, err := file.WriteAt(data, int64(offset)); err != nil {
		return fmt.Errorf("%w: write %s at %d: %w", ErrSlackIO, path, offset, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrSlackIO, path, err)
	}

	// The positioned write grew the file's logical length. Restore it
	// so stat keeps reporting the original size; the written bytes
	// stay within the block the file system already allocated.
	if err := file.Truncate(logical); err != nil {
		return fmt.Errorf("%w: truncate %s to %d: %w", ErrSlackIO, path, logical, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrSlackIO, path, err)
	}
	return nil
}

func (*FileBackend) Wipe(path string, offset uint64, length uint64, passes int) error {
	if passes <= 0 {
		passes = DefaultWipePasses
	}
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrSlackIO, path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrSlackIO, path, err)
	}
	logical := info.Size()
	if int64(offset) < logical {
		return fmt.Errorf("%w: wipe of %s at %d would clobber logical content (EOF %d)", ErrSlackIO, path, offset, logical)
	}

	noise := make([]byte, length)
	for pass := 0; pass < passes; pass++ {
		if _, err := rand.Read(noise); err != nil {
			return fmt.Errorf("%w: generating wipe pattern: %w", ErrSlackIO, err)
		}
		if _, err := file.WriteAt(noise, int64(offset)); err != nil {
			return fmt.Errorf("%w: wipe %s at %d: %w", ErrSlackIO, path, offset, err)
		}
		if err := file.Sync(); err != nil {
			return fmt.Errorf("%w: sync %s: %w", ErrSlackIO, path, err)
		}
	}

	if err := file.Truncate(logical); err != nil {
		return fmt.Errorf("%w: truncate %s to %d: %w", ErrSlackIO, path, logical, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrSlackIO, path, err)
	}
	return nil
}
