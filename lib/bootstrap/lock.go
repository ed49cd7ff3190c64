// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LockFileName sits alongside the pointer file while a handle owns
// the directory.
const LockFileName = ".slack_meta.lock"

// ErrLocked is returned when another handle already holds the
// directory.
var ErrLocked = errors.New("host directory is locked by another process")

// Lock is an advisory single-process lock on a host directory. It is
// not protection against a hostile second process — only a guard
// against accidental concurrent mounts.
type Lock struct {
	path string
}

// AcquireLock creates the lock file with O_EXCL, recording the
// owner's pid for diagnostics.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFileName)
	handle, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}
	_, writeErr := handle.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	closeErr := handle.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing lock file: %w", errors.Join(writeErr, closeErr))
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file. Idempotent.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}
