// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"errors"

	"github.com/jblestang/AIStegano/lib/bootstrap"
	"github.com/jblestang/AIStegano/lib/erasure"
	"github.com/jblestang/AIStegano/lib/hostpool"
	"github.com/jblestang/AIStegano/lib/sealed"
	"github.com/jblestang/AIStegano/lib/slackio"
	"github.com/jblestang/AIStegano/lib/superblock"
)

// Each layer owns one error family; this package re-exports them so
// callers match every failure mode against a single import. All
// mutating operations are either fully applied in-memory or not at
// all. Per-symbol read failures are recovered silently: during
// ReadFile and Health they accumulate into the recoverability count,
// and during Mount unreadable or corrupt superblock symbols are
// dropped before decoding. A failed wipe of a superseded superblock
// symbol during Sync is logged, not returned.
var (
	// ErrBootstrapMissing: mount attempted with no pointer file.
	ErrBootstrapMissing = bootstrap.ErrMissing
	// ErrBootstrapCorrupt: the pointer file failed to parse.
	ErrBootstrapCorrupt = bootstrap.ErrCorrupt
	// ErrAuthenticationFailed: AEAD tag mismatch. Deliberately
	// conflates wrong password and tampering.
	ErrAuthenticationFailed = sealed.ErrAuthenticationFailed
	// ErrInsufficientData: fewer than K symbols survived.
	ErrInsufficientData = erasure.ErrInsufficientSymbols
	// ErrCapacityExhausted: the allocator found no fit. The failing
	// operation leaves no partial write.
	ErrCapacityExhausted = hostpool.ErrCapacityExhausted
	// ErrPathExists, ErrNotFound, ErrNotADirectory, ErrNotAFile,
	// ErrInvalidPath: path resolution failures.
	ErrPathExists    = superblock.ErrPathExists
	ErrNotFound      = superblock.ErrNotFound
	ErrNotADirectory = superblock.ErrNotADirectory
	ErrNotAFile      = superblock.ErrNotAFile
	ErrInvalidPath   = superblock.ErrInvalidPath
	// ErrSlackIO: underlying slack I/O failure.
	ErrSlackIO = slackio.ErrSlackIO
	// ErrLocked: another handle owns the host directory.
	ErrLocked = bootstrap.ErrLocked

	// ErrInvalidConfig: configuration refused at init.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrAlreadyInitialized: create attempted over an existing VFS.
	ErrAlreadyInitialized = errors.New("VFS already initialized in directory")
	// ErrNoHosts: no usable host files in the directory.
	ErrNoHosts = errors.New("no host files with usable slack space")
	// ErrClosed: operation on a closed handle.
	ErrClosed = errors.New("operation on closed VFS handle")
	// ErrDirectoryNotEmpty: unlink of a non-empty directory.
	ErrDirectoryNotEmpty = errors.New("directory not empty")
	// ErrHostDrift: a host's logical size changed since mount. A
	// warning from Health; a hard error only when it breaks a read.
	ErrHostDrift = errors.New("host file drifted from frozen logical size")
)
