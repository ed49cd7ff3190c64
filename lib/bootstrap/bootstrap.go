// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jblestang/AIStegano/lib/erasure"
)

// FileName is the pointer file's well-known name inside the host
// directory.
const FileName = ".slack_meta.json"

// Version is the pointer file format version.
const Version = 3

var (
	// ErrMissing is returned by Load when no pointer file exists.
	ErrMissing = errors.New("bootstrap pointer file missing")
	// ErrCorrupt is returned by Load when the pointer file cannot be
	// parsed or fails validation.
	ErrCorrupt = errors.New("bootstrap pointer file corrupt")
)

// SymbolRef locates one superblock symbol. Offset is the absolute
// on-disk offset — not relative to the host's logical EOF — so that
// recovery can proceed even when the logical size is ambiguous.
// Digest is the BLAKE3-256 of the symbol bytes, hex encoded.
type SymbolRef struct {
	HostPath string `json:"host_path"`
	Offset   uint64 `json:"offset"`
	Length   uint32 `json:"length"`
	SymbolID uint32 `json:"symbol_id"`
	Digest   string `json:"digest"`
}

// File is the plaintext bootstrap record: everything a mount needs
// before any decryption can happen. It deliberately contains no
// file-system structure — only the KDF salt, the wrapped master key,
// and where the superblock's symbols live.
type File struct {
	Version   int      `json:"version"`
	BlockSize uint64   `json:"block_size"`
	Salt      [32]byte `json:"salt"`

	// WrappedMasterKey is the master file key sealed under the
	// password-derived key-encryption key. Rewrapping this blob is
	// all a password change costs; file bodies stay sealed under the
	// master key.
	WrappedMasterKey []byte `json:"wrapped_master_key"`

	SuperblockEncoding erasure.Descriptor `json:"superblock_encoding"`
	SuperblockSymbols  []SymbolRef        `json:"superblock_symbols"`
}

// Path returns the pointer file path for a host directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether a pointer file is present.
func Exists(dir string) bool {
	_, err := os.Stat(Path(dir))
	return err == nil
}

// Load reads and validates the pointer file.
func Load(dir string) (*File, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", Path(dir), err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if file.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, file.Version)
	}
	if len(file.WrappedMasterKey) == 0 || len(file.SuperblockSymbols) == 0 || file.BlockSize == 0 {
		return nil, fmt.Errorf("%w: incomplete record", ErrCorrupt)
	}
	return &file, nil
}

// Write persists the pointer file atomically: write to a temporary
// sibling, fsync, rename over the final name, fsync the directory.
// The rename is the sync protocol's linearization point — a crash on
// either side of it leaves a parseable pointer file describing a
// consistent superblock.
func Write(dir string, file *File) error {
	file.Version = Version
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bootstrap file: %w", err)
	}

	finalPath := Path(dir)
	temporary, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary bootstrap file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("writing temporary bootstrap file: %w", err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return fmt.Errorf("syncing temporary bootstrap file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing temporary bootstrap file: %w", err)
	}

	if err := os.Rename(temporaryPath, finalPath); err != nil {
		return fmt.Errorf("renaming bootstrap file into place: %w", err)
	}
	return syncDir(dir)
}

// Remove deletes the pointer file. Missing is not an error.
func Remove(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing bootstrap file: %w", err)
	}
	return nil
}

func syncDir(dir string) error {
	handle, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("opening host directory for sync: %w", err)
	}
	defer handle.Close()
	if err := handle.Sync(); err != nil {
		return fmt.Errorf("syncing host directory: %w", err)
	}
	return nil
}
