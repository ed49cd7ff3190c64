// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap reads and writes the plaintext pointer file
// (.slack_meta.json) that lets the VFS be rediscovered: format
// version, block size, KDF salt, the wrapped master key, and the
// absolute locations of the superblock's erasure symbols.
//
// The pointer file is rewritten atomically (write-to-temp + rename)
// on every sync; the rename is the linearization point for crash
// safety. The package also provides the advisory lock file that keeps
// two handles from mounting the same directory at once.
package bootstrap
