// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package superblock holds the in-memory VFS metadata: the inode
// tree, the symbol placement table, and per-host usage, plus the
// validated [Path] type and the plaintext frame wrapped around the
// sealed serialized form.
//
// The superblock serializes to deterministic CBOR, is compressed and
// sealed under the master file key, framed with the "SVFS" magic and
// format version, and erasure-coded into symbols stored in host slack
// space. The bootstrap pointer file records where those symbols live.
package superblock
