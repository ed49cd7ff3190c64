// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package vfs is the steganographic virtual file system: encrypted,
// erasure-coded user files hidden in the slack space of unrelated
// host files.
//
// A handle is obtained with [Create] (initialize a directory of host
// files) or [Mount] (rediscover an existing VFS from its bootstrap
// pointer file). Operations mutate in-memory state; [VFS.Sync] makes
// them durable by re-sealing the superblock into fresh slack
// placements and atomically rewriting the pointer file. [VFS.Close]
// syncs a dirty handle, releases the advisory lock, and zeroizes key
// material.
//
// A handle is single-owner: no internal locking, no cross-process
// sharing beyond the advisory lock file. Callers needing concurrency
// serialize on their side.
package vfs
