// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline composes the crypto and erasure layers into the
// seal-then-fragment transformation every payload goes through:
// bytes → optional zstd → AES-256-GCM seal → optional superblock
// frame → erasure symbols, and the exact inverse.
package pipeline
