// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package slackio reads and writes byte ranges beyond a host file's
// logical EOF, bounded by the file's block-aligned capacity, without
// altering its observable length.
//
// The [Backend] capability set {Capacity, Read, Write, Wipe} has two
// implementations: [FileBackend] (positioned reads and writes through
// ordinary descriptors, restoring logical size by truncation) and
// [MemoryBackend] (slack bytes held in memory keyed by host path,
// logical sizes from the real files). Backend selection is static per
// caller; no plugin loading.
package slackio
