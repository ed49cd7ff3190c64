// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostpool scans a directory for host files, computes each
// one's slack capacity, and partitions that capacity with a
// deterministic first-fit, high-water-mark allocator.
//
// The high-water mark is max(relative_offset+length) over everything
// ever allocated on a host, never a sum of live placements: freeing a
// placement does not lower it, so a later allocation can never reuse
// a hole some other subsystem still points at. Leaked space is
// reclaimed only by wiping and re-initializing the VFS.
package hostpool
