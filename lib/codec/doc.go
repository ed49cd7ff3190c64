// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the deterministic CBOR encoding used for the
// superblock's on-disk form. It wraps fxamacker/cbor configured with
// Core Deterministic Encoding so that the same logical superblock
// always produces identical bytes before sealing.
package codec
