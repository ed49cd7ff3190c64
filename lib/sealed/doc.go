// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides the cryptographic primitives for the VFS:
// Argon2id key derivation, AES-256-GCM authenticated encryption, and
// wrapping of the master file key under a password-derived
// key-encryption key.
//
// Keys live in secret.Buffer values (mmap-backed, locked against swap,
// zeroed on close). The sealed blob layout is
// nonce(12) || ciphertext || tag(16); a wrong password and tampered
// data are deliberately indistinguishable, both surfacing as
// [ErrAuthenticationFailed].
package sealed
