// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/jblestang/AIStegano/lib/secret"
)

const (
	// KeySize is the AES-256 key length.
	KeySize = 32
	// SaltSize is the Argon2id salt length.
	SaltSize = 32
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
	// TagSize is the AES-GCM authentication tag length.
	TagSize = 16
)

// ErrAuthenticationFailed is returned when a sealed blob fails to
// open. A wrong password and tampered ciphertext are deliberately
// indistinguishable: both produce an AEAD tag mismatch.
var ErrAuthenticationFailed = errors.New("authentication failed: wrong password or corrupted data")

// KDFParams are the Argon2id cost parameters. The zero value is not
// usable; call DefaultKDFParams for the production settings.
type KDFParams struct {
	// Memory is the memory cost in KiB.
	Memory uint32
	// Time is the iteration count.
	Time uint32
	// Threads is the parallelism degree.
	Threads uint8
}

// DefaultKDFParams returns the production Argon2id settings:
// 64 MiB memory, 3 iterations, parallelism 4. Tests substitute cheap
// parameters; persisted data does not record the parameters, so a
// given VFS must always be opened with the settings it was created
// with.
func DefaultKDFParams() KDFParams {
	return KDFParams{Memory: 64 * 1024, Time: 3, Threads: 4}
}

// NewSalt returns a fresh random Argon2id salt.
func NewSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return salt, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// NewKey returns a fresh random 256-bit key in a secret buffer. This
// is the master file key generated at VFS creation; every payload is
// sealed under it for the lifetime of the VFS.
func NewKey() (*secret.Buffer, error) {
	raw := make([]byte, KeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return secret.NewFromBytes(raw)
}

// DeriveKey derives a 256-bit key-encryption key from a password with
// Argon2id. The password buffer is borrowed, not closed. This call
// costs on the order of a second with the default parameters.
func DeriveKey(password *secret.Buffer, salt [SaltSize]byte, params KDFParams) (*secret.Buffer, error) {
	if params.Memory == 0 || params.Time == 0 || params.Threads == 0 {
		return nil, fmt.Errorf("invalid KDF parameters: %+v", params)
	}
	raw := argon2.IDKey(password.Bytes(), salt[:], params.Time, params.Memory, params.Threads, KeySize)
	return secret.NewFromBytes(raw)
}

// Seal encrypts plaintext under key with AES-256-GCM and a fresh
// random 96-bit nonce. The output layout is
// nonce(12) || ciphertext || tag(16). With random nonces the birthday
// bound on reuse is far beyond any realistic write volume for this
// system.
func Seal(key *secret.Buffer, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	// Seal appends to nonce, producing nonce || ciphertext || tag.
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal. Any failure — truncation,
// bit flips, or a key derived from the wrong password — surfaces as
// ErrAuthenticationFailed.
func Open(key *secret.Buffer, blob []byte) ([]byte, error) {
	if len(blob) < NonceSize+TagSize {
		return nil, ErrAuthenticationFailed
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// WrapKey seals the master file key under a password-derived
// key-encryption key. The wrapped form is stored in the bootstrap
// pointer file; changing the password rewraps the same master key, so
// file bodies never need re-encryption.
func WrapKey(kek, masterKey *secret.Buffer) ([]byte, error) {
	return Seal(kek, masterKey.Bytes())
}

// UnwrapKey opens a wrapped master key, returning it in a secret
// buffer. Fails with ErrAuthenticationFailed on a wrong password.
func UnwrapKey(kek *secret.Buffer, wrapped []byte) (*secret.Buffer, error) {
	raw, err := Open(kek, wrapped)
	if err != nil {
		return nil, err
	}
	if len(raw) != KeySize {
		secret.Zero(raw)
		return nil, ErrAuthenticationFailed
	}
	return secret.NewFromBytes(raw)
}

func newAEAD(key *secret.Buffer) (cipher.AEAD, error) {
	if key.Len() != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, key.Len())
	}
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aead, nil
}
