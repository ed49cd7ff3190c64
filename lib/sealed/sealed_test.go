// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jblestang/AIStegano/lib/secret"
)

// testKDFParams keeps Argon2id cheap in tests. Production settings are
// exercised implicitly through DefaultKDFParams unit checks only.
var testKDFParams = KDFParams{Memory: 64, Time: 1, Threads: 1}

func testPassword(t *testing.T, s string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromBytes([]byte(s))
	if err != nil {
		t.Fatalf("secret.NewFromBytes: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := [SaltSize]byte{1, 2, 3}

	key1, err := DeriveKey(testPassword(t, "password123"), salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer key1.Close()
	key2, err := DeriveKey(testPassword(t, "password123"), salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer key2.Close()

	if !bytes.Equal(key1.Bytes(), key2.Bytes()) {
		t.Error("same password and salt produced different keys")
	}
}

func TestDeriveKeyDiffersByPasswordAndSalt(t *testing.T) {
	salt := [SaltSize]byte{7}

	key1, err := DeriveKey(testPassword(t, "alpha"), salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer key1.Close()

	key2, err := DeriveKey(testPassword(t, "beta"), salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer key2.Close()

	if bytes.Equal(key1.Bytes(), key2.Bytes()) {
		t.Error("different passwords produced the same key")
	}

	otherSalt := [SaltSize]byte{8}
	key3, err := DeriveKey(testPassword(t, "alpha"), otherSalt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer key3.Close()

	if bytes.Equal(key1.Bytes(), key3.Bytes()) {
		t.Error("different salts produced the same key")
	}
}

func TestSealOpenRoundtrip(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	defer key.Close()

	plaintext := []byte("the quick brown fox")
	blob, err := Seal(key, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(blob) != NonceSize+len(plaintext)+TagSize {
		t.Errorf("blob length = %d, want %d", len(blob), NonceSize+len(plaintext)+TagSize)
	}

	opened, err := Open(key, blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("Open = %q, want %q", opened, plaintext)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	defer key.Close()

	blob, err := Seal(key, []byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	for i := range blob {
		mutated := bytes.Clone(blob)
		mutated[i] ^= 0x01
		if _, err := Open(key, mutated); !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("flipping byte %d: err = %v, want ErrAuthenticationFailed", i, err)
		}
	}
}

func TestOpenRejectsWrongKey(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	defer key.Close()
	other, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	defer other.Close()

	blob, err := Seal(key, []byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Open(other, blob); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestOpenRejectsShortBlob(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	defer key.Close()

	if _, err := Open(key, make([]byte, NonceSize+TagSize-1)); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestSealUsesFreshNonces(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	defer key.Close()

	first, err := Seal(key, []byte("same message"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	second, err := Seal(key, []byte("same message"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Equal(first[:NonceSize], second[:NonceSize]) {
		t.Error("nonce reused across Seal calls")
	}
}

func TestWrapUnwrapKey(t *testing.T) {
	master, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	defer master.Close()

	salt := [SaltSize]byte{42}
	kek, err := DeriveKey(testPassword(t, "pw"), salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer kek.Close()

	wrapped, err := WrapKey(kek, master)
	if err != nil {
		t.Fatalf("WrapKey: %v", err)
	}

	unwrapped, err := UnwrapKey(kek, wrapped)
	if err != nil {
		t.Fatalf("UnwrapKey: %v", err)
	}
	defer unwrapped.Close()

	if !bytes.Equal(unwrapped.Bytes(), master.Bytes()) {
		t.Error("unwrapped key differs from master key")
	}

	wrongKek, err := DeriveKey(testPassword(t, "wrong"), salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer wrongKek.Close()

	if _, err := UnwrapKey(wrongKek, wrapped); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDefaultKDFParams(t *testing.T) {
	params := DefaultKDFParams()
	if params.Memory != 64*1024 || params.Time != 3 || params.Threads != 4 {
		t.Errorf("unexpected defaults: %+v", params)
	}
}
