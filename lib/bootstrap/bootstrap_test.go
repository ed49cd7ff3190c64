// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jblestang/AIStegano/lib/erasure"
)

func sampleFile() *File {
	return &File{
		Version:          Version,
		BlockSize:        4096,
		Salt:             [32]byte{1, 2, 3},
		WrappedMasterKey: []byte("wrapped-key-bytes"),
		SuperblockEncoding: erasure.Descriptor{
			OriginalLength: 500,
			SourceSymbols:  1,
			RepairSymbols:  1,
			SymbolSize:     1024,
		},
		SuperblockSymbols: []SymbolRef{
			{HostPath: "/hosts/a.dat", Offset: 1000, Length: 1024, SymbolID: 0, Digest: strings.Repeat("ab", 32)},
			{HostPath: "/hosts/b.dat", Offset: 2000, Length: 1024, SymbolID: 1, Digest: strings.Repeat("cd", 32)},
		},
	}
}

func TestWriteLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	if Exists(dir) {
		t.Fatal("Exists before Write")
	}
	if _, err := Load(dir); !errors.Is(err, ErrMissing) {
		t.Fatalf("err = %v, want ErrMissing", err)
	}

	if err := Write(dir, sampleFile()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !Exists(dir) {
		t.Fatal("Exists false after Write")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BlockSize != 4096 || loaded.Salt[0] != 1 || len(loaded.SuperblockSymbols) != 2 {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.SuperblockSymbols[1].Offset != 2000 {
		t.Errorf("symbol offset = %d, want 2000", loaded.SuperblockSymbols[1].Offset)
	}
	if string(loaded.WrappedMasterKey) != "wrapped-key-bytes" {
		t.Errorf("wrapped key = %q", loaded.WrappedMasterKey)
	}
}

func TestSaltEncodesAsIntegerArray(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, sampleFile()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	salt, ok := generic["salt"].([]any)
	if !ok {
		t.Fatalf("salt is %T, want JSON array", generic["salt"])
	}
	if len(salt) != 32 {
		t.Errorf("salt length = %d, want 32", len(salt))
	}
}

func TestLoadRejectsCorruptJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	dir := t.TempDir()
	file := sampleFile()
	if err := Write(dir, file); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	mutated := strings.Replace(string(raw), `"version": 3`, `"version": 99`, 1)
	if err := os.WriteFile(Path(dir), []byte(mutated), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(dir); !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestWriteLeavesNoTemporaries(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, sampleFile()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Write(dir, sampleFile()); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("temporary file left behind: %s", entry.Name())
		}
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	if err := Remove(dir); err != nil {
		t.Fatalf("Remove of missing file: %v", err)
	}
	if err := Write(dir, sampleFile()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := Remove(dir); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if Exists(dir) {
		t.Error("pointer file still present after Remove")
	}
}

func TestLockExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := AcquireLock(dir); !errors.Is(err, ErrLocked) {
		t.Errorf("second acquire: err = %v, want ErrLocked", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	relock, err := AcquireLock(dir)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	relock.Release()
}
