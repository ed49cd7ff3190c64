// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"fmt"

	"github.com/jblestang/AIStegano/lib/bootstrap"
	"github.com/jblestang/AIStegano/lib/sealed"
	"github.com/jblestang/AIStegano/lib/secret"
)

// Info is the summary the info command prints.
type Info struct {
	HostDir           string
	UUID              string
	Sequence          uint64
	HostCount         int
	TotalCapacity     uint64
	UsedCapacity      uint64
	AvailableCapacity uint64
	FileCount         int
	DirCount          int
	TotalFileSize     uint64
	BlockSize         uint64
	SymbolSize        uint16
	Redundancy        float64
	Compress          bool
}

// Info summarizes the mounted VFS.
func (v *VFS) Info() (Info, error) {
	if err := v.ensureOpen(); err != nil {
		return Info{}, err
	}
	return Info{
		HostDir:           v.dir,
		UUID:              v.uuidString(),
		Sequence:          v.sb.Sequence,
		HostCount:         v.pool.Count(),
		TotalCapacity:     v.pool.TotalCapacity(),
		UsedCapacity:      v.pool.TotalUsed(),
		AvailableCapacity: v.pool.TotalAvailable(),
		FileCount:         v.sb.FileCount(),
		DirCount:          v.sb.DirCount(),
		TotalFileSize:     v.sb.TotalSize(),
		BlockSize:         v.config.BlockSize,
		SymbolSize:        v.config.SymbolSize,
		Redundancy:        v.config.Redundancy,
		Compress:          v.config.Compress,
	}, nil
}

// Rekey changes the password. The master file key is verified against
// the old password, rewrapped under the new one with a fresh salt,
// and the superblock re-synced; file bodies stay sealed under the
// unchanged master key, so nothing is re-encrypted. Both password
// buffers are borrowed.
func (v *VFS) Rekey(oldPassword, newPassword *secret.Buffer) error {
	if err := v.ensureOpen(); err != nil {
		return err
	}

	oldKek, err := sealed.DeriveKey(oldPassword, v.salt, v.kdf)
	if err != nil {
		return err
	}
	defer oldKek.Close()
	verified, err := sealed.UnwrapKey(oldKek, v.wrappedMaster)
	if err != nil {
		return err
	}
	verified.Close()

	newSalt, err := sealed.NewSalt()
	if err != nil {
		return err
	}
	newKek, err := sealed.DeriveKey(newPassword, newSalt, v.kdf)
	if err != nil {
		return err
	}
	defer newKek.Close()
	rewrapped, err := sealed.WrapKey(newKek, v.master)
	if err != nil {
		return err
	}

	v.salt = newSalt
	v.wrappedMaster = rewrapped
	v.sb.Salt = append([]byte(nil), newSalt[:]...)
	v.state = stateDirty
	if err := v.Sync(); err != nil {
		return fmt.Errorf("persisting rekeyed superblock: %w", err)
	}
	v.logger.Info("password changed", "sequence", v.sb.Sequence)
	return nil
}

// Wipe scrubs every host's entire slack range with random passes,
// removes the bootstrap pointer and lock files, and closes the
// handle. This is the only operation that reclaims space leaked by
// the high-water-mark allocator.
func (v *VFS) Wipe(passes int) error {
	if err := v.ensureOpen(); err != nil {
		return err
	}
	if passes <= 0 {
		passes = v.config.WipePasses
	}

	for _, host := range v.pool.Hosts() {
		if host.SlackCapacity == 0 {
			continue
		}
		if err := v.backend.Wipe(host.Path, host.LogicalSize, host.SlackCapacity, passes); err != nil {
			return fmt.Errorf("wiping %s: %w", host.Path, err)
		}
	}

	if err := bootstrap.Remove(v.dir); err != nil {
		return err
	}

	v.state = stateClosed
	v.master.Close()
	if err := v.lock.Release(); err != nil {
		return err
	}
	v.logger.Info("VFS wiped", "dir", v.dir, "hosts", v.pool.Count(), "passes", passes)
	return nil
}
