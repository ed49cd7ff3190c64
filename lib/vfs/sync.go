// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"encoding/hex"
	"fmt"

	"github.com/jblestang/AIStegano/lib/bootstrap"
	"github.com/jblestang/AIStegano/lib/superblock"
)

// Sync durably commits the in-memory state: increment the sequence
// number, serialize and seal the superblock, write its symbols to
// freshly allocated slack ranges, atomically rewrite the bootstrap
// pointer file, and only then free the previous superblock
// placements. The bootstrap rename is the linearization point — a
// crash on either side of it leaves either the old or the new synced
// state, never an intermediate. Superblock symbols always go to fresh
// placements, never in place, so the symbols the old pointer file
// names stay intact until the rename has succeeded.
func (v *VFS) Sync() error {
	if err := v.ensureOpen(); err != nil {
		return err
	}
	if v.state == stateMounted {
		return nil
	}

	v.sb.Sequence++
	succeeded := false
	defer func() {
		if !succeeded {
			v.sb.Sequence--
		}
	}()

	// Snapshot allocator state into the superblock before the
	// superblock's own symbols are allocated; mount replays this
	// table first and covers the superblock symbols from the
	// bootstrap refs.
	v.sb.Hosts = make(map[string]superblock.HostUsage, v.pool.Count())
	for _, host := range v.pool.Hosts() {
		v.sb.Hosts[host.Path] = superblock.HostUsage{
			FrozenLogicalSize: host.LogicalSize,
			HighWater:         host.HighWater,
		}
	}

	payload, err := v.sb.Marshal()
	if err != nil {
		return fmt.Errorf("serializing superblock: %w", err)
	}
	descriptor, symbols, err := v.superblockPipeline().Seal(payload)
	if err != nil {
		return fmt.Errorf("sealing superblock: %w", err)
	}

	allocations, err := v.pool.AllocateBatch(len(symbols), uint64(v.config.SymbolSize))
	if err != nil {
		return err
	}

	refs := make([]bootstrap.SymbolRef, len(symbols))
	for i, symbol := range symbols {
		allocation := allocations[i]
		host, ok := v.pool.Host(allocation.Host)
		if !ok {
			return fmt.Errorf("allocated on untracked host %s", allocation.Host)
		}
		absolute := host.LogicalSize + allocation.Offset
		if err := v.backend.Write(allocation.Host, absolute, symbol.Data); err != nil {
			return err
		}
		refs[i] = bootstrap.SymbolRef{
			HostPath: allocation.Host,
			Offset:   absolute,
			Length:   uint32(len(symbol.Data)),
			SymbolID: symbol.ID,
			Digest:   hex.EncodeToString(digestOf(symbol.Data)),
		}
	}

	boot := &bootstrap.File{
		Version:            bootstrap.Version,
		BlockSize:          v.config.BlockSize,
		Salt:               v.salt,
		WrappedMasterKey:   v.wrappedMaster,
		SuperblockEncoding: descriptor,
		SuperblockSymbols:  refs,
	}
	if err := bootstrap.Write(v.dir, boot); err != nil {
		return err
	}

	// The rename has landed; the previous superblock placements are
	// now garbage. Their high-water marks are never rewound — the
	// space is reclaimed only by wipe and re-init.
	previous := v.currentRefs
	v.currentRefs = refs
	if v.config.SecureDelete {
		for _, ref := range previous {
			if err := v.backend.Wipe(ref.HostPath, ref.Offset, uint64(ref.Length), v.config.WipePasses); err != nil {
				v.logger.Warn("wiping superseded superblock symbol failed", "host", ref.HostPath, "error", err)
			}
		}
	}

	succeeded = true
	v.state = stateMounted
	v.logger.Info("VFS synced", "sequence", v.sb.Sequence, "superblock_symbols", len(refs))
	return nil
}
