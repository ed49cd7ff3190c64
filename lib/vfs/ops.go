// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jblestang/AIStegano/lib/erasure"
	"github.com/jblestang/AIStegano/lib/hostpool"
	"github.com/jblestang/AIStegano/lib/superblock"
)

// DirEntry is one row of a directory listing.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  uint64
	Mtime int64
	Inode superblock.InodeID
}

// CreateFile stores a new file at the given absolute path. The body
// is sealed, fragmented, and each symbol written to an allocated
// slack range; the inode and its placements are appended to the
// in-memory superblock. Requires a later Sync to become durable.
func (v *VFS) CreateFile(pathString string, data []byte) error {
	if err := v.ensureOpen(); err != nil {
		return err
	}
	parent, name, err := v.resolveNewEntry(pathString)
	if err != nil {
		return err
	}

	descriptor, symbols, err := v.filePipeline().Seal(data)
	if err != nil {
		return err
	}

	// Plan the whole batch before touching disk: a capacity failure
	// must leave neither partial writes nor orphan placements.
	var allocations []hostpool.Allocation
	if len(symbols) > 0 {
		allocations, err = v.pool.AllocateBatch(len(symbols), uint64(v.config.SymbolSize))
		if err != nil {
			return err
		}
	}

	placements := make([]superblock.Placement, len(symbols))
	for i, symbol := range symbols {
		allocation := allocations[i]
		host, ok := v.pool.Host(allocation.Host)
		if !ok {
			return fmt.Errorf("allocated on untracked host %s", allocation.Host)
		}
		if err := v.backend.Write(allocation.Host, host.LogicalSize+allocation.Offset, symbol.Data); err != nil {
			return err
		}
		placements[i] = superblock.Placement{
			SymbolID: symbol.ID,
			Host:     allocation.Host,
			Offset:   allocation.Offset,
			Length:   uint32(len(symbol.Data)),
			Digest:   digestOf(symbol.Data),
		}
	}

	now := v.clk.Now().Unix()
	inode := &superblock.Inode{
		ID:       v.sb.AllocInode(),
		Name:     name,
		Kind:     superblock.KindFile,
		Size:     uint64(len(data)),
		Ctime:    now,
		Mtime:    now,
		Encoding: &descriptor,
	}
	for i := range placements {
		placements[i].Inode = inode.ID
		inode.SymbolIDs = append(inode.SymbolIDs, placements[i].SymbolID)
		v.sb.AddPlacement(placements[i])
	}
	v.sb.Inodes[inode.ID] = inode
	parent.AddChild(inode.ID)
	parent.Mtime = now

	v.state = stateDirty
	return nil
}

// ReadFile reads a file back. Placements whose host drifted, whose
// read failed, or whose digest mismatches are skipped; decoding
// succeeds with any K surviving symbols and returns
// ErrInsufficientData below that.
func (v *VFS) ReadFile(pathString string) ([]byte, error) {
	if err := v.ensureOpen(); err != nil {
		return nil, err
	}
	inode, err := v.resolveFile(pathString)
	if err != nil {
		return nil, err
	}

	symbols := v.collectSymbols(inode.ID, nil)
	return v.filePipeline().Open(*inode.Encoding, symbols)
}

// DeleteFile removes a file. With secure set, the placements' slack
// ranges are overwritten before the records are dropped. Host
// high-water marks are not rewound.
func (v *VFS) DeleteFile(pathString string, secure bool) error {
	if err := v.ensureOpen(); err != nil {
		return err
	}
	path, err := superblock.ParsePath(pathString)
	if err != nil {
		return err
	}
	inode, err := v.resolveFile(pathString)
	if err != nil {
		return err
	}
	parent, err := v.sb.Resolve(path.Parent())
	if err != nil {
		return err
	}

	if secure {
		for _, placement := range v.sb.PlacementsFor(inode.ID) {
			host, ok := v.pool.Host(placement.Host)
			if !ok {
				continue
			}
			if err := v.backend.Wipe(placement.Host, host.LogicalSize+placement.Offset, uint64(placement.Length), v.config.WipePasses); err != nil {
				return fmt.Errorf("wiping placement of symbol %d: %w", placement.SymbolID, err)
			}
		}
	}

	v.sb.RemovePlacementsFor(inode.ID)
	parent.RemoveChild(inode.ID)
	delete(v.sb.Inodes, inode.ID)
	parent.Mtime = v.clk.Now().Unix()

	v.state = stateDirty
	return nil
}

// CreateDir creates a directory. The parent must already exist.
func (v *VFS) CreateDir(pathString string) error {
	if err := v.ensureOpen(); err != nil {
		return err
	}
	parent, name, err := v.resolveNewEntry(pathString)
	if err != nil {
		return err
	}

	now := v.clk.Now().Unix()
	inode := &superblock.Inode{
		ID:    v.sb.AllocInode(),
		Name:  name,
		Kind:  superblock.KindDirectory,
		Ctime: now,
		Mtime: now,
	}
	v.sb.Inodes[inode.ID] = inode
	parent.AddChild(inode.ID)
	parent.Mtime = now

	v.state = stateDirty
	return nil
}

// ListDir lists a directory's entries sorted by name.
func (v *VFS) ListDir(pathString string) ([]DirEntry, error) {
	if err := v.ensureOpen(); err != nil {
		return nil, err
	}
	path, err := superblock.ParsePath(pathString)
	if err != nil {
		return nil, err
	}
	directory, err := v.sb.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !directory.IsDirectory() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, pathString)
	}

	entries := make([]DirEntry, 0, len(directory.Children))
	for _, childID := range directory.Children {
		child, ok := v.sb.Inode(childID)
		if !ok {
			continue
		}
		entries = append(entries, DirEntry{
			Name:  child.Name,
			IsDir: child.IsDirectory(),
			Size:  child.Size,
			Mtime: child.Mtime,
			Inode: child.ID,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// RemoveDir removes an empty directory. The root and non-empty
// directories are refused.
func (v *VFS) RemoveDir(pathString string) error {
	if err := v.ensureOpen(); err != nil {
		return err
	}
	path, err := superblock.ParsePath(pathString)
	if err != nil {
		return err
	}
	if path.IsRoot() {
		return fmt.Errorf("%w: cannot remove the root directory", ErrInvalidPath)
	}
	inode, err := v.sb.Resolve(path)
	if err != nil {
		return err
	}
	if !inode.IsDirectory() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, pathString)
	}
	if len(inode.Children) > 0 {
		return fmt.Errorf("%w: %s has %d entries", ErrDirectoryNotEmpty, pathString, len(inode.Children))
	}
	parent, err := v.sb.Resolve(path.Parent())
	if err != nil {
		return err
	}

	parent.RemoveChild(inode.ID)
	delete(v.sb.Inodes, inode.ID)
	parent.Mtime = v.clk.Now().Unix()

	v.state = stateDirty
	return nil
}

// Stat returns a copy of the inode at a path.
func (v *VFS) Stat(pathString string) (superblock.Inode, error) {
	if err := v.ensureOpen(); err != nil {
		return superblock.Inode{}, err
	}
	path, err := superblock.ParsePath(pathString)
	if err != nil {
		return superblock.Inode{}, err
	}
	inode, err := v.sb.Resolve(path)
	if err != nil {
		return superblock.Inode{}, err
	}
	return *inode, nil
}

// resolveNewEntry resolves the parent directory for a create and
// validates that the name is free.
func (v *VFS) resolveNewEntry(pathString string) (*superblock.Inode, string, error) {
	path, err := superblock.ParsePath(pathString)
	if err != nil {
		return nil, "", err
	}
	if path.IsRoot() {
		return nil, "", fmt.Errorf("%w: %s", ErrPathExists, pathString)
	}
	parent, err := v.sb.Resolve(path.Parent())
	if err != nil {
		return nil, "", err
	}
	if !parent.IsDirectory() {
		return nil, "", fmt.Errorf("%w: %s", ErrNotADirectory, path.Parent())
	}
	name := path.Name()
	if _, exists := v.sb.Child(parent, name); exists {
		return nil, "", fmt.Errorf("%w: %s", ErrPathExists, pathString)
	}
	return parent, name, nil
}

// resolveFile resolves a path that must name a regular file.
func (v *VFS) resolveFile(pathString string) (*superblock.Inode, error) {
	path, err := superblock.ParsePath(pathString)
	if err != nil {
		return nil, err
	}
	inode, err := v.sb.Resolve(path)
	if err != nil {
		return nil, err
	}
	if !inode.IsFile() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, pathString)
	}
	if inode.Encoding == nil {
		return nil, fmt.Errorf("file %s has no encoding descriptor", pathString)
	}
	return inode, nil
}

// collectSymbols reads an inode's placements from slack, skipping
// hosts that drifted and symbols that fail to read or whose digest
// mismatches. Pass a precomputed drift set to avoid re-statting every
// host per file; nil computes it fresh.
func (v *VFS) collectSymbols(id superblock.InodeID, driftedHosts map[string]bool) []erasure.Symbol {
	drifted := driftedHosts
	if drifted == nil {
		drifted = v.driftedHosts()
	}

	var symbols []erasure.Symbol
	for _, placement := range v.sb.PlacementsFor(id) {
		if drifted[placement.Host] {
			continue
		}
		host, ok := v.pool.Host(placement.Host)
		if !ok {
			continue
		}
		data, err := v.backend.Read(placement.Host, host.LogicalSize+placement.Offset, int(placement.Length))
		if err != nil {
			v.logger.Warn("symbol unreadable", "host", placement.Host, "symbol", placement.SymbolID, "error", err)
			continue
		}
		if !bytes.Equal(placement.Digest, digestOf(data)) {
			v.logger.Warn("symbol corrupt", "host", placement.Host, "symbol", placement.SymbolID)
			continue
		}
		symbols = append(symbols, erasure.Symbol{ID: placement.SymbolID, Data: data})
	}
	return symbols
}

// driftedHosts stats every tracked host once and returns the set
// whose on-disk logical size differs from the frozen value.
func (v *VFS) driftedHosts() map[string]bool {
	drifted := map[string]bool{}
	for _, host := range v.pool.Hosts() {
		moved, onDisk, err := v.pool.Refresh(host.Path)
		if err != nil {
			v.logger.Warn("host unreadable", "host", host.Path, "error", err)
			drifted[host.Path] = true
			continue
		}
		if moved {
			v.logger.Warn("host drifted", "host", host.Path, "frozen", host.LogicalSize, "on_disk", onDisk)
			drifted[host.Path] = true
		}
	}
	return drifted
}
