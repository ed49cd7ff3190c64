// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package superblock

import (
	"github.com/jblestang/AIStegano/lib/erasure"
)

// InodeID identifies an inode within one VFS.
type InodeID uint64

// RootInodeID is the fixed id of the root directory.
const RootInodeID InodeID = 0

// Kind distinguishes files from directories.
type Kind uint8

const (
	// KindFile is a regular file.
	KindFile Kind = 1
	// KindDirectory is a directory.
	KindDirectory Kind = 2
)

// Inode is one file or directory. Files carry an encoding descriptor
// and the ordered ids of their symbols; directories carry an ordered
// list of child inode ids. Names are unique within a directory.
// Children never reference parents, so path resolution is a pure
// top-down walk needing no cycle detection.
type Inode struct {
	ID    InodeID `cbor:"id"`
	Name  string  `cbor:"name"`
	Kind  Kind    `cbor:"kind"`
	Size  uint64  `cbor:"size"`
	Ctime int64   `cbor:"ctime"`
	Mtime int64   `cbor:"mtime"`

	// SymbolIDs lists the file's erasure symbols in id order. Empty
	// for directories.
	SymbolIDs []uint32 `cbor:"symbol_ids,omitempty"`
	// Encoding is the descriptor needed to decode the file's body.
	// Nil for directories.
	Encoding *erasure.Descriptor `cbor:"encoding,omitempty"`
	// Children lists child inode ids in creation order. Nil for files.
	Children []InodeID `cbor:"children,omitempty"`
}

// IsFile reports whether the inode is a regular file.
func (i *Inode) IsFile() bool { return i.Kind == KindFile }

// IsDirectory reports whether the inode is a directory.
func (i *Inode) IsDirectory() bool { return i.Kind == KindDirectory }

// AddChild appends a child id if not already present.
func (i *Inode) AddChild(id InodeID) {
	for _, existing := range i.Children {
		if existing == id {
			return
		}
	}
	i.Children = append(i.Children, id)
}

// RemoveChild removes a child id, reporting whether it was present.
func (i *Inode) RemoveChild(id InodeID) bool {
	for position, existing := range i.Children {
		if existing == id {
			i.Children = append(i.Children[:position], i.Children[position+1:]...)
			return true
		}
	}
	return false
}
