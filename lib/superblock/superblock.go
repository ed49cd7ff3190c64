// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package superblock

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jblestang/AIStegano/lib/codec"
)

// Magic identifies a sealed superblock frame.
const Magic = "SVFS"

// FormatVersion is the current superblock and bootstrap format.
const FormatVersion uint32 = 3

var (
	// ErrNotFound is returned when path resolution misses.
	ErrNotFound = errors.New("path not found")
	// ErrNotADirectory is returned when a path component resolves to
	// a file.
	ErrNotADirectory = errors.New("not a directory")
	// ErrNotAFile is returned when a file operation hits a directory.
	ErrNotAFile = errors.New("not a file")
	// ErrPathExists is returned when a create collides with an
	// existing name.
	ErrPathExists = errors.New("path already exists")
	// ErrInvalidMagic is returned when a superblock frame does not
	// start with Magic.
	ErrInvalidMagic = errors.New("invalid superblock magic")
	// ErrVersionMismatch is returned for an unsupported format
	// version.
	ErrVersionMismatch = errors.New("superblock format version mismatch")
)

// Placement binds a symbol id to a concrete slack range. Offset is
// relative to the host's logical EOF, not byte zero, so the record
// stays valid if the logical size drifts within the same block. The
// digest is BLAKE3-256 of the symbol bytes; reads drop symbols whose
// digest mismatches before handing the survivors to the erasure
// decoder.
type Placement struct {
	SymbolID uint32  `cbor:"symbol_id"`
	Host     string  `cbor:"host_path"`
	Offset   uint64  `cbor:"offset"`
	Length   uint32  `cbor:"length"`
	Digest   []byte  `cbor:"digest"`
	Inode    InodeID `cbor:"inode"`
}

// HostUsage is the persisted per-host allocator state.
type HostUsage struct {
	// FrozenLogicalSize is the logical size placements were written
	// against.
	FrozenLogicalSize uint64 `cbor:"frozen_logical_size"`
	// HighWater is the allocation high-water mark.
	HighWater uint64 `cbor:"high_water_mark"`
}

// Superblock is the singleton VFS metadata object: the inode tree,
// the symbol placement table, and per-host usage. It lives in memory
// for the mount's lifetime and on disk as a set of sealed,
// erasure-coded symbols in host slack.
type Superblock struct {
	Version    uint32               `cbor:"version"`
	UUID       []byte               `cbor:"uuid"`
	Sequence   uint64               `cbor:"sequence"`
	Salt       []byte               `cbor:"salt"`
	BlockSize  uint64               `cbor:"block_size"`
	SymbolSize uint16               `cbor:"symbol_size"`
	Redundancy float64              `cbor:"redundancy"`
	Compress   bool                 `cbor:"compress"`
	NextInode  InodeID              `cbor:"next_inode"`
	Inodes     map[InodeID]*Inode   `cbor:"inodes"`
	Hosts      map[string]HostUsage `cbor:"hosts"`
	Placements []Placement          `cbor:"placements"`
}

// New creates an empty superblock containing only the root directory.
func New(blockSize uint64, symbolSize uint16, redundancy float64, compress bool, salt [32]byte, now int64) *Superblock {
	id := uuid.New()
	return &Superblock{
		Version:    FormatVersion,
		UUID:       id[:],
		Sequence:   0,
		Salt:       append([]byte(nil), salt[:]...),
		BlockSize:  blockSize,
		SymbolSize: symbolSize,
		Redundancy: redundancy,
		Compress:   compress,
		NextInode:  RootInodeID + 1,
		Inodes: map[InodeID]*Inode{
			RootInodeID: {
				ID:    RootInodeID,
				Name:  "/",
				Kind:  KindDirectory,
				Ctime: now,
				Mtime: now,
			},
		},
		Hosts: map[string]HostUsage{},
	}
}

// AllocInode hands out the next inode id.
func (s *Superblock) AllocInode() InodeID {
	id := s.NextInode
	s.NextInode++
	return id
}

// Inode returns the inode with the given id.
func (s *Superblock) Inode(id InodeID) (*Inode, bool) {
	inode, ok := s.Inodes[id]
	return inode, ok
}

// Root returns the root directory inode.
func (s *Superblock) Root() *Inode {
	root, ok := s.Inodes[RootInodeID]
	if !ok {
		panic("superblock: root inode missing")
	}
	return root
}

// Child finds a directory's child by name.
func (s *Superblock) Child(directory *Inode, name string) (*Inode, bool) {
	for _, childID := range directory.Children {
		if child, ok := s.Inodes[childID]; ok && child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// Resolve walks a path top-down from the root. Returns ErrNotFound
// when a component is missing and ErrNotADirectory when an
// intermediate component is a file.
func (s *Superblock) Resolve(path Path) (*Inode, error) {
	current := s.Root()
	for _, component := range path.Components() {
		if !current.IsDirectory() {
			return nil, fmt.Errorf("%w: %s", ErrNotADirectory, path)
		}
		child, ok := s.Child(current, component)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		current = child
	}
	return current, nil
}

// AddPlacement records a symbol placement.
func (s *Superblock) AddPlacement(placement Placement) {
	s.Placements = append(s.Placements, placement)
}

// PlacementsFor returns all placements belonging to an inode, in
// table order.
func (s *Superblock) PlacementsFor(id InodeID) []Placement {
	var result []Placement
	for _, placement := range s.Placements {
		if placement.Inode == id {
			result = append(result, placement)
		}
	}
	return result
}

// RemovePlacementsFor drops an inode's placements from the table and
// returns them so the caller can optionally wipe the ranges. Host
// high-water marks are not rewound.
func (s *Superblock) RemovePlacementsFor(id InodeID) []Placement {
	var removed []Placement
	kept := s.Placements[:0]
	for _, placement := range s.Placements {
		if placement.Inode == id {
			removed = append(removed, placement)
		} else {
			kept = append(kept, placement)
		}
	}
	s.Placements = kept
	return removed
}

// FileCount returns the number of file inodes.
func (s *Superblock) FileCount() int {
	count := 0
	for _, inode := range s.Inodes {
		if inode.IsFile() {
			count++
		}
	}
	return count
}

// DirCount returns the number of directory inodes, the root included.
func (s *Superblock) DirCount() int {
	count := 0
	for _, inode := range s.Inodes {
		if inode.IsDirectory() {
			count++
		}
	}
	return count
}

// TotalSize returns the summed logical size of all files.
func (s *Superblock) TotalSize() uint64 {
	var total uint64
	for _, inode := range s.Inodes {
		total += inode.Size
	}
	return total
}

// Marshal encodes the superblock with deterministic CBOR.
func (s *Superblock) Marshal() ([]byte, error) {
	return codec.Marshal(s)
}

// Unmarshal decodes a superblock and validates its format version.
func Unmarshal(data []byte) (*Superblock, error) {
	var s Superblock
	if err := codec.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding superblock: %w", err)
	}
	if s.Version != FormatVersion {
		return nil, fmt.Errorf("%w: expected %d, found %d", ErrVersionMismatch, FormatVersion, s.Version)
	}
	if _, ok := s.Inodes[RootInodeID]; !ok {
		return nil, fmt.Errorf("decoding superblock: root inode missing")
	}
	return &s, nil
}

// frameHeaderSize is len(Magic) plus the version word.
const frameHeaderSize = 4 + 4

// WrapFrame prefixes a sealed superblock blob with the plaintext
// magic and format version. The framed bytes are what gets
// erasure-coded; the magic sits outside the AEAD so a mount can
// reject a foreign payload before attempting decryption.
func WrapFrame(sealedBlob []byte) []byte {
	framed := make([]byte, frameHeaderSize+len(sealedBlob))
	copy(framed, Magic)
	binary.LittleEndian.PutUint32(framed[4:], FormatVersion)
	copy(framed[frameHeaderSize:], sealedBlob)
	return framed
}

// UnwrapFrame validates the magic and version and returns the sealed
// blob.
func UnwrapFrame(framed []byte) ([]byte, error) {
	if len(framed) < frameHeaderSize {
		return nil, fmt.Errorf("%w: frame too short", ErrInvalidMagic)
	}
	if string(framed[:4]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, framed[:4])
	}
	version := binary.LittleEndian.Uint32(framed[4:])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: expected %d, found %d", ErrVersionMismatch, FormatVersion, version)
	}
	return framed[frameHeaderSize:], nil
}
