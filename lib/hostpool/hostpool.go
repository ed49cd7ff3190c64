// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package hostpool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jblestang/AIStegano/lib/slackio"
)

// ErrCapacityExhausted is returned when no host can fit a requested
// allocation. A failed batch allocation commits nothing.
var ErrCapacityExhausted = errors.New("no host has enough slack capacity")

// ErrUnknownHost is returned for operations naming a path the pool
// does not track.
var ErrUnknownHost = errors.New("host not tracked by pool")

// Host is one tracked host file. LogicalSize is frozen at mount; the
// on-disk size diverging from it is drift, reported by Refresh. The
// high-water mark is the largest relative_offset+length ever
// allocated — monotonically non-decreasing for the session, never a
// sum of live placements. Freeing a placement does not lower it;
// fragmentation is reclaimed only by wipe and re-init.
type Host struct {
	// Path is the absolute host file path.
	Path string
	// LogicalSize is the frozen logical size L.
	LogicalSize uint64
	// SlackCapacity is S = ceil(L/B)·B − L.
	SlackCapacity uint64
	// HighWater is the allocation high-water mark H ∈ [0, S].
	HighWater uint64
}

// Available returns S − H.
func (h *Host) Available() uint64 { return h.SlackCapacity - h.HighWater }

// Allocation is a committed slack range on a host. Offset is relative
// to the host's logical EOF.
type Allocation struct {
	Host   string
	Offset uint64
	Length uint64
}

// Pool tracks the host files of one VFS directory and partitions
// their slack space. Allocation policy is deterministic: first fit
// over hosts sorted lexicographically by path.
type Pool struct {
	dir       string
	blockSize uint64
	backend   slackio.Backend
	hosts     []*Host
	index     map[string]*Host
}

// Scan builds a pool from the regular files directly inside dir.
// Hidden files (the bootstrap pointer and lock files among them) are
// skipped, as is any host whose slack capacity is below minSlack —
// a host that cannot hold a single symbol is useless.
func Scan(dir string, blockSize, minSlack uint64, backend slackio.Backend) (*Pool, error) {
	if blockSize == 0 {
		return nil, fmt.Errorf("block size must be positive")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning host directory: %w", err)
	}

	pool := &Pool{
		dir:       dir,
		blockSize: blockSize,
		backend:   backend,
		index:     map[string]*Host{},
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		capacity, err := backend.Capacity(path, blockSize)
		if err != nil {
			return nil, fmt.Errorf("computing slack capacity of %s: %w", path, err)
		}
		if capacity < minSlack {
			continue
		}
		host := &Host{
			Path:          path,
			LogicalSize:   uint64(info.Size()),
			SlackCapacity: capacity,
		}
		pool.hosts = append(pool.hosts, host)
		pool.index[path] = host
	}

	sort.Slice(pool.hosts, func(i, j int) bool { return pool.hosts[i].Path < pool.hosts[j].Path })
	return pool, nil
}

// BlockSize returns the block size the pool was scanned with.
func (p *Pool) BlockSize() uint64 { return p.blockSize }

// Dir returns the host directory.
func (p *Pool) Dir() string { return p.dir }

// Hosts returns the tracked hosts in allocation order.
func (p *Pool) Hosts() []*Host { return p.hosts }

// Count returns the number of tracked hosts.
func (p *Pool) Count() int { return len(p.hosts) }

// Host looks up a tracked host by path.
func (p *Pool) Host(path string) (*Host, bool) {
	host, ok := p.index[path]
	return host, ok
}

// Allocate reserves size bytes on the first host with room, returning
// the host path and the relative offset (the host's previous
// high-water mark).
func (p *Pool) Allocate(size uint64) (string, uint64, error) {
	allocations, err := p.AllocateBatch(1, size)
	if err != nil {
		return "", 0, err
	}
	return allocations[0].Host, allocations[0].Offset, nil
}

// AllocateBatch reserves count ranges of size bytes each. The batch
// is planned against tentative high-water marks and committed only if
// every range fits, so a CapacityExhausted failure leaves the pool
// untouched.
func (p *Pool) AllocateBatch(count int, size uint64) ([]Allocation, error) {
	if count <= 0 || size == 0 {
		return nil, fmt.Errorf("invalid batch: count %d, size %d", count, size)
	}

	tentative := make(map[*Host]uint64, len(p.hosts))
	for _, host := range p.hosts {
		tentative[host] = host.HighWater
	}

	allocations := make([]Allocation, 0, count)
	for remaining := count; remaining > 0; remaining-- {
		placed := false
		for _, host := range p.hosts {
			mark := tentative[host]
			if host.SlackCapacity-mark >= size {
				allocations = append(allocations, Allocation{Host: host.Path, Offset: mark, Length: size})
				tentative[host] = mark + size
				placed = true
				break
			}
		}
		if !placed {
			return nil, fmt.Errorf("%w: need %d more range(s) of %d bytes, %d bytes available",
				ErrCapacityExhausted, remaining, size, p.TotalAvailable())
		}
	}

	for host, mark := range tentative {
		host.HighWater = mark
	}
	return allocations, nil
}

// Reserve raises a host's high-water mark to cover an existing
// placement, replaying superblock state at mount. The mark only ever
// rises.
func (p *Pool) Reserve(path string, offset, length uint64) error {
	host, ok := p.index[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHost, path)
	}
	end := offset + length
	if end > host.SlackCapacity {
		return fmt.Errorf("placement on %s ends at %d, beyond slack capacity %d", path, end, host.SlackCapacity)
	}
	if end > host.HighWater {
		host.HighWater = end
	}
	return nil
}

// SetFrozenSize overrides a host's frozen logical size with the value
// recorded in the decoded superblock, recomputing its slack capacity.
// The on-disk size may legitimately drift within the same block; the
// frozen value is the one placements were written against.
func (p *Pool) SetFrozenSize(path string, logical uint64) error {
	host, ok := p.index[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHost, path)
	}
	host.LogicalSize = logical
	remainder := logical % p.blockSize
	if remainder == 0 {
		host.SlackCapacity = 0
	} else {
		host.SlackCapacity = p.blockSize - remainder
	}
	if host.HighWater > host.SlackCapacity {
		host.HighWater = host.SlackCapacity
	}
	return nil
}

// Refresh re-reads a host's on-disk logical size and reports whether
// it drifted from the frozen value. Drift is a critical signal to the
// health subsystem: placements on a drifted host were written against
// a logical EOF that no longer holds.
func (p *Pool) Refresh(path string) (drifted bool, onDisk uint64, err error) {
	host, ok := p.index[path]
	if !ok {
		return false, 0, fmt.Errorf("%w: %s", ErrUnknownHost, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, 0, fmt.Errorf("%w: stat %s: %w", slackio.ErrSlackIO, path, err)
	}
	onDisk = uint64(info.Size())
	return onDisk != host.LogicalSize, onDisk, nil
}

// TotalAvailable returns Σ(S − H) over all hosts.
func (p *Pool) TotalAvailable() uint64 {
	var total uint64
	for _, host := range p.hosts {
		total += host.Available()
	}
	return total
}

// TotalCapacity returns Σ S over all hosts.
func (p *Pool) TotalCapacity() uint64 {
	var total uint64
	for _, host := range p.hosts {
		total += host.SlackCapacity
	}
	return total
}

// TotalUsed returns Σ H over all hosts.
func (p *Pool) TotalUsed() uint64 {
	var total uint64
	for _, host := range p.hosts {
		total += host.HighWater
	}
	return total
}
