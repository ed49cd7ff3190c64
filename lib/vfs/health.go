// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"sort"

	"github.com/jblestang/AIStegano/lib/superblock"
)

// HealthStatus classifies a file's recoverability.
type HealthStatus int

const (
	// Healthy: every symbol, repair redundancy included, is intact.
	Healthy HealthStatus = iota
	// Degraded: recoverable, but some redundancy has been lost.
	Degraded
	// Lost: fewer than K symbols survive; the body cannot be
	// reconstructed.
	Lost
)

func (s HealthStatus) String() string {
	switch s {
	case Healthy:
		return "HEALTHY"
	case Degraded:
		return "DEGRADED"
	case Lost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// FileHealth is the recoverability analysis for one file.
type FileHealth struct {
	// Path is the absolute VFS path.
	Path string
	// Status classifies recoverability.
	Status HealthStatus
	// Available is the count of intact symbols.
	Available int
	// Required is K, the minimum to decode.
	Required int
	// Total is K+R.
	Total int
}

// HostDrift reports a host whose on-disk logical size no longer
// matches the frozen value placements were written against.
type HostDrift struct {
	Path       string
	FrozenSize uint64
	OnDiskSize uint64
}

// HealthReport is the full recoverability picture.
type HealthReport struct {
	Files         []FileHealth
	DriftedHosts  []HostDrift
	TotalFiles    int
	Recoverable   int
	TotalCapacity uint64
	UsedCapacity  uint64
	HostCount     int
}

// Health reads every file's placements, counts the intact symbols,
// and classifies each file. Host drift is reported as a warning per
// host; it becomes a hard error only when it breaks a read.
func (v *VFS) Health() (*HealthReport, error) {
	if err := v.ensureOpen(); err != nil {
		return nil, err
	}

	report := &HealthReport{
		TotalCapacity: v.pool.TotalCapacity(),
		UsedCapacity:  v.pool.TotalUsed(),
		HostCount:     v.pool.Count(),
	}

	drifted := map[string]bool{}
	for _, host := range v.pool.Hosts() {
		moved, onDisk, err := v.pool.Refresh(host.Path)
		if err != nil {
			drifted[host.Path] = true
			report.DriftedHosts = append(report.DriftedHosts, HostDrift{Path: host.Path, FrozenSize: host.LogicalSize})
			continue
		}
		if moved {
			v.logger.Warn("host drifted", "host", host.Path, "frozen", host.LogicalSize, "on_disk", onDisk)
			drifted[host.Path] = true
			report.DriftedHosts = append(report.DriftedHosts, HostDrift{Path: host.Path, FrozenSize: host.LogicalSize, OnDiskSize: onDisk})
		}
	}

	for path, inode := range v.filesByPath() {
		symbols := v.collectSymbols(inode.ID, drifted)
		available := len(symbols)
		required := inode.Encoding.SourceSymbols
		total := inode.Encoding.TotalSymbols()

		status := Healthy
		switch {
		case available < required:
			status = Lost
		case available < total:
			status = Degraded
		}

		report.TotalFiles++
		if status != Lost {
			report.Recoverable++
		}
		report.Files = append(report.Files, FileHealth{
			Path:      path,
			Status:    status,
			Available: available,
			Required:  required,
			Total:     total,
		})
	}

	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Path < report.Files[j].Path })
	return report, nil
}

// filesByPath walks the inode tree top-down and returns every file
// inode keyed by its absolute path.
func (v *VFS) filesByPath() map[string]*superblock.Inode {
	files := map[string]*superblock.Inode{}
	var walk func(directory *superblock.Inode, prefix string)
	walk = func(directory *superblock.Inode, prefix string) {
		for _, childID := range directory.Children {
			child, ok := v.sb.Inode(childID)
			if !ok {
				continue
			}
			childPath := prefix + "/" + child.Name
			if child.IsDirectory() {
				walk(child, childPath)
				continue
			}
			if child.Encoding != nil {
				files[childPath] = child
			}
		}
	}
	walk(v.sb.Root(), "")
	return files
}
