// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package hostpool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jblestang/AIStegano/lib/slackio"
	"github.com/jblestang/AIStegano/lib/testutil"
)

func scan(t *testing.T, dir string) *Pool {
	t.Helper()
	pool, err := Scan(dir, 4096, 1024, slackio.NewFileBackend())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return pool
}

func TestScanSkipsHiddenAndSmallHosts(t *testing.T) {
	dir := testutil.HostDir(t, 3, 1024) // 3072 slack each
	testutil.WriteHostFile(t, dir, "aligned.dat", 4096)
	if err := os.WriteFile(filepath.Join(dir, ".slack_meta.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	pool := scan(t, dir)
	if pool.Count() != 3 {
		t.Errorf("Count = %d, want 3", pool.Count())
	}
	if pool.TotalCapacity() != 3*3072 {
		t.Errorf("TotalCapacity = %d, want %d", pool.TotalCapacity(), 3*3072)
	}
}

func TestAllocateIsDeterministicFirstFit(t *testing.T) {
	dir := testutil.HostDir(t, 3, 1024)
	pool := scan(t, dir)

	host, offset, err := pool.Allocate(1024)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if filepath.Base(host) != "host_0.dat" || offset != 0 {
		t.Errorf("first allocation = (%s, %d), want (host_0.dat, 0)", filepath.Base(host), offset)
	}

	host, offset, err = pool.Allocate(1024)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if filepath.Base(host) != "host_0.dat" || offset != 1024 {
		t.Errorf("second allocation = (%s, %d), want (host_0.dat, 1024)", filepath.Base(host), offset)
	}

	// host_0 has 1024 left; a 2048 request spills to host_1.
	host, offset, err = pool.Allocate(2048)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if filepath.Base(host) != "host_1.dat" || offset != 0 {
		t.Errorf("third allocation = (%s, %d), want (host_1.dat, 0)", filepath.Base(host), offset)
	}
}

func TestAllocateBatchAllOrNothing(t *testing.T) {
	dir := testutil.HostDir(t, 2, 1024) // 2 × 3072 slack
	pool := scan(t, dir)

	before := pool.TotalAvailable()
	// 7 × 1024 exceeds the 6144 total; nothing must be committed.
	if _, err := pool.AllocateBatch(7, 1024); !errors.Is(err, ErrCapacityExhausted) {
		t.Fatalf("err = %v, want ErrCapacityExhausted", err)
	}
	if pool.TotalAvailable() != before {
		t.Errorf("failed batch mutated the pool: available %d, want %d", pool.TotalAvailable(), before)
	}

	allocations, err := pool.AllocateBatch(6, 1024)
	if err != nil {
		t.Fatalf("AllocateBatch: %v", err)
	}
	if len(allocations) != 6 {
		t.Fatalf("len(allocations) = %d, want 6", len(allocations))
	}
	if pool.TotalAvailable() != 0 {
		t.Errorf("TotalAvailable = %d, want 0", pool.TotalAvailable())
	}
	// No two allocations on the same host overlap.
	type span struct{ start, end uint64 }
	seen := map[string][]span{}
	for _, allocation := range allocations {
		for _, other := range seen[allocation.Host] {
			if allocation.Offset < other.end && other.start < allocation.Offset+allocation.Length {
				t.Errorf("overlapping allocations on %s", allocation.Host)
			}
		}
		seen[allocation.Host] = append(seen[allocation.Host], span{allocation.Offset, allocation.Offset + allocation.Length})
	}
}

func TestHighWaterNeverRewinds(t *testing.T) {
	dir := testutil.HostDir(t, 1, 1024)
	pool := scan(t, dir)

	hostPath, _, err := pool.Allocate(2048)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	host, _ := pool.Host(hostPath)
	if host.HighWater != 2048 {
		t.Fatalf("HighWater = %d, want 2048", host.HighWater)
	}

	// Reserving a lower range must not rewind the mark.
	if err := pool.Reserve(hostPath, 0, 1024); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if host.HighWater != 2048 {
		t.Errorf("HighWater rewound to %d", host.HighWater)
	}

	if err := pool.Reserve(hostPath, 2048, 1024); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if host.HighWater != 3072 {
		t.Errorf("HighWater = %d, want 3072", host.HighWater)
	}

	if err := pool.Reserve(hostPath, 3072, 1024); err == nil {
		t.Error("Reserve beyond capacity succeeded")
	}
}

func TestRefreshReportsDrift(t *testing.T) {
	dir := testutil.HostDir(t, 1, 1024)
	pool := scan(t, dir)
	path := pool.Hosts()[0].Path

	drifted, onDisk, err := pool.Refresh(path)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if drifted || onDisk != 1024 {
		t.Errorf("Refresh = (%v, %d), want (false, 1024)", drifted, onDisk)
	}

	if err := os.WriteFile(path, make([]byte, 2000), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	drifted, onDisk, err = pool.Refresh(path)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !drifted || onDisk != 2000 {
		t.Errorf("Refresh = (%v, %d), want (true, 2000)", drifted, onDisk)
	}
}

func TestSetFrozenSizeRecomputesCapacity(t *testing.T) {
	dir := testutil.HostDir(t, 1, 1024)
	pool := scan(t, dir)
	path := pool.Hosts()[0].Path

	if err := pool.SetFrozenSize(path, 2048); err != nil {
		t.Fatalf("SetFrozenSize: %v", err)
	}
	host, _ := pool.Host(path)
	if host.LogicalSize != 2048 || host.SlackCapacity != 2048 {
		t.Errorf("host = {L: %d, S: %d}, want {2048, 2048}", host.LogicalSize, host.SlackCapacity)
	}
}
