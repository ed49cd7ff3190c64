// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/jblestang/AIStegano/lib/bootstrap"
	"github.com/jblestang/AIStegano/lib/clock"
	"github.com/jblestang/AIStegano/lib/erasure"
	"github.com/jblestang/AIStegano/lib/hostpool"
	"github.com/jblestang/AIStegano/lib/pipeline"
	"github.com/jblestang/AIStegano/lib/sealed"
	"github.com/jblestang/AIStegano/lib/secret"
	"github.com/jblestang/AIStegano/lib/slackio"
	"github.com/jblestang/AIStegano/lib/superblock"
)

// handleState tracks the handle lifecycle:
// mounted → dirty (after any mutating op) → mounted (after sync) →
// closed. Operations are rejected once closed; sync from mounted is a
// no-op.
type handleState int

const (
	stateMounted handleState = iota
	stateDirty
	stateClosed
)

// VFS is a mounted handle on one host directory. A handle is owned by
// a single goroutine at a time: all operations are synchronous and
// mutate in-memory state, and only Sync makes mutations durable.
type VFS struct {
	dir     string
	config  Config
	logger  *slog.Logger
	clk     clock.Clock
	backend slackio.Backend
	kdf     sealed.KDFParams

	sb            *superblock.Superblock
	pool          *hostpool.Pool
	master        *secret.Buffer
	wrappedMaster []byte
	salt          [sealed.SaltSize]byte
	lock          *bootstrap.Lock

	// currentRefs are the live superblock symbol locations, freed
	// (and optionally wiped) only after the next sync's bootstrap
	// rename succeeds.
	currentRefs []bootstrap.SymbolRef

	state handleState
}

// Create initializes a new VFS in a directory of pre-existing host
// files and persists the empty state. Fails if a bootstrap pointer
// file is already present. The password buffer is borrowed.
func Create(dir string, password *secret.Buffer, config Config, opts ...Option) (*VFS, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if bootstrap.Exists(dir) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInitialized, dir)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	lock, err := bootstrap.AcquireLock(dir)
	if err != nil {
		return nil, err
	}

	v := &VFS{
		dir:     dir,
		config:  config,
		logger:  o.logger,
		clk:     o.clk,
		backend: o.backend,
		kdf:     o.kdf,
		lock:    lock,
		state:   stateDirty,
	}

	fail := func(err error) (*VFS, error) {
		lock.Release()
		if v.master != nil {
			v.master.Close()
		}
		return nil, err
	}

	v.pool, err = hostpool.Scan(dir, config.BlockSize, uint64(config.SymbolSize), o.backend)
	if err != nil {
		return fail(err)
	}
	if v.pool.Count() == 0 {
		return fail(fmt.Errorf("%w: %s", ErrNoHosts, dir))
	}

	v.salt, err = sealed.NewSalt()
	if err != nil {
		return fail(err)
	}
	kek, err := sealed.DeriveKey(password, v.salt, o.kdf)
	if err != nil {
		return fail(err)
	}
	defer kek.Close()

	v.master, err = sealed.NewKey()
	if err != nil {
		return fail(err)
	}
	v.wrappedMaster, err = sealed.WrapKey(kek, v.master)
	if err != nil {
		return fail(err)
	}

	v.sb = superblock.New(config.BlockSize, config.SymbolSize, config.Redundancy, config.Compress, v.salt, v.clk.Now().Unix())

	if err := v.Sync(); err != nil {
		return fail(fmt.Errorf("persisting initial state: %w", err))
	}
	v.logger.Info("VFS created",
		"dir", dir,
		"hosts", v.pool.Count(),
		"capacity", v.pool.TotalCapacity(),
		"uuid", v.uuidString())
	return v, nil
}

// Mount opens an existing VFS: read the bootstrap pointer, derive the
// key-encryption key, unwrap the master key, read and decode the
// superblock symbols, and replay allocator state. Fails with
// ErrBootstrapMissing, ErrAuthenticationFailed, or
// ErrInsufficientData.
func Mount(dir string, password *secret.Buffer, opts ...Option) (*VFS, error) {
	boot, err := bootstrap.Load(dir)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	lock, err := bootstrap.AcquireLock(dir)
	if err != nil {
		return nil, err
	}

	v := &VFS{
		dir:           dir,
		logger:        o.logger,
		clk:           o.clk,
		backend:       o.backend,
		kdf:           o.kdf,
		lock:          lock,
		salt:          boot.Salt,
		wrappedMaster: boot.WrappedMasterKey,
		currentRefs:   boot.SuperblockSymbols,
		state:         stateMounted,
	}

	fail := func(err error) (*VFS, error) {
		lock.Release()
		if v.master != nil {
			v.master.Close()
		}
		return nil, err
	}

	kek, err := sealed.DeriveKey(password, boot.Salt, o.kdf)
	if err != nil {
		return fail(err)
	}
	defer kek.Close()

	v.master, err = sealed.UnwrapKey(kek, boot.WrappedMasterKey)
	if err != nil {
		return fail(err)
	}

	v.pool, err = hostpool.Scan(dir, boot.BlockSize, uint64(boot.SuperblockEncoding.SymbolSize), o.backend)
	if err != nil {
		return fail(err)
	}

	// Collect the superblock's symbols from their absolute offsets,
	// dropping any that fail to read or whose digest mismatches; the
	// erasure decode tolerates up to R such losses.
	var symbols []erasure.Symbol
	for _, ref := range boot.SuperblockSymbols {
		data, err := o.backend.Read(ref.HostPath, ref.Offset, int(ref.Length))
		if err != nil {
			v.logger.Warn("superblock symbol unreadable", "host", ref.HostPath, "symbol", ref.SymbolID, "error", err)
			continue
		}
		if !digestMatches(ref.Digest, data) {
			v.logger.Warn("superblock symbol corrupt", "host", ref.HostPath, "symbol", ref.SymbolID)
			continue
		}
		symbols = append(symbols, erasure.Symbol{ID: ref.SymbolID, Data: data})
	}

	sbPipe := pipeline.New(v.master, pipeline.Config{
		SymbolSize: boot.SuperblockEncoding.SymbolSize,
		Compress:   true,
		Frame:      true,
	})
	payload, err := sbPipe.Open(boot.SuperblockEncoding, symbols)
	if err != nil {
		return fail(err)
	}
	v.sb, err = superblock.Unmarshal(payload)
	if err != nil {
		return fail(err)
	}

	v.config = Config{
		BlockSize:  v.sb.BlockSize,
		SymbolSize: v.sb.SymbolSize,
		Redundancy: v.sb.Redundancy,
		Compress:   v.sb.Compress,
		WipePasses: slackio.DefaultWipePasses,
	}

	// The superblock's host-usage table holds the frozen logical
	// sizes and high-water marks placements were written against;
	// replay both, then cover the current superblock symbols, which
	// were allocated after the table was serialized.
	for path, usage := range v.sb.Hosts {
		if err := v.pool.SetFrozenSize(path, usage.FrozenLogicalSize); err != nil {
			v.logger.Warn("host from superblock not found on disk", "host", path, "error", err)
			continue
		}
		if err := v.pool.Reserve(path, 0, usage.HighWater); err != nil {
			v.logger.Warn("replaying host usage failed", "host", path, "error", err)
		}
	}
	for _, placement := range v.sb.Placements {
		if err := v.pool.Reserve(placement.Host, placement.Offset, uint64(placement.Length)); err != nil {
			v.logger.Warn("replaying placement failed", "host", placement.Host, "symbol", placement.SymbolID, "error", err)
		}
	}
	for _, ref := range boot.SuperblockSymbols {
		host, ok := v.pool.Host(ref.HostPath)
		if !ok || ref.Offset < host.LogicalSize {
			continue
		}
		relative := ref.Offset - host.LogicalSize
		if err := v.pool.Reserve(ref.HostPath, relative, uint64(ref.Length)); err != nil {
			v.logger.Warn("replaying superblock placement failed", "host", ref.HostPath, "error", err)
		}
	}

	v.logger.Info("VFS mounted",
		"dir", dir,
		"sequence", v.sb.Sequence,
		"files", v.sb.FileCount(),
		"uuid", v.uuidString())
	return v, nil
}

// Close releases the handle: a dirty superblock is synced first, the
// advisory lock removed, and the derived key material zeroized.
// Unmount is implicit in handle disposal; a closed handle rejects all
// further operations.
func (v *VFS) Close() error {
	if v.state == stateClosed {
		return nil
	}
	var syncErr error
	if v.state == stateDirty {
		syncErr = v.Sync()
	}
	v.state = stateClosed
	if v.master != nil {
		v.master.Close()
	}
	if err := v.lock.Release(); err != nil && syncErr == nil {
		syncErr = err
	}
	return syncErr
}

// Dir returns the host directory this handle is mounted on.
func (v *VFS) Dir() string { return v.dir }

func (v *VFS) ensureOpen() error {
	if v.state == stateClosed {
		return ErrClosed
	}
	return nil
}

func (v *VFS) filePipeline() *pipeline.Pipeline {
	return pipeline.New(v.master, pipeline.Config{
		SymbolSize: v.config.SymbolSize,
		Redundancy: v.config.Redundancy,
		Compress:   v.config.Compress,
	})
}

func (v *VFS) superblockPipeline() *pipeline.Pipeline {
	return pipeline.New(v.master, pipeline.Config{
		SymbolSize: v.config.SymbolSize,
		Redundancy: v.config.Redundancy,
		Compress:   true,
		Frame:      true,
	})
}

func (v *VFS) uuidString() string {
	id, err := uuid.FromBytes(v.sb.UUID)
	if err != nil {
		return ""
	}
	return id.String()
}

func digestOf(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}

func digestMatches(hexDigest string, data []byte) bool {
	want, err := hex.DecodeString(hexDigest)
	if err != nil {
		return false
	}
	return bytes.Equal(want, digestOf(data))
}
