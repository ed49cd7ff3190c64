// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/lib/clock"
	"github.com/jblestang/AIStegano/lib/sealed"
	"github.com/jblestang/AIStegano/lib/slackio"
)

// Config carries the parameters fixed at init time. BlockSize,
// SymbolSize, Redundancy, and Compress are persisted (bootstrap file
// and superblock) and ignored on mount; WipePasses and SecureDelete
// are per-session.
type Config struct {
	// BlockSize is the file system block size used for slack
	// capacity computation.
	BlockSize uint64
	// SymbolSize is the erasure symbol size in bytes, in (0, 65535].
	SymbolSize uint16
	// Redundancy is the repair ratio in [0, 1]. 0.5 means one repair
	// symbol per two source symbols.
	Redundancy float64
	// Compress enables zstd compression of file bodies before
	// sealing. The superblock is always compressed.
	Compress bool
	// WipePasses is the number of random overwrite passes for secure
	// deletes and wipes.
	WipePasses int
	// SecureDelete wipes superseded superblock placements on sync.
	SecureDelete bool
}

// DefaultConfig returns the standard settings: 4 KiB blocks, 1 KiB
// symbols, 50% redundancy, three wipe passes.
func DefaultConfig() Config {
	return Config{
		BlockSize:  4096,
		SymbolSize: 1024,
		Redundancy: 0.5,
		WipePasses: slackio.DefaultWipePasses,
	}
}

func (c Config) validate() error {
	if c.BlockSize == 0 {
		return fmt.Errorf("%w: block size must be positive", ErrInvalidConfig)
	}
	if c.SymbolSize == 0 {
		return fmt.Errorf("%w: symbol size must be in (0, 65535]", ErrInvalidConfig)
	}
	if c.Redundancy < 0 || c.Redundancy > 1 {
		return fmt.Errorf("%w: redundancy %g outside [0, 1]", ErrInvalidConfig, c.Redundancy)
	}
	if c.WipePasses < 0 {
		return fmt.Errorf("%w: wipe passes must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Option customizes a handle at Create or Mount time.
type Option func(*options)

type options struct {
	backend slackio.Backend
	logger  *slog.Logger
	clk     clock.Clock
	kdf     sealed.KDFParams
}

func defaultOptions() options {
	return options{
		backend: slackio.NewFileBackend(),
		logger:  slog.Default(),
		clk:     clock.Real(),
		kdf:     sealed.DefaultKDFParams(),
	}
}

// WithBackend substitutes the slack I/O backend. The default is the
// userland file backend.
func WithBackend(backend slackio.Backend) Option {
	return func(o *options) { o.backend = backend }
}

// WithLogger sets the structured logger for drift warnings and sync
// progress.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the time source for inode timestamps.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clk = clk }
}

// WithKDFParams overrides the Argon2id cost parameters. A VFS must
// always be opened with the parameters it was created with.
func WithKDFParams(params sealed.KDFParams) Option {
	return func(o *options) { o.kdf = params }
}
