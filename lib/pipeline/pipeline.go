// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/jblestang/AIStegano/lib/erasure"
	"github.com/jblestang/AIStegano/lib/sealed"
	"github.com/jblestang/AIStegano/lib/secret"
	"github.com/jblestang/AIStegano/lib/superblock"
)

// zstdEncoder and zstdDecoder are shared across all pipelines; both
// are safe for concurrent EncodeAll/DecodeAll use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic("pipeline: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("pipeline: zstd decoder initialization failed: " + err.Error())
	}
}

// Config selects the per-payload transformations.
type Config struct {
	// SymbolSize is the erasure symbol size in bytes.
	SymbolSize uint16
	// Redundancy is the repair ratio R/K.
	Redundancy float64
	// Compress runs zstd over the payload before sealing. The
	// superblock pipeline always compresses (metadata compresses
	// well); file pipelines follow the VFS configuration.
	Compress bool
	// Frame wraps the sealed blob in the plaintext magic+version
	// frame. Set only for the superblock payload.
	Frame bool
}

// Pipeline composes the crypto and erasure layers for one payload
// class: bytes → [zstd] → AEAD seal → [frame] → symbols, and the
// exact inverse. Encrypting before encoding keeps each symbol
// individually indistinguishable from random bytes, which is the
// property slack storage relies on.
type Pipeline struct {
	key    *secret.Buffer
	config Config
}

// New builds a pipeline around a borrowed key. The key is not closed
// by the pipeline.
func New(key *secret.Buffer, config Config) *Pipeline {
	return &Pipeline{key: key, config: config}
}

// Seal transforms a payload into loss-tolerant symbols plus the
// descriptor needed to invert them.
func (p *Pipeline) Seal(payload []byte) (erasure.Descriptor, []erasure.Symbol, error) {
	data := payload
	if p.config.Compress {
		data = zstdEncoder.EncodeAll(payload, nil)
	}

	blob, err := sealed.Seal(p.key, data)
	if err != nil {
		return erasure.Descriptor{}, nil, fmt.Errorf("sealing payload: %w", err)
	}
	if p.config.Frame {
		blob = superblock.WrapFrame(blob)
	}

	descriptor, symbols, err := erasure.Encode(blob, p.config.SymbolSize, p.config.Redundancy)
	if err != nil {
		return erasure.Descriptor{}, nil, fmt.Errorf("encoding payload: %w", err)
	}
	return descriptor, symbols, nil
}

// Open inverts Seal from any sufficient subset of symbols.
func (p *Pipeline) Open(descriptor erasure.Descriptor, symbols []erasure.Symbol) ([]byte, error) {
	blob, err := erasure.Decode(descriptor, symbols)
	if err != nil {
		return nil, err
	}
	if p.config.Frame {
		blob, err = superblock.UnwrapFrame(blob)
		if err != nil {
			return nil, err
		}
	}

	data, err := sealed.Open(p.key, blob)
	if err != nil {
		return nil, err
	}
	if p.config.Compress {
		data, err = zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing payload: %w", err)
		}
	}
	return data, nil
}
