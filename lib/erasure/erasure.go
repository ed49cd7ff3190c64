// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package erasure

import (
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/reedsolomon"
)

// ErrInsufficientSymbols is returned when fewer than the required
// number of source-equivalent symbols survive.
var ErrInsufficientSymbols = errors.New("insufficient symbols to decode")

// Descriptor records what Decode needs to invert an Encode call. It is
// stored per file in the superblock, and for the superblock itself in
// the bootstrap pointer file.
type Descriptor struct {
	// OriginalLength is the unpadded payload length in bytes.
	OriginalLength uint64 `json:"original_length" cbor:"original_length"`
	// SourceSymbols is K, the number of symbols the payload splits
	// into. Decoding requires at least K of the K+R symbols.
	SourceSymbols int `json:"source_symbols" cbor:"source_symbols"`
	// RepairSymbols is R, the number of redundant symbols.
	RepairSymbols int `json:"repair_symbols" cbor:"repair_symbols"`
	// SymbolSize is the fixed size of every symbol in bytes.
	SymbolSize uint16 `json:"symbol_size" cbor:"symbol_size"`
}

// TotalSymbols returns K+R.
func (d Descriptor) TotalSymbols() int { return d.SourceSymbols + d.RepairSymbols }

// Symbol is a fixed-size erasure-coded blob. IDs 0..K-1 are source
// symbols, K..K+R-1 are repair symbols; the id is stable across
// encode/decode and identifies the symbol's role to the codec.
type Symbol struct {
	ID   uint32
	Data []byte
}

// Encode splits data into K = ceil(len/symbolSize) source symbols
// (the last one zero-padded) and derives R = ceil(K·redundancy) repair
// symbols, with R ≥ 1 whenever redundancy > 0. Any K of the K+R
// symbols reconstruct the payload. Empty input yields K = 0 and no
// symbols.
func Encode(data []byte, symbolSize uint16, redundancy float64) (Descriptor, []Symbol, error) {
	if symbolSize == 0 {
		return Descriptor{}, nil, fmt.Errorf("symbol size must be positive")
	}
	if redundancy < 0 {
		return Descriptor{}, nil, fmt.Errorf("redundancy must be non-negative, got %g", redundancy)
	}

	descriptor := Descriptor{
		OriginalLength: uint64(len(data)),
		SymbolSize:     symbolSize,
	}
	if len(data) == 0 {
		return descriptor, nil, nil
	}

	size := int(symbolSize)
	sourceCount := (len(data) + size - 1) / size
	repairCount := int(math.Ceil(float64(sourceCount) * redundancy))
	if redundancy > 0 && repairCount == 0 {
		repairCount = 1
	}
	descriptor.SourceSymbols = sourceCount
	descriptor.RepairSymbols = repairCount

	shards := make([][]byte, sourceCount+repairCount)
	for i := 0; i < sourceCount; i++ {
		shard := make([]byte, size)
		copy(shard, data[i*size:min(len(data), (i+1)*size)])
		shards[i] = shard
	}

	if repairCount > 0 {
		codec, err := reedsolomon.New(sourceCount, repairCount)
		if err != nil {
			return Descriptor{}, nil, fmt.Errorf("creating codec (%d+%d): %w", sourceCount, repairCount, err)
		}
		for i := sourceCount; i < len(shards); i++ {
			shards[i] = make([]byte, size)
		}
		if err := codec.Encode(shards); err != nil {
			return Descriptor{}, nil, fmt.Errorf("encoding repair symbols: %w", err)
		}
	}

	symbols := make([]Symbol, len(shards))
	for i, shard := range shards {
		symbols[i] = Symbol{ID: uint32(i), Data: shard}
	}
	return descriptor, symbols, nil
}

// Decode reconstructs the original payload from any subset of at
// least K symbols. Symbols with out-of-range ids or wrong sizes are
// ignored; duplicates keep the first occurrence. Returns
// ErrInsufficientSymbols when fewer than K usable symbols remain.
// Decoding is deterministic given the same received set.
func Decode(descriptor Descriptor, received []Symbol) ([]byte, error) {
	if descriptor.OriginalLength == 0 {
		return nil, nil
	}

	total := descriptor.TotalSymbols()
	size := int(descriptor.SymbolSize)
	shards := make([][]byte, total)
	present := 0
	for _, symbol := range received {
		if int(symbol.ID) >= total || len(symbol.Data) != size {
			continue
		}
		if shards[symbol.ID] != nil {
			continue
		}
		shards[symbol.ID] = symbol.Data
		present++
	}

	if present < descriptor.SourceSymbols {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientSymbols, descriptor.SourceSymbols, present)
	}

	sourceMissing := false
	for i := 0; i < descriptor.SourceSymbols; i++ {
		if shards[i] == nil {
			sourceMissing = true
			break
		}
	}

	if sourceMissing {
		if descriptor.RepairSymbols == 0 {
			// Unreachable given the count check above, but guards
			// against a descriptor/symbol mismatch.
			return nil, fmt.Errorf("%w: source symbol missing with no repair symbols", ErrInsufficientSymbols)
		}
		codec, err := reedsolomon.New(descriptor.SourceSymbols, descriptor.RepairSymbols)
		if err != nil {
			return nil, fmt.Errorf("creating codec (%d+%d): %w", descriptor.SourceSymbols, descriptor.RepairSymbols, err)
		}
		if err := codec.ReconstructData(shards); err != nil {
			return nil, fmt.Errorf("%w: reconstruction failed: %v", ErrInsufficientSymbols, err)
		}
	}

	payload := make([]byte, 0, descriptor.SourceSymbols*size)
	for i := 0; i < descriptor.SourceSymbols; i++ {
		payload = append(payload, shards[i]...)
	}
	if uint64(len(payload)) < descriptor.OriginalLength {
		return nil, fmt.Errorf("descriptor original length %d exceeds decoded payload %d", descriptor.OriginalLength, len(payload))
	}
	return payload[:descriptor.OriginalLength], nil
}

// CanDecode reports whether received symbols are enough for the
// required source count.
func CanDecode(received, required int) bool { return received >= required }
