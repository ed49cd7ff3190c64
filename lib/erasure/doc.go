// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package erasure fragments sealed payloads into fixed-size,
// loss-tolerant symbols. A payload becomes K source symbols plus R
// repair symbols; any K of the K+R reconstruct it exactly.
//
// The code is a systematic Reed-Solomon erasure code
// (klauspost/reedsolomon): symbols 0..K-1 are the padded payload
// chunks themselves, K..K+R-1 carry parity. The codec handles
// erasures, not errors — callers must drop corrupted symbols (the
// placement digests exist for this) before handing the survivors to
// Decode.
package erasure
