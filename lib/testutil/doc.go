// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test fixtures: temporary host-file
// directories with controlled slack capacities, and secret buffers
// tied to the test lifecycle.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
