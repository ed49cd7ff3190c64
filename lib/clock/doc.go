// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the time source so that inode timestamps are
// testable. Production code injects [Real]; tests inject [NewFake] and
// advance it deterministically instead of sleeping.
package clock
