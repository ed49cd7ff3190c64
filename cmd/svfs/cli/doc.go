// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the svfs binary:
// subcommand dispatch with structured help, flag binding from struct
// tags over pflag, terminal password prompts with echo disabled, and
// the TTY-aware structured logger.
package cli
