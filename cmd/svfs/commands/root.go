// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete svfs CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
	"github.com/jblestang/AIStegano/lib/version"
)

// Root builds and returns the complete svfs command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "svfs",
		Description: `svfs: a steganographic virtual file system.

Stores encrypted, erasure-coded files in the slack space of ordinary
host files — the unused bytes between each file's logical end and the
end of its last allocated block. The host files keep their size and
content; the hidden payload survives the loss of individual hosts.`,
		Subcommands: []*cli.Command{
			initCommand(),
			lsCommand(),
			writeCommand(),
			readCommand(),
			rmCommand(),
			mkdirCommand(),
			infoCommand(),
			healthCommand(),
			passwdCommand(),
			wipeCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Printf("svfs %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
