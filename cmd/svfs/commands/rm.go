// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
)

type rmParams struct {
	passwordParams
	Secure bool `flag:"secure" desc:"overwrite the file's slack ranges before dropping them"`
}

func rmCommand() *cli.Command {
	var params rmParams

	return &cli.Command{
		Name:    "rm",
		Summary: "Delete a file from the VFS",
		Usage:   "svfs rm <dir> <vfs-path> [flags]",
		Examples: []cli.Example{
			{Description: "Delete a file", Command: "svfs rm ./photos /notes.txt"},
			{Description: "Delete and scrub the slack ranges", Command: "svfs rm ./photos /notes.txt --secure"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: svfs rm <dir> <vfs-path>")
			}
			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			if err := handle.DeleteFile(args[1], params.Secure); err != nil {
				return err
			}
			return handle.Sync()
		},
	}
}
