// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
)

type mkdirParams struct {
	passwordParams
}

func mkdirCommand() *cli.Command {
	var params mkdirParams

	return &cli.Command{
		Name:    "mkdir",
		Summary: "Create a directory in the VFS",
		Usage:   "svfs mkdir <dir> <vfs-path>",
		Examples: []cli.Example{
			{Description: "Create a directory", Command: "svfs mkdir ./photos /docs"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: svfs mkdir <dir> <vfs-path>")
			}
			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			if err := handle.CreateDir(args[1]); err != nil {
				return err
			}
			return handle.Sync()
		},
	}
}
