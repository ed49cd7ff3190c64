// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
)

type readParams struct {
	passwordParams
	Output string `flag:"output" desc:"write contents to this file instead of stdout"`
}

func readCommand() *cli.Command {
	var params readParams

	return &cli.Command{
		Name:    "read",
		Summary: "Read a file from the VFS",
		Usage:   "svfs read <dir> <vfs-path> [flags]",
		Examples: []cli.Example{
			{Description: "Print to stdout", Command: "svfs read ./photos /notes.txt"},
			{Description: "Write to a file", Command: "svfs read ./photos /notes.txt --output ./restored.txt"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: svfs read <dir> <vfs-path>")
			}
			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			data, err := handle.ReadFile(args[1])
			if err != nil {
				return err
			}

			if params.Output != "" {
				if err := os.WriteFile(params.Output, data, 0o600); err != nil {
					return fmt.Errorf("writing %s: %w", params.Output, err)
				}
				return nil
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}
