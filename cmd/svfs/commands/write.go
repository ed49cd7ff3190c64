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

type writeParams struct {
	passwordParams
	Input string `flag:"input" desc:"file whose contents to store"`
	Data  string `flag:"data"  desc:"literal string to store"`
}

func writeCommand() *cli.Command {
	var params writeParams

	return &cli.Command{
		Name:    "write",
		Summary: "Store a file in the VFS",
		Usage:   "svfs write <dir> <vfs-path> (--input FILE | --data STRING)",
		Examples: []cli.Example{
			{Description: "Store a local file", Command: "svfs write ./photos /notes.txt --input ./notes.txt"},
			{Description: "Store a literal string", Command: "svfs write ./photos /hello --data 'hello world'"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: svfs write <dir> <vfs-path> (--input FILE | --data STRING)")
			}
			if (params.Input == "") == (params.Data == "") {
				return fmt.Errorf("exactly one of --input or --data is required")
			}

			data := []byte(params.Data)
			if params.Input != "" {
				var err error
				data, err = os.ReadFile(params.Input)
				if err != nil {
					return fmt.Errorf("reading %s: %w", params.Input, err)
				}
			}

			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			if err := handle.CreateFile(args[1], data); err != nil {
				return err
			}
			if err := handle.Sync(); err != nil {
				return err
			}
			fmt.Printf("Stored %s (%s)\n", args[1], formatBytes(uint64(len(data))))
			return nil
		},
	}
}
