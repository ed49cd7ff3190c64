// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
)

type lsParams struct {
	passwordParams
	Long bool `flag:"long" desc:"show kind, size, and modification time"`
}

func lsCommand() *cli.Command {
	var params lsParams

	return &cli.Command{
		Name:    "ls",
		Summary: "List a VFS directory",
		Usage:   "svfs ls <dir> <vfs-path> [flags]",
		Examples: []cli.Example{
			{Description: "List the root", Command: "svfs ls ./photos /"},
			{Description: "Long listing", Command: "svfs ls ./photos /docs --long"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("usage: svfs ls <dir> <vfs-path>")
			}
			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			entries, err := handle.ListDir(args[1])
			if err != nil {
				return err
			}

			if !params.Long {
				for _, entry := range entries {
					name := entry.Name
					if entry.IsDir {
						name += "/"
					}
					fmt.Println(name)
				}
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, entry := range entries {
				kind := "file"
				if entry.IsDir {
					kind = "dir"
				}
				modified := time.Unix(entry.Mtime, 0).UTC().Format(time.RFC3339)
				fmt.Fprintf(writer, "%s\t%d\t%s\t%s\n", kind, entry.Size, modified, entry.Name)
			}
			return writer.Flush()
		},
	}
}
