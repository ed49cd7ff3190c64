// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
)

type wipeParams struct {
	passwordParams
	Passes int  `flag:"passes" desc:"random overwrite passes" default:"3"`
	Force  bool `flag:"force"  desc:"skip the confirmation prompt"`
}

func wipeCommand() *cli.Command {
	var params wipeParams

	return &cli.Command{
		Name:    "wipe",
		Summary: "Destroy the VFS and scrub all slack space",
		Description: `Irreversibly destroy the VFS.

Every host's entire slack range is overwritten with random data the
given number of passes, and the bootstrap pointer file is deleted.
The host files' logical content is untouched. This is also the only
way to reclaim slack space leaked by deletes.`,
		Usage: "svfs wipe <dir> [flags]",
		Examples: []cli.Example{
			{Description: "Wipe with confirmation", Command: "svfs wipe ./photos"},
			{Description: "Single-pass unattended wipe", Command: "svfs wipe ./photos --passes 1 --force"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: svfs wipe <dir>")
			}

			if !params.Force {
				fmt.Fprintf(os.Stderr, "This destroys all hidden data in %s. Type 'yes' to continue: ", args[0])
				reader := bufio.NewReader(os.Stdin)
				answer, err := reader.ReadString('\n')
				if err != nil || strings.TrimSpace(answer) != "yes" {
					return fmt.Errorf("wipe aborted")
				}
			}

			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			if err := handle.Wipe(params.Passes); err != nil {
				return err
			}
			fmt.Println("VFS wiped.")
			return nil
		},
	}
}
