// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
	"github.com/jblestang/AIStegano/lib/vfs"
)

type healthParams struct {
	passwordParams
}

func healthCommand() *cli.Command {
	var params healthParams

	return &cli.Command{
		Name:    "health",
		Summary: "Analyze per-file recoverability and host drift",
		Description: `Check every stored file's recoverability.

Each file is classified HEALTHY (full redundancy intact), DEGRADED
(recoverable, but some symbols lost), or LOST (fewer than the minimum
symbols survive). Hosts whose logical size changed since the VFS was
written are reported as drifted. Exits non-zero if any file is LOST.`,
		Usage:  "svfs health <dir>",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: svfs health <dir>")
			}
			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			report, err := handle.Health()
			if err != nil {
				return err
			}

			for _, drift := range report.DriftedHosts {
				fmt.Fprintf(os.Stderr, "warning: host %s drifted (frozen %d, on disk %d)\n",
					drift.Path, drift.FrozenSize, drift.OnDiskSize)
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			lost := 0
			for _, file := range report.Files {
				fmt.Fprintf(writer, "%s\t%s\t%d/%d symbols\n", file.Status, file.Path, file.Available, file.Total)
				if file.Status == vfs.Lost {
					lost++
				}
			}
			writer.Flush()
			fmt.Printf("%d file(s), %d recoverable, %d host(s)\n", report.TotalFiles, report.Recoverable, report.HostCount)

			if lost > 0 {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
