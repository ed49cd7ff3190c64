// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
)

type infoParams struct {
	passwordParams
}

func infoCommand() *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show VFS capacity and content summary",
		Usage:   "svfs info <dir>",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: svfs info <dir>")
			}
			handle, err := mountVFS(args[0], params.passwordParams, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			info, err := handle.Info()
			if err != nil {
				return err
			}

			fmt.Printf("VFS %s (sequence %d)\n", info.UUID, info.Sequence)
			fmt.Printf("  host dir:    %s\n", info.HostDir)
			fmt.Printf("  hosts:       %d\n", info.HostCount)
			fmt.Printf("  capacity:    %s total, %s used, %s available\n",
				formatBytes(info.TotalCapacity), formatBytes(info.UsedCapacity), formatBytes(info.AvailableCapacity))
			fmt.Printf("  contents:    %d file(s), %d dir(s), %s\n",
				info.FileCount, info.DirCount, formatBytes(info.TotalFileSize))
			fmt.Printf("  block size:  %d\n", info.BlockSize)
			fmt.Printf("  symbol size: %d\n", info.SymbolSize)
			fmt.Printf("  redundancy:  %.2f\n", info.Redundancy)
			fmt.Printf("  compression: %v\n", info.Compress)
			return nil
		},
	}
}
