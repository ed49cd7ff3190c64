// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
	"github.com/jblestang/AIStegano/lib/secret"
	"github.com/jblestang/AIStegano/lib/vfs"
)

type initParams struct {
	passwordParams
	BlockSize  uint64  `flag:"block-size"  desc:"file system block size in bytes"  default:"4096"`
	SymbolSize int     `flag:"symbol-size" desc:"erasure symbol size in bytes"     default:"1024"`
	Redundancy float64 `flag:"redundancy"  desc:"repair symbol ratio in [0, 1]"    default:"0.5"`
	Compress   bool    `flag:"compress"    desc:"compress file bodies before sealing"`
}

func initCommand() *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Initialize a VFS in a directory of host files",
		Description: `Initialize a new VFS using the directory's files as hosts.

The host files themselves are never modified in observable ways: their
sizes and logical content stay byte-identical. Hidden data lives
entirely past each file's logical end, within blocks the file system
has already allocated. A small plaintext pointer file
(.slack_meta.json) is created to make the VFS rediscoverable.`,
		Usage: "svfs init <dir> [flags]",
		Examples: []cli.Example{
			{Description: "Initialize with defaults", Command: "svfs init ./photos"},
			{Description: "Larger blocks, no repair symbols", Command: "svfs init ./photos --block-size 8192 --redundancy 0"},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: svfs init <dir>")
			}
			dir := args[0]

			if params.SymbolSize <= 0 || params.SymbolSize > 65535 {
				return fmt.Errorf("--symbol-size must be in (0, 65535]")
			}

			var password *secret.Buffer
			var err error
			if params.PasswordFile != "" {
				password, err = cli.ReadPassword(params.PasswordFile, "")
			} else {
				password, err = cli.ReadNewPassword("Password")
			}
			if err != nil {
				return err
			}
			defer password.Close()

			config := vfs.Config{
				BlockSize:  params.BlockSize,
				SymbolSize: uint16(params.SymbolSize),
				Redundancy: params.Redundancy,
				Compress:   params.Compress,
				WipePasses: 3,
			}
			handle, err := vfs.Create(dir, password, config, vfs.WithLogger(logger))
			if err != nil {
				return err
			}
			defer handle.Close()

			info, err := handle.Info()
			if err != nil {
				return err
			}
			fmt.Printf("Initialized VFS %s\n", info.UUID)
			fmt.Printf("  hosts:    %d\n", info.HostCount)
			fmt.Printf("  capacity: %s\n", formatBytes(info.TotalCapacity))
			return nil
		},
	}
}
