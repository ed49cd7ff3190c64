// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
)

type passwdParams struct {
	passwordParams
	NewPasswordFile string `flag:"new-password-file" desc:"path to file containing the new password, or - for stdin (default: prompt)"`
}

func passwdCommand() *cli.Command {
	var params passwdParams

	return &cli.Command{
		Name:    "passwd",
		Summary: "Change the VFS password",
		Description: `Change the password protecting the VFS.

Only the master file key is rewrapped under the new password; file
bodies are not re-encrypted and their placements do not move.`,
		Usage:  "svfs passwd <dir>",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: svfs passwd <dir>")
			}

			oldPassword, err := cli.ReadPassword(params.PasswordFile, "Current password")
			if err != nil {
				return err
			}
			defer oldPassword.Close()

			handle, err := mountVFSWith(args[0], oldPassword, logger)
			if err != nil {
				return err
			}
			defer handle.Close()

			newPassword, err := readNewPassword(params.NewPasswordFile)
			if err != nil {
				return err
			}
			defer newPassword.Close()

			if err := handle.Rekey(oldPassword, newPassword); err != nil {
				return err
			}
			fmt.Println("Password changed.")
			return nil
		},
	}
}
