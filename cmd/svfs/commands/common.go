// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"

	"github.com/jblestang/AIStegano/cmd/svfs/cli"
	"github.com/jblestang/AIStegano/lib/secret"
	"github.com/jblestang/AIStegano/lib/vfs"
)

// passwordParams is embedded by every command that needs the VFS
// password. Passwords default to an interactive terminal prompt with
// echo disabled; --password-file exists for scripting. There is no
// environment-variable fallback.
type passwordParams struct {
	PasswordFile string `flag:"password-file" desc:"path to file containing the password, or - for stdin (default: prompt)"`
}

// mountVFS prompts for the password and mounts the VFS in dir. The
// caller owns the returned handle and must Close it.
func mountVFS(dir string, params passwordParams, logger *slog.Logger) (*vfs.VFS, error) {
	password, err := cli.ReadPassword(params.PasswordFile, "Password")
	if err != nil {
		return nil, err
	}
	defer password.Close()
	return vfs.Mount(dir, password, vfs.WithLogger(logger))
}

// mountVFSWith mounts with an already-obtained password buffer,
// which the caller keeps ownership of. passwd uses this so the old
// password can be reused for the rekey verification.
func mountVFSWith(dir string, password *secret.Buffer, logger *slog.Logger) (*vfs.VFS, error) {
	return vfs.Mount(dir, password, vfs.WithLogger(logger))
}

// readNewPassword obtains a replacement password, prompting twice
// when interactive.
func readNewPassword(passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" {
		return secret.ReadFromPath(passwordFile)
	}
	return cli.ReadNewPassword("New password")
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/float64(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
