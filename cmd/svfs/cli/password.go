// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jblestang/AIStegano/lib/secret"
)

// ReadPassword obtains the VFS password. With a non-empty
// passwordFile it reads from that file ("-" means stdin); otherwise
// it prompts on the controlling terminal with echo disabled. There is
// deliberately no environment-variable fallback.
func ReadPassword(passwordFile, prompt string) (*secret.Buffer, error) {
	if passwordFile != "" {
		return secret.ReadFromPath(passwordFile)
	}
	return promptPassword(prompt)
}

// ReadNewPassword prompts twice and verifies both entries match. Used
// by init and passwd, where a typo would lock the data away forever.
func ReadNewPassword(prompt string) (*secret.Buffer, error) {
	first, err := promptPassword(prompt)
	if err != nil {
		return nil, err
	}
	second, err := promptPassword("Confirm " + prompt)
	if err != nil {
		first.Close()
		return nil, err
	}
	defer second.Close()

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		first.Close()
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}

func promptPassword(prompt string) (*secret.Buffer, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal; use --password-file to supply the password")
	}
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("password is empty")
	}
	return secret.NewFromBytes(raw)
}
