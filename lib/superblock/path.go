// Copyright 2026 The AIStegano Authors
// SPDX-License-Identifier: Apache-2.0

package superblock

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned for paths that are not absolute or
// contain invalid components.
var ErrInvalidPath = errors.New("invalid path")

// Path is a validated absolute VFS path. The zero value is the root.
type Path struct {
	components []string
}

// ParsePath validates a path string. Paths must be absolute;
// components must not be empty, ".", or "..". Repeated and trailing
// slashes are tolerated.
func ParsePath(s string) (Path, error) {
	if !strings.HasPrefix(s, "/") {
		return Path{}, fmt.Errorf("%w: %q is not absolute", ErrInvalidPath, s)
	}
	var components []string
	for _, component := range strings.Split(s, "/") {
		if component == "" {
			continue
		}
		if component == "." || component == ".." {
			return Path{}, fmt.Errorf("%w: component %q in %q", ErrInvalidPath, component, s)
		}
		components = append(components, component)
	}
	return Path{components: components}, nil
}

// IsRoot reports whether the path is "/".
func (p Path) IsRoot() bool { return len(p.components) == 0 }

// Components returns the path components in walk order.
func (p Path) Components() []string { return p.components }

// Parent returns the path with the last component removed. The
// parent of the root is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return Path{}
	}
	return Path{components: p.components[:len(p.components)-1]}
}

// Name returns the last component, or "" for the root.
func (p Path) Name() string {
	if p.IsRoot() {
		return ""
	}
	return p.components[len(p.components)-1]
}

// String renders the canonical form.
func (p Path) String() string {
	if p.IsRoot() {
		return "/"
	}
	return "/" + strings.Join(p.components, "/")
}
