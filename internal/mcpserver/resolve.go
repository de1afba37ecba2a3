// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes plotembed's operations as tools over stdio transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveFile resolves path to an absolute, symlink-free path and checks
// that it names a regular file.
func ResolveFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path %q contains a NUL byte", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%q is not a regular file", path)
	}
	return absPath, nil
}

// source returns inline text, or the contents of path when inline is empty.
// Giving both is an error; giving neither returns "".
func source(name, inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	if inline != "" {
		return "", fmt.Errorf("%s and %s_path are mutually exclusive", name, name)
	}
	abs, err := ResolveFile(path)
	if err != nil {
		return "", fmt.Errorf("%s_path: %w", name, err)
	}
	data, err := os.ReadFile(abs) //nolint:gosec // path chosen by the MCP client
	if err != nil {
		return "", fmt.Errorf("%s_path: %w", name, err)
	}
	return string(data), nil
}
