// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves credentials from the environment with a fallback
// to a directory of plain-text key files. Each file in the directory holds
// one secret: the filename is the key name and the trimmed contents are the
// value.
//
// Supported key files: hf-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the key file directory relative to the working directory.
const DefaultDir = ".secrets"

// Source says where a resolved secret came from.
type Source string

const (
	SourceNone Source = ""
	SourceEnv  Source = "environment"
	SourceFile Source = "file"
)

// Resolve returns envValue when it is non-blank, otherwise the trimmed
// contents of dir/name. A missing directory or file is not an error; the
// empty string and SourceNone are returned and the caller decides whether
// the secret is required.
func Resolve(envValue, dir, name string) (string, Source, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, SourceEnv, nil
	}

	v, err := readKeyFile(filepath.Join(dir, name))
	if err != nil {
		return "", SourceNone, err
	}
	if v == "" {
		return "", SourceNone, nil
	}
	return v, SourceFile, nil
}

// readKeyFile returns the trimmed contents of path, or "" when it does not
// exist.
func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %s: %w", filepath.Base(path), err)
	}
	return strings.TrimSpace(string(data)), nil
}
