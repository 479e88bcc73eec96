// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ValidatePathWithinBase ensures that a resolved path is within the expected
// base directory. It cleans both paths and checks that the resolved path
// starts with the base path. Returns an error if path traversal is detected.
func ValidatePathWithinBase(basePath, targetPath string) error {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}

	absTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	// Trailing separator keeps /uploads-malicious from matching /uploads
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: path escapes base directory")
	}

	return nil
}

// SafeJoinPath joins path components and validates the result is within
// the base directory.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	fullPath := filepath.Join(append([]string{basePath}, components...)...)

	if err := ValidatePathWithinBase(basePath, fullPath); err != nil {
		return "", err
	}

	return fullPath, nil
}

// URLToManagedPath maps a site-relative URL under urlPrefix to a file path
// under baseDir. It reports false when the URL is absolute or
// protocol-relative, is not in the managed namespace, names the namespace
// root itself, or would escape baseDir. Uploads are always issued as
// relative URLs, so a URL naming any host belongs to someone else.
func URLToManagedPath(rawURL, urlPrefix, baseDir string) (string, bool) {
	p := rawURL
	if strings.Contains(p, "://") || strings.HasPrefix(p, "//") {
		return "", false
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	prefix := "/" + strings.Trim(urlPrefix, "/") + "/"
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}

	rel := strings.TrimPrefix(p, prefix)
	if rel == "" || strings.Contains(rel, "\\") {
		return "", false
	}
	// Reject traversal before cleaning resolves it away
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", false
		}
	}
	rel = path.Clean(rel)
	if rel == "." {
		return "", false
	}

	full, err := SafeJoinPath(baseDir, filepath.FromSlash(rel))
	if err != nil {
		return "", false
	}
	return full, true
}
