// Package paths provides canonical helpers for vault-relative paths:
// folder-hint normalization and vault-escape checks for paths built from
// user input.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizeDirRoot normalizes a folder hint to have:
// - no leading slash
// - exactly one trailing slash (unless empty)
//
// Examples:
// - "/Atlas/Maps/" -> "Atlas/Maps/"
// - "Atlas/Maps"   -> "Atlas/Maps/"
// - ""             -> ""
func NormalizeDirRoot(root string) string {
	root = filepath.ToSlash(root)
	root = strings.Trim(root, "/")
	if root == "" {
		return ""
	}
	return root + "/"
}

// NormalizeRelPath normalizes a vault-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// ValidateWithinVault ensures target resolves to a path inside vaultPath.
// Both paths are made absolute and cleaned before comparison, so "../"
// segments cannot escape the vault.
func ValidateWithinVault(vaultPath, target string) error {
	absVault, err := filepath.Abs(vaultPath)
	if err != nil {
		return fmt.Errorf("failed to resolve vault path: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(absVault, absTarget)
	if err != nil {
		return fmt.Errorf("path %s is outside the vault", target)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %s is outside the vault", target)
	}
	return nil
}
