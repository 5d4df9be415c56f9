// Package vault enumerates a vault's markdown files.
package vault

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/vaultlint/vaultlint/internal/settings"
)

// skipDirs are never descended into, regardless of exclusion config.
var skipDirs = map[string]bool{
	settings.StateDir: true,
	".obsidian":       true,
	".git":            true,
	".trash":          true,
}

// Scanner walks a vault's markdown files, honoring the exclusion rules in
// settings.
type Scanner struct {
	root     string
	settings *settings.Settings
}

// NewScanner returns a scanner rooted at the vault path.
func NewScanner(root string, s *settings.Settings) *Scanner {
	return &Scanner{root: root, settings: s}
}

// Scan returns the vault-relative slash paths of all markdown files under
// the root, or under pathFilter when given, plus the count of files dropped
// by exclusion rules. Unreadable entries and missing filter paths yield an
// empty result rather than an error.
func (sc *Scanner) Scan(pathFilter string) (files []string, skipped int, err error) {
	start := sc.root
	if pathFilter != "" {
		start = filepath.Join(sc.root, pathFilter)
	}

	walkErr := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		rel, err := filepath.Rel(sc.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if sc.settings.ShouldExclude(rel) {
			skipped++
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if walkErr != nil {
		return nil, 0, walkErr
	}
	return files, skipped, nil
}
