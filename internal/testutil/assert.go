package testutil

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// AssertFileExists fails the test if the file does not exist.
func (v *TestVault) AssertFileExists(relPath string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		v.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (v *TestVault) AssertFileNotExists(relPath string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	if _, err := os.Stat(fullPath); err == nil {
		v.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (v *TestVault) AssertFileContains(relPath, substr string) {
	v.t.Helper()
	content := v.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		v.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (v *TestVault) AssertFileNotContains(relPath, substr string) {
	v.t.Helper()
	content := v.ReadFile(relPath)
	if strings.Contains(content, substr) {
		v.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertDirExists fails the test if the directory does not exist.
func (v *TestVault) AssertDirExists(relPath string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		v.t.Errorf("expected directory to exist: %s", relPath)
		return
	}
	if !info.IsDir() {
		v.t.Errorf("expected %s to be a directory, but it's a file", relPath)
	}
}

// AssertJSONLCount fails the test unless the file holds exactly n lines of
// valid JSON. Blank lines are ignored; malformed lines fail the test.
func (v *TestVault) AssertJSONLCount(relPath string, n int) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	f, err := os.Open(fullPath)
	if err != nil {
		v.t.Fatalf("failed to open %s: %v", relPath, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			v.t.Errorf("malformed JSON line in %s: %v\nline: %s", relPath, err, line)
			return
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		v.t.Fatalf("failed to scan %s: %v", relPath, err)
	}
	if count != n {
		v.t.Errorf("expected %d JSONL entries in %s, got %d", n, relPath, count)
	}
}
