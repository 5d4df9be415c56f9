// Package audit provides an append-only log of validation runs.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vaultlint/vaultlint/internal/settings"
)

// Entry records a single validation run.
type Entry struct {
	Timestamp       time.Time           `json:"timestamp"`
	VaultPath       string              `json:"vault_path"`
	Mode            string              `json:"mode"`
	Methodology     string              `json:"methodology"`
	SettingsVersion string              `json:"settings_version"`
	TotalIssues     int                 `json:"total_issues"`
	IssuesByType    map[string]int      `json:"issues_by_type,omitempty"`
	IssuesDetail    map[string][]string `json:"issues_detail,omitempty"`
	FixesApplied    int                 `json:"fixes_applied"`
}

// DefaultPath returns the standard audit log location inside a vault.
func DefaultPath(vaultPath string) string {
	return filepath.Join(vaultPath, settings.StateDir, "logs", "validate.jsonl")
}

// Logger appends entries to a JSONL audit log.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates an audit logger for the given vault.
// If enabled is false, the logger will be a no-op.
func New(vaultPath string, enabled bool) *Logger {
	if !enabled {
		return &Logger{}
	}
	return &Logger{path: DefaultPath(vaultPath), enabled: true}
}

// NewFile creates an audit logger writing to an explicit path.
func NewFile(path string) *Logger {
	return &Logger{path: path, enabled: true}
}

// Log appends one entry to the audit log.
func (l *Logger) Log(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(string(data) + "\n"); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	return nil
}

// Read reads all entries from the audit log. Malformed lines are skipped so
// a damaged log still yields everything readable.
func (l *Logger) Read() ([]Entry, error) {
	if !l.enabled {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ReadSince reads entries logged at or after the given time.
func (l *Logger) ReadSince(since time.Time) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}

	var filtered []Entry
	for _, entry := range all {
		if entry.Timestamp.After(since) || entry.Timestamp.Equal(since) {
			filtered = append(filtered, entry)
		}
	}

	return filtered, nil
}

// Path returns where the logger writes, or "" for a disabled logger.
func (l *Logger) Path() string {
	return l.path
}

// Enabled returns true if the audit logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}
