package dates

import (
	"testing"
	"time"
)

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-01-01", "2024-12-31", "2000-06-15"}
	for _, d := range valid {
		if !IsValidDate(d) {
			t.Fatalf("expected %q to be valid", d)
		}
	}

	invalid := []string{"2025/01/01", "01-01-2025", "2025-13-01", "2025-01-32", "not-a-date", "", "2025-02-30"}
	for _, d := range invalid {
		if IsValidDate(d) {
			t.Fatalf("expected %q to be invalid", d)
		}
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC)
	if got := Format(ts); got != "2025-01-15" {
		t.Fatalf("Format = %q, want 2025-01-15", got)
	}
	if !IsValidDate(Format(ts)) {
		t.Fatal("Format output should round-trip through IsValidDate")
	}
}

func TestParseDateArg(t *testing.T) {
	now := time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)

	today, err := ParseDateArg("", now)
	if err != nil || !today.Equal(now) {
		t.Fatalf("empty arg should default to now, got %v err=%v", today, err)
	}

	yesterday, err := ParseDateArg("yesterday", now)
	if err != nil || yesterday.Day() != 14 {
		t.Fatalf("expected Feb 14, got %v err=%v", yesterday, err)
	}

	d, err := ParseDateArg("2025-02-01", now)
	if err != nil || d.Year() != 2025 || d.Month() != time.February || d.Day() != 1 {
		t.Fatalf("expected 2025-02-01, got %v err=%v", d, err)
	}

	_, err = ParseDateArg("02-01-2025", now)
	if err == nil {
		t.Fatalf("expected error for invalid date arg")
	}
}
