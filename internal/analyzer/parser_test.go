package analyzer

import "testing"

func TestParseLinesFullShape(t *testing.T) {
	entries, dropped := parseLines("[2025-01-01T00:00:00] [ERROR] [db] Connection refused")
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Timestamp != "2025-01-01T00:00:00" {
		t.Errorf("Timestamp = %q", e.Timestamp)
	}
	if e.Level != "ERROR" {
		t.Errorf("Level = %q, want ERROR", e.Level)
	}
	if e.Component != "db" {
		t.Errorf("Component = %q, want db", e.Component)
	}
	if e.Message != "Connection refused" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestParseLinesComponentDefaultsToSystem(t *testing.T) {
	entries, _ := parseLines("[t1] [INFO] App started")
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Component != "System" {
		t.Errorf("Component = %q, want System", entries[0].Component)
	}
	if entries[0].Message != "App started" {
		t.Errorf("Message = %q, want App started", entries[0].Message)
	}
}

func TestParseLinesSkipsBlankLines(t *testing.T) {
	input := "\n[t1] [INFO] one\n\n   \n[t2] [WARN] two\n"
	entries, dropped := parseLines(input)
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
}

func TestParseLinesDropsUnparseable(t *testing.T) {
	input := "[t1] [INFO] good line\nthis line has no brackets\n2025-01-01 also not bracket format"
	entries, dropped := parseLines(input)
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
}

func TestParseLinesLevelMustBeWord(t *testing.T) {
	// A level with spaces does not match the \w+ group.
	entries, dropped := parseLines("[t1] [NOT A LEVEL] message")
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
}

func TestParseLinesEmptyInput(t *testing.T) {
	entries, dropped := parseLines("")
	if len(entries) != 0 || dropped != 0 {
		t.Errorf("entries = %d, dropped = %d, want 0, 0", len(entries), dropped)
	}
}
