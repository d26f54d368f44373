package entities

import (
	"strings"
	"testing"
	"time"
)

func TestNotePreviewPrefersSummary(t *testing.T) {
	note := &Note{Summary: "Short summary.", Transcript: "long transcript text"}
	if got := note.Preview(); got != "Short summary." {
		t.Errorf("Preview = %q", got)
	}

	note = &Note{Transcript: "just a transcript"}
	if got := note.Preview(); got != "just a transcript" {
		t.Errorf("Preview = %q", got)
	}
}

func TestNotePreviewTruncates(t *testing.T) {
	note := &Note{Transcript: strings.Repeat("a", 200)}
	got := note.Preview()
	if len(got) != previewLength+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("Preview length = %d, suffix %q", len(got), got[len(got)-3:])
	}
}

func TestNoteDateLabel(t *testing.T) {
	note := &Note{}
	if got := note.DateLabel(); got != "Unknown date" {
		t.Errorf("DateLabel = %q", got)
	}

	note.CreatedAt = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	if got := note.DateLabel(); got != "2026-03-10 14:30" {
		t.Errorf("DateLabel = %q", got)
	}
}

func TestNoteValidate(t *testing.T) {
	note := &Note{Title: "Weekly Sync", Source: NoteSourceLive}
	if err := note.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := (&Note{Source: NoteSourceLive}).Validate(); err == nil {
		t.Error("expected error for missing title")
	}
	if err := (&Note{Title: "x", Source: "radio"}).Validate(); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestJoinTranscript(t *testing.T) {
	entries := []TranscriptEntry{
		{Timestamp: "00:00:01", Text: "hello"},
		{Timestamp: "00:00:06", Text: "world"},
	}
	if got := JoinTranscript(entries); got != "hello world" {
		t.Errorf("JoinTranscript = %q", got)
	}
	if got := JoinTranscript(nil); got != "" {
		t.Errorf("JoinTranscript(nil) = %q", got)
	}
}

func TestFormatTranscript(t *testing.T) {
	entries := []TranscriptEntry{
		{Timestamp: "00:00:01", Text: "hello"},
		{Timestamp: "00:00:06", Text: "world"},
	}
	want := "[00:00:01] hello\n[00:00:06] world"
	if got := FormatTranscript(entries); got != want {
		t.Errorf("FormatTranscript = %q, want %q", got, want)
	}
}
