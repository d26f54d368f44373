package entities

import "strings"

// TranscriptEntry is one transcribed chunk of a live recording. The timestamp
// is the wall-clock label shown next to the text, not a machine timestamp.
type TranscriptEntry struct {
	Timestamp string `json:"timestamp" bson:"timestamp"`
	Text      string `json:"text" bson:"text"`
}

// JoinTranscript concatenates entry texts into the single string handed to
// the analyzer.
func JoinTranscript(entries []TranscriptEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, " ")
}

// FormatTranscript renders entries as "[HH:MM:SS] text" lines, the layout
// used when a live session is persisted as a note.
func FormatTranscript(entries []TranscriptEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, "["+e.Timestamp+"] "+e.Text)
	}
	return strings.Join(lines, "\n")
}
