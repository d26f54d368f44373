package entities

import (
	"errors"
	"time"
)

// NoteSource identifies how a note was produced.
type NoteSource string

const (
	NoteSourceLive   NoteSource = "live"
	NoteSourceUpload NoteSource = "upload"
)

// Note is a persisted meeting record: the transcript plus whatever analysis
// was generated for it.
type Note struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Title     string     `json:"title" bson:"title"`
	CreatedAt time.Time  `json:"timestamp" bson:"created_at"`
	Duration  string     `json:"duration,omitempty" bson:"duration,omitempty"`
	Source    NoteSource `json:"source" bson:"source"`

	Transcript string   `json:"transcript" bson:"transcript"`
	Summary    string   `json:"summary" bson:"summary"`
	KeyPoints  []string `json:"key_points" bson:"key_points"`
	Actions    []string `json:"actions" bson:"actions"`
	Decisions  []string `json:"decisions" bson:"decisions"`
}

// previewLength is the number of characters shown in note listings.
const previewLength = 150

// Preview returns the short text shown in the notes list, preferring the
// summary over the raw transcript.
func (n *Note) Preview() string {
	text := n.Summary
	if text == "" {
		text = n.Transcript
	}
	if len(text) > previewLength {
		return text[:previewLength] + "..."
	}
	return text
}

// DateLabel returns the human-readable date shown in the notes browser.
func (n *Note) DateLabel() string {
	if n.CreatedAt.IsZero() {
		return "Unknown date"
	}
	return n.CreatedAt.Format("2006-01-02 15:04")
}

// Validate validates the note before persistence.
func (n *Note) Validate() error {
	if n.Title == "" {
		return errors.New("title is required")
	}
	if n.Source != NoteSourceLive && n.Source != NoteSourceUpload {
		return errors.New("invalid note source")
	}
	return nil
}
