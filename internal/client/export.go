package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
)

// Export is the client-side text rendering of a session: the timestamped
// transcript plus whatever analysis the user generated.
type Export struct {
	Entries []entities.TranscriptEntry
	Summary string
	Actions []string
}

// Render produces the plain-text export. The section layout is stable so
// ParseExport can read it back.
func (e Export) Render() string {
	var b strings.Builder
	b.WriteString("MEETING NOTES\n\n")

	b.WriteString("TRANSCRIPT:\n")
	for _, entry := range e.Entries {
		fmt.Fprintf(&b, "[%s] %s\n", entry.Timestamp, entry.Text)
	}

	b.WriteString("\nSUMMARY:\n")
	if e.Summary != "" {
		b.WriteString(e.Summary)
		b.WriteString("\n")
	}

	b.WriteString("\nACTION ITEMS:\n")
	for _, action := range e.Actions {
		b.WriteString("- ")
		b.WriteString(action)
		b.WriteString("\n")
	}
	return b.String()
}

// ParseExport reads a rendered export back into its parts. Unknown lines
// outside a section are ignored.
func ParseExport(text string) Export {
	var out Export
	section := ""
	var summaryLines []string

	for _, line := range strings.Split(text, "\n") {
		switch strings.TrimSpace(line) {
		case "TRANSCRIPT:":
			section = "transcript"
			continue
		case "SUMMARY:":
			section = "summary"
			continue
		case "ACTION ITEMS:":
			section = "actions"
			continue
		}

		switch section {
		case "transcript":
			if entry, ok := parseTranscriptLine(line); ok {
				out.Entries = append(out.Entries, entry)
			}
		case "summary":
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				summaryLines = append(summaryLines, trimmed)
			}
		case "actions":
			if item, ok := strings.CutPrefix(strings.TrimSpace(line), "- "); ok {
				out.Actions = append(out.Actions, item)
			}
		}
	}

	out.Summary = strings.Join(summaryLines, "\n")
	return out
}

func parseTranscriptLine(line string) (entities.TranscriptEntry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[") {
		return entities.TranscriptEntry{}, false
	}
	end := strings.Index(line, "] ")
	if end < 0 {
		return entities.TranscriptEntry{}, false
	}
	return entities.TranscriptEntry{
		Timestamp: line[1:end],
		Text:      line[end+2:],
	}, true
}

// ExportFilename derives the download name from the export moment, with the
// characters a filesystem dislikes replaced by dashes.
func ExportFilename(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return "meeting_notes_" + stamp + ".txt"
}
