package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/adapters/llm"
	"github.com/adhikari10/AI-Meeting-Notes/adapters/stt"
	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

type memNotes struct {
	saved []*entities.Note
}

func (m *memNotes) Save(ctx context.Context, note *entities.Note) error {
	if note.ID == "" {
		note.ID = "note-1"
	}
	m.saved = append(m.saved, note)
	return nil
}

func (m *memNotes) List(ctx context.Context) ([]*entities.Note, error) {
	return m.saved, nil
}

func (m *memNotes) Get(ctx context.Context, id string) (*entities.Note, error) {
	for _, n := range m.saved {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNoteNotFound
}

func (m *memNotes) Delete(ctx context.Context, id string) error {
	return nil
}

func newTestService(t *testing.T, notes *memNotes, analyzer repositories.MeetingAnalyzer) *MeetingService {
	t.Helper()
	speech := stt.NewMockSpeechToText(zap.NewNop())
	speech.SetScript("the quarterly roadmap was reviewed in detail today")

	analyzers := map[string]repositories.MeetingAnalyzer{}
	if analyzer != nil {
		analyzers["mock"] = analyzer
	}
	return NewMeetingService(
		notes,
		speech,
		analyzers,
		"mock",
		time.Second,
		repositories.AudioConfig{SampleRate: 16000, Language: "en-US"},
		zap.NewNop(),
	)
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.wav")
	if err := os.WriteFile(path, make([]byte, 320), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessFileWithAnalysis(t *testing.T) {
	notes := &memNotes{}
	analyzer := &llm.MockAnalyzer{Result: entities.Analysis{
		Summary:   "Roadmap review.",
		KeyPoints: []string{"quarterly roadmap"},
		Actions:   []string{"send minutes"},
		Decisions: []string{"ship in Q4"},
	}}
	svc := newTestService(t, notes, analyzer)

	result, err := svc.ProcessFile(context.Background(), writeTempAudio(t), "meeting.wav", ProcessOptions{
		GenerateSummary: true,
		ExtractActions:  true,
		DetectDecisions: true,
	})
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if result.Summary != "Roadmap review." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if result.Transcript == "" {
		t.Error("expected a transcript")
	}
	if result.NotesFile == "" {
		t.Error("expected a saved note id")
	}
	if len(notes.saved) != 1 {
		t.Fatalf("expected 1 saved note, got %d", len(notes.saved))
	}
	if notes.saved[0].Source != entities.NoteSourceUpload {
		t.Errorf("expected upload source, got %q", notes.saved[0].Source)
	}
	if notes.saved[0].Title != "meeting.wav" {
		t.Errorf("expected filename as title, got %q", notes.saved[0].Title)
	}
}

func TestProcessFileOptionsStripSections(t *testing.T) {
	notes := &memNotes{}
	analyzer := &llm.MockAnalyzer{Result: entities.Analysis{
		Summary:   "Roadmap review.",
		Actions:   []string{"send minutes"},
		Decisions: []string{"ship in Q4"},
	}}
	svc := newTestService(t, notes, analyzer)

	result, err := svc.ProcessFile(context.Background(), writeTempAudio(t), "meeting.wav", ProcessOptions{
		GenerateSummary: true,
	})
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(result.Actions) != 0 || len(result.Decisions) != 0 {
		t.Errorf("expected actions and decisions stripped, got %v / %v", result.Actions, result.Decisions)
	}
}

func TestProcessFileNoAnalysisRequested(t *testing.T) {
	notes := &memNotes{}
	analyzer := &llm.MockAnalyzer{Result: entities.Analysis{Summary: "should not appear"}}
	svc := newTestService(t, notes, analyzer)

	result, err := svc.ProcessFile(context.Background(), writeTempAudio(t), "meeting.wav", ProcessOptions{})
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if result.Summary != "" {
		t.Errorf("expected no summary, got %q", result.Summary)
	}
	if analyzer.Calls != 0 {
		t.Errorf("analyzer should not be called, got %d calls", analyzer.Calls)
	}
}

func TestProcessFileAnalyzerFailureFallsBack(t *testing.T) {
	notes := &memNotes{}
	analyzer := &llm.MockAnalyzer{Err: errors.New("provider down")}
	svc := newTestService(t, notes, analyzer)

	result, err := svc.ProcessFile(context.Background(), writeTempAudio(t), "meeting.wav", ProcessOptions{
		GenerateSummary: true,
	})
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if result.Summary == "" {
		t.Error("expected naive fallback summary on provider failure")
	}
}

func TestGenerateSummaryRequiresTranscript(t *testing.T) {
	svc := newTestService(t, &memNotes{}, &llm.MockAnalyzer{})

	if _, err := svc.GenerateSummary(context.Background(), nil, "mock"); !errors.Is(err, ErrNoTranscript) {
		t.Errorf("expected ErrNoTranscript, got %v", err)
	}

	short := []entities.TranscriptEntry{{Timestamp: "00:00:01", Text: "hi"}}
	if _, err := svc.GenerateSummary(context.Background(), short, "mock"); !errors.Is(err, ErrTranscriptTooShort) {
		t.Errorf("expected ErrTranscriptTooShort, got %v", err)
	}
}

func TestGenerateSummarySavesLiveNote(t *testing.T) {
	notes := &memNotes{}
	analyzer := &llm.MockAnalyzer{Result: entities.Analysis{Summary: "Live summary."}}
	svc := newTestService(t, notes, analyzer)

	entries := []entities.TranscriptEntry{
		{Timestamp: "00:00:05", Text: "welcome everyone to the weekly sync"},
		{Timestamp: "00:00:12", Text: "first item is the release schedule"},
	}
	result, err := svc.GenerateSummary(context.Background(), entries, "mock")
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if result.Summary != "Live summary." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if len(notes.saved) != 1 {
		t.Fatalf("expected 1 saved note, got %d", len(notes.saved))
	}
	note := notes.saved[0]
	if note.Source != entities.NoteSourceLive {
		t.Errorf("expected live source, got %q", note.Source)
	}
	if !strings.HasPrefix(note.Title, "Live Meeting ") {
		t.Errorf("unexpected title %q", note.Title)
	}
	if !strings.Contains(note.Transcript, "[00:00:05] welcome everyone to the weekly sync") {
		t.Errorf("expected timestamped transcript, got %q", note.Transcript)
	}
}

func TestEncodingForFilename(t *testing.T) {
	cases := map[string]string{
		"meeting.wav":  "LINEAR16",
		"meeting.mp3":  "LINEAR16",
		"meeting.flac": "FLAC",
		"meeting.OGG":  "OGG_OPUS",
		"meeting.webm": "WEBM_OPUS",
	}
	for filename, want := range cases {
		if got := encodingForFilename(filename); got != want {
			t.Errorf("encodingForFilename(%q) = %q, want %q", filename, got, want)
		}
	}
}

func TestDownloadText(t *testing.T) {
	note := &entities.Note{
		Title:      "Weekly Sync",
		CreatedAt:  time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		Source:     entities.NoteSourceLive,
		Transcript: "[00:00:05] welcome everyone",
		Summary:    "Short sync.",
		KeyPoints:  []string{"release schedule"},
		Actions:    []string{"update the tracker"},
	}

	text := DownloadText(note)
	for _, want := range []string{
		"MEETING NOTES",
		"Title: Weekly Sync",
		"Date: 2026-03-10 14:30",
		"Source: live",
		"TRANSCRIPT:\n[00:00:05] welcome everyone",
		"SUMMARY:\nShort sync.",
		"KEY POINTS:\n- release schedule",
		"ACTION ITEMS:\n- update the tracker",
		"Generated by Smart Meeting Notes",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("download text missing %q:\n%s", want, text)
		}
	}
}

func TestDownloadTextEmptyNote(t *testing.T) {
	text := DownloadText(&entities.Note{})
	for _, want := range []string{
		"Title: Untitled",
		"Date: Unknown date",
		"No transcript available",
		"No summary available",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("download text missing %q", want)
		}
	}
}
