package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/adapters/llm"
	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// ErrNoTranscript is returned when summary generation is requested with no
// live transcript retained.
var ErrNoTranscript = errors.New("no transcript available")

// ErrTranscriptTooShort is returned when the live transcript is too small to
// analyze.
var ErrTranscriptTooShort = errors.New("transcript too short")

// minSummaryLength is the minimum joined transcript length for live summary
// generation.
const minSummaryLength = 20

// ProcessOptions are the per-upload processing flags.
type ProcessOptions struct {
	GenerateSummary bool
	ExtractActions  bool
	DetectDecisions bool
	Provider        string
}

// ProcessFileResult is the all-or-nothing response for an upload.
type ProcessFileResult struct {
	Transcript string   `json:"transcript"`
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"key_points"`
	Actions    []string `json:"actions"`
	Decisions  []string `json:"decisions"`
	NotesFile  string   `json:"notes_file"`
}

// SummaryResult is the response for live-transcript analysis.
type SummaryResult struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Actions   []string `json:"actions"`
	Decisions []string `json:"decisions"`
	NotesFile string   `json:"notes_file"`
}

// MeetingService orchestrates transcription, analysis, and note persistence.
type MeetingService struct {
	notes           repositories.NoteRepository
	stt             repositories.SpeechToText
	analyzers       map[string]repositories.MeetingAnalyzer
	defaultProvider string
	analysisTimeout time.Duration
	audioConfig     repositories.AudioConfig
	logger          *zap.Logger
}

// NewMeetingService creates the meeting service.
func NewMeetingService(
	notes repositories.NoteRepository,
	stt repositories.SpeechToText,
	analyzers map[string]repositories.MeetingAnalyzer,
	defaultProvider string,
	analysisTimeout time.Duration,
	audioConfig repositories.AudioConfig,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		notes:           notes,
		stt:             stt,
		analyzers:       analyzers,
		defaultProvider: defaultProvider,
		analysisTimeout: analysisTimeout,
		audioConfig:     audioConfig,
		logger:          logger,
	}
}

// Notes exposes the note repository for read paths.
func (s *MeetingService) Notes() repositories.NoteRepository {
	return s.notes
}

// ProcessFile transcribes an uploaded audio file, optionally analyzes it, and
// persists the result as a note.
func (s *MeetingService) ProcessFile(ctx context.Context, path, filename string, opts ProcessOptions) (*ProcessFileResult, error) {
	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	cfg := s.audioConfig
	cfg.Encoding = encodingForFilename(filename)

	transcript, err := s.stt.TranscribeAudio(ctx, audioData, cfg)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	s.logger.Info("File transcribed",
		zap.String("filename", filename),
		zap.Int("transcriptChars", len(transcript)))

	analysis := entities.Analysis{KeyPoints: []string{}, Actions: []string{}, Decisions: []string{}}
	if opts.GenerateSummary {
		analysis = s.analyze(ctx, transcript, opts.Provider)
		applyOptions(&analysis, opts)
	}

	note := &entities.Note{
		Title:      filename,
		CreatedAt:  time.Now(),
		Source:     entities.NoteSourceUpload,
		Transcript: transcript,
		Summary:    analysis.Summary,
		KeyPoints:  analysis.KeyPoints,
		Actions:    analysis.Actions,
		Decisions:  analysis.Decisions,
	}
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	return &ProcessFileResult{
		Transcript: transcript,
		Summary:    analysis.Summary,
		KeyPoints:  analysis.KeyPoints,
		Actions:    analysis.Actions,
		Decisions:  analysis.Decisions,
		NotesFile:  note.ID,
	}, nil
}

// GenerateSummary analyzes the retained live transcript and persists the
// session as a note.
func (s *MeetingService) GenerateSummary(ctx context.Context, entries []entities.TranscriptEntry, provider string) (*SummaryResult, error) {
	if len(entries) == 0 {
		return nil, ErrNoTranscript
	}

	fullText := entities.JoinTranscript(entries)
	if len(fullText) < minSummaryLength {
		return nil, ErrTranscriptTooShort
	}

	analysis := s.analyze(ctx, fullText, provider)

	now := time.Now()
	note := &entities.Note{
		Title:      "Live Meeting " + now.Format("2006-01-02 15:04"),
		CreatedAt:  now,
		Source:     entities.NoteSourceLive,
		Transcript: entities.FormatTranscript(entries),
		Summary:    analysis.Summary,
		KeyPoints:  analysis.KeyPoints,
		Actions:    analysis.Actions,
		Decisions:  analysis.Decisions,
	}
	if err := s.notes.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	return &SummaryResult{
		Summary:   analysis.Summary,
		KeyPoints: analysis.KeyPoints,
		Actions:   analysis.Actions,
		Decisions: analysis.Decisions,
		NotesFile: note.ID,
	}, nil
}

// analyze runs the selected provider with a bounded timeout and falls back to
// the naive local analysis on any failure, so a dead provider never loses a
// transcript.
func (s *MeetingService) analyze(ctx context.Context, transcript, provider string) entities.Analysis {
	analyzer := s.analyzerFor(provider)
	if analyzer == nil {
		s.logger.Warn("No analysis provider available, using naive analysis")
		return llm.NaiveAnalysis(transcript)
	}

	ctx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	analysis, err := analyzer.Analyze(ctx, transcript)
	if err != nil {
		s.logger.Warn("Analysis failed, using naive analysis",
			zap.String("provider", provider),
			zap.Error(err))
		return llm.NaiveAnalysis(transcript)
	}
	return analysis
}

func (s *MeetingService) analyzerFor(provider string) repositories.MeetingAnalyzer {
	if a, ok := s.analyzers[provider]; ok {
		return a
	}
	if a, ok := s.analyzers[s.defaultProvider]; ok {
		return a
	}
	// Any provider beats none.
	for _, a := range s.analyzers {
		return a
	}
	return nil
}

func applyOptions(analysis *entities.Analysis, opts ProcessOptions) {
	if !opts.ExtractActions {
		analysis.Actions = []string{}
	}
	if !opts.DetectDecisions {
		analysis.Decisions = []string{}
	}
}

func encodingForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".flac":
		return "FLAC"
	case ".ogg", ".opus":
		return "OGG_OPUS"
	case ".webm":
		return "WEBM_OPUS"
	default:
		return "LINEAR16"
	}
}

// DownloadText renders a persisted note as the plain-text document served by
// the download endpoint.
func DownloadText(note *entities.Note) string {
	var b strings.Builder
	b.WriteString("MEETING NOTES\n=============\n\n")
	fmt.Fprintf(&b, "Title: %s\n", orDefault(note.Title, "Untitled"))
	fmt.Fprintf(&b, "Date: %s\n", note.DateLabel())
	fmt.Fprintf(&b, "Source: %s\n\n", orDefault(string(note.Source), "Unknown"))

	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(orDefault(note.Transcript, "No transcript available"))
	b.WriteString("\n\nSUMMARY:\n")
	b.WriteString(orDefault(note.Summary, "No summary available"))

	b.WriteString("\n\nKEY POINTS:\n")
	writeBullets(&b, note.KeyPoints)
	b.WriteString("\nACTION ITEMS:\n")
	writeBullets(&b, note.Actions)
	b.WriteString("\nDECISIONS:\n")
	writeBullets(&b, note.Decisions)

	b.WriteString("\nGenerated by Smart Meeting Notes\n")
	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
