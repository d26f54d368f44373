package stt

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// MockSpeechToText returns scripted transcripts. With no script it echoes a
// fixed phrase, which keeps the recording pipeline usable without
// cloud credentials.
type MockSpeechToText struct {
	logger *zap.Logger

	mu      sync.Mutex
	script  []string
	nextIdx int
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// NewMockSpeechToText creates a mock STT adapter.
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{logger: logger}
}

// SetScript fixes the sequence of transcripts returned by successive calls.
func (m *MockSpeechToText) SetScript(lines ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = lines
	m.nextIdx = 0
}

func (m *MockSpeechToText) next() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.script) == 0 {
		return "mock transcription of the captured audio"
	}
	line := m.script[m.nextIdx%len(m.script)]
	m.nextIdx++
	return line
}

// TranscribeAudio implements repositories.SpeechToText.
func (m *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	if len(audioData) == 0 {
		return "", nil
	}
	text := m.next()
	m.logger.Debug("Mock transcription",
		zap.Int("audioBytes", len(audioData)),
		zap.String("text", text))
	return text, nil
}

// InitTranscribeStreaming implements repositories.SpeechToText.
func (m *MockSpeechToText) InitTranscribeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.SpeechToTextStreaming, error) {
	return &mockStream{parent: m}, nil
}

type mockStream struct {
	parent   *MockSpeechToText
	received bool
}

func (s *mockStream) Stream(data []byte) error {
	if len(data) > 0 {
		s.received = true
	}
	return nil
}

func (s *mockStream) End() (string, error) {
	if !s.received {
		return "", nil
	}
	return s.parent.next(), nil
}
