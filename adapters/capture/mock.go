package capture

import (
	"context"
	"sync"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// MockCapture serves scripted devices, probe levels, and audio chunks. Used
// in tests and when running without real audio hardware.
type MockCapture struct {
	Devices []entities.CaptureDevice
	Levels  []entities.DeviceLevel
	// Chunks is the PCM served by opened streams; an empty slice yields
	// one-second silence chunks forever.
	Chunks [][]byte

	mu     sync.Mutex
	opened int
}

var _ repositories.AudioCapture = (*MockCapture)(nil)

// NewMockCapture creates a mock with two plausible devices.
func NewMockCapture() *MockCapture {
	return &MockCapture{
		Devices: []entities.CaptureDevice{
			{ID: 0, Name: "Mock Microphone", Inputs: 1, SampleRate: 16000},
			{ID: 1, Name: "Mock Speaker Loopback", Inputs: 2, SampleRate: 48000},
		},
	}
}

// OpenCount reports how many streams were opened.
func (m *MockCapture) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// ListDevices implements repositories.AudioCapture.
func (m *MockCapture) ListDevices(ctx context.Context) ([]entities.CaptureDevice, error) {
	return m.Devices, nil
}

// Probe implements repositories.AudioCapture.
func (m *MockCapture) Probe(ctx context.Context) ([]entities.DeviceLevel, error) {
	return m.Levels, nil
}

// Open implements repositories.AudioCapture.
func (m *MockCapture) Open(ctx context.Context, deviceID int, config repositories.AudioConfig) (repositories.CaptureStream, error) {
	m.mu.Lock()
	m.opened++
	m.mu.Unlock()

	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}
	return &mockStream{chunks: m.Chunks, silence: make([]byte, sampleRate*2)}, nil
}

type mockStream struct {
	chunks  [][]byte
	silence []byte

	mu     sync.Mutex
	next   int
	closed bool
}

func (s *mockStream) ReadChunk(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, context.Canceled
	}
	if s.next < len(s.chunks) {
		chunk := s.chunks[s.next]
		s.next++
		return chunk, nil
	}
	return s.silence, nil
}

func (s *mockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
