package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
	"github.com/adhikari10/AI-Meeting-Notes/internal/protocol"
)

// Status line labels pushed to clients. Clients display them verbatim.
const (
	StatusRecordingStarted = "Recording started"
	StatusRecordingStopped = "Recording stopped"
	StatusPaused           = "Paused"
	StatusRecording        = "Recording..."
	StatusReady            = "Ready to record"
)

const recordingCompleteMessage = `Click "Generate Summary" to analyze`

// errAlreadyRecording is sent verbatim to a client that tries to start while
// a session is active.
var errAlreadyRecording = errors.New("Recording already in progress")

// minTranscriptChars drops filler like "uh" before it reaches the transcript.
const minTranscriptChars = 3

// Broadcaster fans an encoded event out to every connected client.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Recorder owns the single server-side recording session. All clients share
// it; starting while a session is active is rejected.
type Recorder struct {
	capture     repositories.AudioCapture
	stt         repositories.SpeechToText
	audioConfig repositories.AudioConfig
	broadcaster Broadcaster
	logger      *zap.Logger

	mu         sync.Mutex
	recording  bool
	paused     bool
	transcript []entities.TranscriptEntry
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewRecorder creates the shared recording session.
func NewRecorder(
	capture repositories.AudioCapture,
	stt repositories.SpeechToText,
	audioConfig repositories.AudioConfig,
	logger *zap.Logger,
) *Recorder {
	return &Recorder{
		capture:     capture,
		stt:         stt,
		audioConfig: audioConfig,
		logger:      logger,
	}
}

func encode(v interface{}) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return payload
}

func (r *Recorder) broadcast(v interface{}) {
	if r.broadcaster != nil {
		r.broadcaster.Broadcast(encode(v))
	}
}

// HandleCommand decodes and dispatches one client command. Validation errors
// and rejections go only to the requester through reply; session events are
// broadcast to everyone.
func (r *Recorder) HandleCommand(messageBytes []byte, reply func(payload []byte)) {
	cmd, err := protocol.ParseCommand(messageBytes)
	if err != nil {
		r.logger.Warn("Rejected command", zap.Error(err))
		reply(encode(protocol.NewErrorEvent(err.Error())))
		return
	}

	switch c := cmd.(type) {
	case *protocol.StartRecordingCommand:
		if err := r.Start(c.CaptureType, c.DeviceID); err != nil {
			reply(encode(protocol.NewErrorEvent(err.Error())))
		}
	case *protocol.StopRecordingCommand:
		r.Stop()
	case *protocol.PauseRecordingCommand:
		r.Pause()
	case *protocol.ResumeRecordingCommand:
		r.Resume()
	case *protocol.ResetTranscriptCommand:
		r.ResetTranscript()
	}
}

// Start opens the capture device and begins the transcription loop.
func (r *Recorder) Start(captureType entities.CaptureType, deviceID int) error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return errAlreadyRecording
	}

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := r.capture.Open(ctx, deviceID, r.audioConfig)
	if err != nil {
		cancel()
		r.mu.Unlock()
		r.logger.Error("Failed to open capture device",
			zap.Int("deviceID", deviceID),
			zap.Error(err))
		return err
	}

	r.recording = true
	r.paused = false
	r.cancel = cancel
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	r.logger.Info("Recording started",
		zap.String("captureType", string(captureType)),
		zap.Int("deviceID", deviceID))
	r.broadcast(protocol.NewRecordingStatus(StatusRecordingStarted))

	go r.run(ctx, stream, done)
	return nil
}

// Stop ends the active session. Stopping an idle recorder is a no-op.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return
	}
	r.recording = false
	r.paused = false
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	cancel()
	<-done

	r.logger.Info("Recording stopped")
	r.broadcast(protocol.NewRecordingStatus(StatusRecordingStopped))
	r.broadcast(protocol.NewRecordingComplete(recordingCompleteMessage))
}

// Pause suspends transcription; audio keeps flowing but is discarded. Pausing
// an already paused or idle session is a no-op.
func (r *Recorder) Pause() {
	r.mu.Lock()
	if !r.recording || r.paused {
		r.mu.Unlock()
		return
	}
	r.paused = true
	r.mu.Unlock()
	r.broadcast(protocol.NewRecordingStatus(StatusPaused))
}

// Resume continues a paused session.
func (r *Recorder) Resume() {
	r.mu.Lock()
	if !r.recording || !r.paused {
		r.mu.Unlock()
		return
	}
	r.paused = false
	r.mu.Unlock()
	r.broadcast(protocol.NewRecordingStatus(StatusRecording))
}

// ResetTranscript discards the retained transcript and returns the status
// line to idle.
func (r *Recorder) ResetTranscript() {
	r.mu.Lock()
	r.transcript = nil
	r.mu.Unlock()
	r.broadcast(protocol.NewRecordingStatus(StatusReady))
}

// LiveTranscript returns a copy of the retained session transcript.
func (r *Recorder) LiveTranscript() []entities.TranscriptEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.TranscriptEntry, len(r.transcript))
	copy(out, r.transcript)
	return out
}

// StatusLabel reports the status line matching the current state.
func (r *Recorder) StatusLabel() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.recording && r.paused:
		return StatusPaused
	case r.recording:
		return StatusRecording
	default:
		return StatusReady
	}
}

// run is the capture loop. It reads fixed-size chunks, transcribes each, and
// broadcasts any text long enough to be meaningful.
func (r *Recorder) run(ctx context.Context, stream repositories.CaptureStream, done chan struct{}) {
	defer close(done)
	defer stream.Close()

	for {
		chunk, err := stream.ReadChunk(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Error("Capture read failed", zap.Error(err))
				r.broadcast(protocol.NewErrorEvent("audio capture failed: " + err.Error()))
				r.abort()
			}
			return
		}

		r.mu.Lock()
		paused := r.paused
		r.mu.Unlock()
		if paused {
			continue
		}

		text, err := r.stt.TranscribeAudio(ctx, chunk, r.audioConfig)
		if err != nil {
			if ctx.Err() == nil {
				r.logger.Warn("Transcription failed for chunk", zap.Error(err))
			}
			continue
		}
		if len(text) < minTranscriptChars {
			continue
		}

		entry := entities.TranscriptEntry{
			Timestamp: time.Now().Format("15:04:05"),
			Text:      text,
		}

		r.mu.Lock()
		if !r.recording {
			r.mu.Unlock()
			return
		}
		r.transcript = append(r.transcript, entry)
		r.mu.Unlock()

		r.broadcast(protocol.NewTranscriptUpdate(entry.Timestamp, entry.Text))
	}
}

// abort clears the recording flag after a capture failure inside the loop.
func (r *Recorder) abort() {
	r.mu.Lock()
	r.recording = false
	r.paused = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.done = nil
	r.mu.Unlock()
	r.broadcast(protocol.NewRecordingStatus(StatusReady))
}
