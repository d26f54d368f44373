package websocket

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/adapters/stt"
	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
	"github.com/adhikari10/AI-Meeting-Notes/internal/protocol"
)

// scriptedCapture hands chunks to the recorder only when the test pushes
// them, so each loop iteration is driven explicitly.
type scriptedCapture struct {
	stream *scriptedStream
}

func newScriptedCapture() *scriptedCapture {
	return &scriptedCapture{stream: &scriptedStream{chunks: make(chan []byte, 16)}}
}

func (c *scriptedCapture) push(chunk []byte) {
	c.stream.chunks <- chunk
}

func (c *scriptedCapture) ListDevices(ctx context.Context) ([]entities.CaptureDevice, error) {
	return []entities.CaptureDevice{{ID: 0, Name: "Scripted", Inputs: 1, SampleRate: 16000}}, nil
}

func (c *scriptedCapture) Probe(ctx context.Context) ([]entities.DeviceLevel, error) {
	return nil, nil
}

func (c *scriptedCapture) Open(ctx context.Context, deviceID int, config repositories.AudioConfig) (repositories.CaptureStream, error) {
	return c.stream, nil
}

type scriptedStream struct {
	chunks chan []byte
}

func (s *scriptedStream) ReadChunk(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case chunk := <-s.chunks:
		return chunk, nil
	}
}

func (s *scriptedStream) Close() error { return nil }

// collector records broadcast payloads decoded as events.
type collector struct {
	mu     sync.Mutex
	events []interface{}
}

func (c *collector) Broadcast(payload []byte) {
	event, err := protocol.ParseEvent(payload)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
}

func (c *collector) snapshot() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]interface{}, len(c.events))
	copy(out, c.events)
	return out
}

func (c *collector) waitFor(t *testing.T, match func(interface{}) bool) interface{} {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, event := range c.snapshot() {
			if match(event) {
				return event
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for event")
	return nil
}

func newTestRecorder(t *testing.T) (*Recorder, *scriptedCapture, *collector) {
	t.Helper()
	capture := newScriptedCapture()
	speech := stt.NewMockSpeechToText(zap.NewNop())
	recorder := NewRecorder(capture, speech,
		repositories.AudioConfig{SampleRate: 16000, Language: "en-US"}, zap.NewNop())
	sink := &collector{}
	recorder.broadcaster = sink
	return recorder, capture, sink
}

func statusEvents(events []interface{}) []string {
	var out []string
	for _, event := range events {
		if status, ok := event.(*protocol.RecordingStatusEvent); ok {
			out = append(out, status.Status)
		}
	}
	return out
}

func TestStartRejectsSecondSession(t *testing.T) {
	recorder, _, _ := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer recorder.Stop()

	err := recorder.Start(entities.CaptureTypeMicrophone, 0)
	if err == nil {
		t.Fatal("expected second Start to fail")
	}
	if !strings.Contains(err.Error(), "already in progress") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestStopEmitsStatusThenComplete(t *testing.T) {
	recorder, _, sink := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeSpeaker, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	recorder.Stop()

	var statuses []string
	var completeAfterStopped bool
	for _, event := range sink.snapshot() {
		switch e := event.(type) {
		case *protocol.RecordingStatusEvent:
			statuses = append(statuses, e.Status)
		case *protocol.RecordingCompleteEvent:
			completeAfterStopped = len(statuses) > 0 && statuses[len(statuses)-1] == StatusRecordingStopped
			if !strings.Contains(e.Message, "Generate Summary") {
				t.Errorf("unexpected complete message %q", e.Message)
			}
		}
	}
	if !completeAfterStopped {
		t.Errorf("expected recording_complete after %q status, got statuses %v", StatusRecordingStopped, statuses)
	}
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	recorder, _, sink := newTestRecorder(t)
	recorder.Stop()
	if events := sink.snapshot(); len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestTranscriptFlow(t *testing.T) {
	recorder, capture, sink := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer recorder.Stop()

	capture.push(make([]byte, 320))
	event := sink.waitFor(t, func(e interface{}) bool {
		_, ok := e.(*protocol.TranscriptUpdateEvent)
		return ok
	})

	update := event.(*protocol.TranscriptUpdateEvent)
	if update.Text == "" || update.Timestamp == "" {
		t.Errorf("incomplete transcript update %+v", update)
	}

	entries := recorder.LiveTranscript()
	if len(entries) != 1 || entries[0].Text != update.Text {
		t.Errorf("transcript not retained, got %v", entries)
	}
}

func TestShortTranscriptsDropped(t *testing.T) {
	recorder, capture, sink := newTestRecorder(t)
	speech := stt.NewMockSpeechToText(zap.NewNop())
	speech.SetScript("uh", "this chunk is long enough")
	recorder.stt = speech

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer recorder.Stop()

	capture.push(make([]byte, 320))
	capture.push(make([]byte, 320))

	event := sink.waitFor(t, func(e interface{}) bool {
		_, ok := e.(*protocol.TranscriptUpdateEvent)
		return ok
	})
	if got := event.(*protocol.TranscriptUpdateEvent).Text; got != "this chunk is long enough" {
		t.Errorf("expected short text dropped, first update was %q", got)
	}
	if entries := recorder.LiveTranscript(); len(entries) != 1 {
		t.Errorf("expected 1 retained entry, got %d", len(entries))
	}
}

func TestDoublePauseIsNoop(t *testing.T) {
	recorder, _, sink := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer recorder.Stop()

	recorder.Pause()
	recorder.Pause()

	var paused int
	for _, status := range statusEvents(sink.snapshot()) {
		if status == StatusPaused {
			paused++
		}
	}
	if paused != 1 {
		t.Errorf("expected exactly 1 %q status, got %d", StatusPaused, paused)
	}
}

func TestPausedChunksDiscarded(t *testing.T) {
	recorder, capture, sink := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer recorder.Stop()

	recorder.Pause()
	capture.push(make([]byte, 320))

	// Give the loop time to consume and discard the paused chunk before
	// resuming; the post-resume chunk must be the only one that surfaces.
	time.Sleep(100 * time.Millisecond)
	recorder.Resume()
	capture.push(make([]byte, 320))

	sink.waitFor(t, func(e interface{}) bool {
		_, ok := e.(*protocol.TranscriptUpdateEvent)
		return ok
	})

	var updates int
	for _, event := range sink.snapshot() {
		if _, ok := event.(*protocol.TranscriptUpdateEvent); ok {
			updates++
		}
	}
	if updates != 1 {
		t.Errorf("expected 1 transcript update, got %d", updates)
	}
}

func TestResumeWhenNotPausedIsNoop(t *testing.T) {
	recorder, _, sink := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer recorder.Stop()

	recorder.Resume()
	for _, status := range statusEvents(sink.snapshot()) {
		if status == StatusRecording {
			t.Errorf("unexpected %q status from no-op resume", StatusRecording)
		}
	}
}

func TestResetTranscript(t *testing.T) {
	recorder, capture, sink := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	capture.push(make([]byte, 320))
	sink.waitFor(t, func(e interface{}) bool {
		_, ok := e.(*protocol.TranscriptUpdateEvent)
		return ok
	})
	recorder.Stop()

	recorder.ResetTranscript()
	if entries := recorder.LiveTranscript(); len(entries) != 0 {
		t.Errorf("expected empty transcript after reset, got %d entries", len(entries))
	}

	statuses := statusEvents(sink.snapshot())
	if len(statuses) == 0 || statuses[len(statuses)-1] != StatusReady {
		t.Errorf("expected final %q status, got %v", StatusReady, statuses)
	}
}

func TestStatusLabel(t *testing.T) {
	recorder, _, _ := newTestRecorder(t)

	if got := recorder.StatusLabel(); got != StatusReady {
		t.Errorf("idle label = %q", got)
	}
	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := recorder.StatusLabel(); got != StatusRecording {
		t.Errorf("recording label = %q", got)
	}
	recorder.Pause()
	if got := recorder.StatusLabel(); got != StatusPaused {
		t.Errorf("paused label = %q", got)
	}
	recorder.Stop()
	if got := recorder.StatusLabel(); got != StatusReady {
		t.Errorf("stopped label = %q", got)
	}
}

func TestHandleCommandRejectsBadInput(t *testing.T) {
	recorder, _, _ := newTestRecorder(t)

	var replies [][]byte
	reply := func(payload []byte) { replies = append(replies, payload) }

	recorder.HandleCommand([]byte("not json"), reply)
	recorder.HandleCommand([]byte(`{"type":"make_coffee"}`), reply)
	recorder.HandleCommand([]byte(`{"type":"start_recording","capture_type":"radio","device_id":0}`), reply)

	if len(replies) != 3 {
		t.Fatalf("expected 3 error replies, got %d", len(replies))
	}
	for _, payload := range replies {
		event, err := protocol.ParseEvent(payload)
		if err != nil {
			t.Fatalf("reply is not an event: %v", err)
		}
		if _, ok := event.(*protocol.ErrorEvent); !ok {
			t.Errorf("expected error event, got %T", event)
		}
	}
}

func TestHandleCommandStartConflictRepliesOnly(t *testing.T) {
	recorder, _, sink := newTestRecorder(t)

	if err := recorder.Start(entities.CaptureTypeMicrophone, 0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer recorder.Stop()

	var replies [][]byte
	recorder.HandleCommand(
		[]byte(`{"type":"start_recording","capture_type":"microphone","device_id":0}`),
		func(payload []byte) { replies = append(replies, payload) },
	)

	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	event, err := protocol.ParseEvent(replies[0])
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	errEvent, ok := event.(*protocol.ErrorEvent)
	if !ok {
		t.Fatalf("expected error event, got %T", event)
	}
	if errEvent.Message != "Recording already in progress" {
		t.Errorf("unexpected message %q", errEvent.Message)
	}

	// The conflict must not be broadcast to other clients.
	for _, event := range sink.snapshot() {
		if _, ok := event.(*protocol.ErrorEvent); ok {
			t.Error("conflict error was broadcast")
		}
	}
}
