package client

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/internal/protocol"
)

// State is the controller's recording state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// ErrNoDeviceSelected is returned by Start when neither a capture type nor a
// device has been chosen. Nothing is sent to the server in that case.
var ErrNoDeviceSelected = errors.New("select a capture type and device first")

// transcriptPlaceholder is restored whenever the transcript is cleared.
const transcriptPlaceholder = "Transcript will appear here..."

// analysisPlaceholder is restored whenever the analysis view is cleared.
const analysisPlaceholder = "Summary and action items will appear here..."

// Sender pushes a command to the capture service. Sends are
// fire-and-forget; delivery failures surface through the event channel, not
// the return value of controller methods.
type Sender interface {
	Send(v interface{}) error
}

// View is the surface the controller renders into. Implementations must not
// call back into the controller.
type View interface {
	SetStatus(status string)
	SetElapsed(label string)
	AppendTranscript(timestamp, text string)
	ResetTranscript(placeholder string)
	// ShowAnalysisPrompt replaces the analysis view with a message inviting
	// on-demand summary generation.
	ShowAnalysisPrompt(message string)
	// ResetAnalysis returns the analysis view to its placeholder.
	ResetAnalysis(placeholder string)
	ShowError(message string)
}

// Clock abstracts time for elapsed-label tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Controller is the client-side recording session state machine. State
// transitions are optimistic: a command is sent and the local state moves
// immediately, without waiting for the server's status event.
type Controller struct {
	sender Sender
	view   View
	clock  Clock
	logger *zap.Logger

	picker DevicePicker

	state       State
	startedAt   time.Time
	pauseStart  time.Time
	pausedTotal time.Duration

	transcript []entities.TranscriptEntry
}

// NewController creates an idle controller.
func NewController(sender Sender, view View, logger *zap.Logger) *Controller {
	return &Controller{
		sender: sender,
		view:   view,
		clock:  realClock{},
		logger: logger,
	}
}

// SetClock replaces the time source; tests use this.
func (c *Controller) SetClock(clock Clock) {
	c.clock = clock
}

// State reports the current recording state.
func (c *Controller) State() State {
	return c.state
}

// Picker exposes device selection.
func (c *Controller) Picker() *DevicePicker {
	return &c.picker
}

// Transcript returns the entries received during this session.
func (c *Controller) Transcript() []entities.TranscriptEntry {
	out := make([]entities.TranscriptEntry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) send(v interface{}) {
	if err := c.sender.Send(v); err != nil {
		c.logger.Warn("Failed to send command", zap.Error(err))
	}
}

// Start begins a recording session. It validates the device selection before
// anything is sent; an invalid selection leaves state untouched.
func (c *Controller) Start() error {
	if c.state != StateIdle {
		return fmt.Errorf("recording already in progress")
	}
	selection := c.picker.Selection()
	if selection == nil {
		return ErrNoDeviceSelected
	}

	c.send(protocol.NewStartRecording(selection.CaptureType, selection.DeviceID))
	c.state = StateRecording
	c.startedAt = c.clock.Now()
	c.pausedTotal = 0
	c.view.SetStatus("Recording started")
	return nil
}

// Pause suspends the session. Pausing while not actively recording is a
// no-op, so a double-tap sends a single command.
func (c *Controller) Pause() {
	if c.state != StateRecording {
		return
	}
	c.send(protocol.NewPauseRecording())
	c.state = StatePaused
	c.pauseStart = c.clock.Now()
	c.view.SetStatus("Paused")
}

// Resume continues a paused session.
func (c *Controller) Resume() {
	if c.state != StatePaused {
		return
	}
	c.send(protocol.NewResumeRecording())
	c.pausedTotal += c.clock.Now().Sub(c.pauseStart)
	c.state = StateRecording
	c.view.SetStatus("Recording...")
}

// Stop ends the session. Stopping while idle is a no-op.
func (c *Controller) Stop() {
	if c.state == StateIdle {
		return
	}
	if c.state == StatePaused {
		c.pausedTotal += c.clock.Now().Sub(c.pauseStart)
	}
	c.send(protocol.NewStopRecording())
	c.state = StateIdle
	c.view.SetElapsed(FormatElapsed(0))
	c.view.SetStatus("Recording stopped")
}

// Reset discards the transcript. A session still running is stopped first,
// so the server sees stop_recording before reset_transcript.
func (c *Controller) Reset() {
	if c.state != StateIdle {
		c.Stop()
	}
	c.send(protocol.NewResetTranscript())
	c.transcript = nil
	c.view.ResetTranscript(transcriptPlaceholder)
	c.view.ResetAnalysis(analysisPlaceholder)
	c.view.SetElapsed(FormatElapsed(0))
	c.view.SetStatus("Ready to record")
}

// ElapsedMillis reports recorded wall time, excluding paused stretches.
func (c *Controller) ElapsedMillis() int64 {
	if c.state == StateIdle {
		return 0
	}
	elapsed := c.clock.Now().Sub(c.startedAt) - c.pausedTotal
	if c.state == StatePaused {
		elapsed -= c.clock.Now().Sub(c.pauseStart)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed.Milliseconds()
}

// Tick refreshes the elapsed label. Call it once a second while a session is
// active.
func (c *Controller) Tick() {
	c.view.SetElapsed(FormatElapsed(c.ElapsedMillis()))
}

// HandleEvent dispatches one event payload from the capture service.
func (c *Controller) HandleEvent(payload []byte) {
	event, err := protocol.ParseEvent(payload)
	if err != nil {
		c.logger.Warn("Dropping malformed event", zap.Error(err))
		return
	}

	switch e := event.(type) {
	case *protocol.TranscriptUpdateEvent:
		c.transcript = append(c.transcript, entities.TranscriptEntry{
			Timestamp: e.Timestamp,
			Text:      e.Text,
		})
		c.view.AppendTranscript(e.Timestamp, e.Text)
	case *protocol.RecordingStatusEvent:
		c.view.SetStatus(e.Status)
	case *protocol.RecordingCompleteEvent:
		c.view.ShowAnalysisPrompt(e.Message)
	case *protocol.ErrorEvent:
		// Errors are informational; the optimistic local state stands.
		c.view.ShowError(e.Message)
	}
}

// FormatElapsed renders a millisecond count as a zero-padded HH:MM:SS label,
// flooring partial seconds.
func FormatElapsed(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	totalSeconds := millis / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
