package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
)

// MessageType defines the type of a session-control message.
type MessageType string

// Outbound commands (controller -> capture service).
const (
	MessageTypeStartRecording  MessageType = "start_recording"
	MessageTypeStopRecording   MessageType = "stop_recording"
	MessageTypePauseRecording  MessageType = "pause_recording"
	MessageTypeResumeRecording MessageType = "resume_recording"
	MessageTypeResetTranscript MessageType = "reset_transcript"
)

// Inbound events (capture service -> controller).
const (
	MessageTypeTranscriptUpdate  MessageType = "transcript_update"
	MessageTypeRecordingStatus   MessageType = "recording_status"
	MessageTypeRecordingComplete MessageType = "recording_complete"
	MessageTypeError             MessageType = "error"
)

// BaseMessage is the envelope shared by all session-control messages.
type BaseMessage struct {
	Type   MessageType `json:"type"`
	SentAt string      `json:"sent_at,omitempty"`
}

// StartRecordingCommand asks the capture service to begin recording from a
// specific device. The capture type key avoids colliding with the envelope's
// "type" field.
type StartRecordingCommand struct {
	BaseMessage
	CaptureType entities.CaptureType `json:"capture_type"`
	DeviceID    int                  `json:"device_id"`
}

// StopRecordingCommand ends the active recording.
type StopRecordingCommand struct {
	BaseMessage
}

// PauseRecordingCommand suspends transcription without ending the session.
type PauseRecordingCommand struct {
	BaseMessage
}

// ResumeRecordingCommand continues a paused session.
type ResumeRecordingCommand struct {
	BaseMessage
}

// ResetTranscriptCommand discards the retained live transcript.
type ResetTranscriptCommand struct {
	BaseMessage
}

// TranscriptUpdateEvent carries one transcribed chunk. Timestamp is the
// wall-clock label (HH:MM:SS) displayed next to the text.
type TranscriptUpdateEvent struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp"`
	Text      string      `json:"text"`
}

// RecordingStatusEvent overwrites the status line verbatim.
type RecordingStatusEvent struct {
	Type   MessageType `json:"type"`
	Status string      `json:"status"`
}

// RecordingCompleteEvent signals that transcription finished. Analysis is a
// separate explicit request, never triggered by this event.
type RecordingCompleteEvent struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// ErrorEvent surfaces a capture-service error. It does not imply any state
// rollback on either side.
type ErrorEvent struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func newBase(t MessageType) BaseMessage {
	return BaseMessage{Type: t, SentAt: time.Now().Format(time.RFC3339)}
}

// NewStartRecording builds a start_recording command.
func NewStartRecording(captureType entities.CaptureType, deviceID int) *StartRecordingCommand {
	return &StartRecordingCommand{
		BaseMessage: newBase(MessageTypeStartRecording),
		CaptureType: captureType,
		DeviceID:    deviceID,
	}
}

// NewStopRecording builds a stop_recording command.
func NewStopRecording() *StopRecordingCommand {
	return &StopRecordingCommand{BaseMessage: newBase(MessageTypeStopRecording)}
}

// NewPauseRecording builds a pause_recording command.
func NewPauseRecording() *PauseRecordingCommand {
	return &PauseRecordingCommand{BaseMessage: newBase(MessageTypePauseRecording)}
}

// NewResumeRecording builds a resume_recording command.
func NewResumeRecording() *ResumeRecordingCommand {
	return &ResumeRecordingCommand{BaseMessage: newBase(MessageTypeResumeRecording)}
}

// NewResetTranscript builds a reset_transcript command.
func NewResetTranscript() *ResetTranscriptCommand {
	return &ResetTranscriptCommand{BaseMessage: newBase(MessageTypeResetTranscript)}
}

// NewTranscriptUpdate builds a transcript_update event.
func NewTranscriptUpdate(timestamp, text string) *TranscriptUpdateEvent {
	return &TranscriptUpdateEvent{Type: MessageTypeTranscriptUpdate, Timestamp: timestamp, Text: text}
}

// NewRecordingStatus builds a recording_status event.
func NewRecordingStatus(status string) *RecordingStatusEvent {
	return &RecordingStatusEvent{Type: MessageTypeRecordingStatus, Status: status}
}

// NewRecordingComplete builds a recording_complete event.
func NewRecordingComplete(message string) *RecordingCompleteEvent {
	return &RecordingCompleteEvent{Type: MessageTypeRecordingComplete, Message: message}
}

// NewErrorEvent builds an error event.
func NewErrorEvent(message string) *ErrorEvent {
	return &ErrorEvent{Type: MessageTypeError, Message: message}
}

// ParseCommand validates and decodes an inbound command from a client.
func ParseCommand(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeStartRecording:
		var msg StartRecordingCommand
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid start_recording command: %w", err)
		}
		if !msg.CaptureType.Valid() {
			return nil, fmt.Errorf("capture_type must be one of: speaker, microphone")
		}
		if msg.DeviceID < 0 {
			return nil, fmt.Errorf("device_id must not be negative")
		}
		return &msg, nil

	case MessageTypeStopRecording:
		return &StopRecordingCommand{BaseMessage: base}, nil

	case MessageTypePauseRecording:
		return &PauseRecordingCommand{BaseMessage: base}, nil

	case MessageTypeResumeRecording:
		return &ResumeRecordingCommand{BaseMessage: base}, nil

	case MessageTypeResetTranscript:
		return &ResetTranscriptCommand{BaseMessage: base}, nil

	default:
		return nil, fmt.Errorf("unsupported command type: %s", base.Type)
	}
}

// ParseEvent validates and decodes an inbound event on the client side.
func ParseEvent(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeTranscriptUpdate:
		var msg TranscriptUpdateEvent
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid transcript_update event: %w", err)
		}
		if msg.Text == "" {
			return nil, fmt.Errorf("text is required")
		}
		return &msg, nil

	case MessageTypeRecordingStatus:
		var msg RecordingStatusEvent
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid recording_status event: %w", err)
		}
		return &msg, nil

	case MessageTypeRecordingComplete:
		var msg RecordingCompleteEvent
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid recording_complete event: %w", err)
		}
		return &msg, nil

	case MessageTypeError:
		var msg ErrorEvent
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid error event: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported event type: %s", base.Type)
	}
}
