package protocol

import (
	"encoding/json"
	"testing"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
)

func TestParseCommand_StartRecording(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{
			name:    "valid microphone start",
			message: `{"type": "start_recording", "capture_type": "microphone", "device_id": 2}`,
			wantErr: false,
		},
		{
			name:    "valid speaker start",
			message: `{"type": "start_recording", "capture_type": "speaker", "device_id": 0}`,
			wantErr: false,
		},
		{
			name:    "missing capture type",
			message: `{"type": "start_recording", "device_id": 2}`,
			wantErr: true,
		},
		{
			name:    "unknown capture type",
			message: `{"type": "start_recording", "capture_type": "line-in", "device_id": 2}`,
			wantErr: true,
		},
		{
			name:    "negative device id",
			message: `{"type": "start_recording", "capture_type": "microphone", "device_id": -1}`,
			wantErr: true,
		},
		{
			name:    "not JSON",
			message: `start please`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCommand_SimpleCommands(t *testing.T) {
	for _, msgType := range []string{"stop_recording", "pause_recording", "resume_recording", "reset_transcript"} {
		t.Run(msgType, func(t *testing.T) {
			result, err := ParseCommand([]byte(`{"type": "` + msgType + `"}`))
			if err != nil {
				t.Fatalf("ParseCommand() error = %v", err)
			}
			if result == nil {
				t.Fatal("ParseCommand() returned nil result")
			}
		})
	}
}

func TestParseCommand_UnsupportedType(t *testing.T) {
	_, err := ParseCommand([]byte(`{"type": "listening_start"}`))
	if err == nil {
		t.Error("expected error for unsupported command type")
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{
			name:    "transcript update",
			message: `{"type": "transcript_update", "timestamp": "10:32:01", "text": "hello everyone"}`,
			wantErr: false,
		},
		{
			name:    "transcript update without text",
			message: `{"type": "transcript_update", "timestamp": "10:32:01"}`,
			wantErr: true,
		},
		{
			name:    "recording status",
			message: `{"type": "recording_status", "status": "Paused"}`,
			wantErr: false,
		},
		{
			name:    "recording complete",
			message: `{"type": "recording_complete", "message": "Click \"Generate Summary\" to analyze"}`,
			wantErr: false,
		},
		{
			name:    "error event",
			message: `{"type": "error", "message": "Recording already in progress"}`,
			wantErr: false,
		},
		{
			name:    "unknown event",
			message: `{"type": "speaking_start"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommandRoundTrip(t *testing.T) {
	cmd := NewStartRecording(entities.CaptureTypeSpeaker, 3)
	payload, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := ParseCommand(payload)
	if err != nil {
		t.Fatalf("ParseCommand() error = %v", err)
	}

	start, ok := parsed.(*StartRecordingCommand)
	if !ok {
		t.Fatalf("expected *StartRecordingCommand, got %T", parsed)
	}
	if start.CaptureType != entities.CaptureTypeSpeaker {
		t.Errorf("expected capture type speaker, got %s", start.CaptureType)
	}
	if start.DeviceID != 3 {
		t.Errorf("expected device id 3, got %d", start.DeviceID)
	}
}
