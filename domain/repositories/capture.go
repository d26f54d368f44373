package repositories

import (
	"context"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
)

// AudioCapture abstracts the audio input backend.
type AudioCapture interface {
	// ListDevices enumerates input-capable devices.
	ListDevices(ctx context.Context) ([]entities.CaptureDevice, error)
	// Probe measures the ambient audio level on every input device. Devices
	// that cannot be opened are skipped, not reported as errors.
	Probe(ctx context.Context) ([]entities.DeviceLevel, error)
	// Open starts capturing PCM audio from the given device.
	Open(ctx context.Context, deviceID int, config AudioConfig) (CaptureStream, error)
}

// CaptureStream yields fixed-duration PCM chunks from an open device.
type CaptureStream interface {
	// ReadChunk blocks until the next chunk is available or ctx is done.
	ReadChunk(ctx context.Context) ([]byte, error)
	Close() error
}
