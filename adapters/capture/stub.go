//go:build !cgo || noaudio

package capture

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// ErrCaptureUnavailable is returned by every operation when the binary was
// built without audio support.
var ErrCaptureUnavailable = errors.New("audio capture not available in this build")

type unavailableCapture struct{}

// New returns a capture backend whose operations all fail; file upload and
// the notes browser keep working without audio support.
func New(logger *zap.Logger, sampleRate, chunkSeconds int) repositories.AudioCapture {
	logger.Warn("Built without audio capture support")
	return unavailableCapture{}
}

func (unavailableCapture) ListDevices(ctx context.Context) ([]entities.CaptureDevice, error) {
	return nil, ErrCaptureUnavailable
}

func (unavailableCapture) Probe(ctx context.Context) ([]entities.DeviceLevel, error) {
	return nil, ErrCaptureUnavailable
}

func (unavailableCapture) Open(ctx context.Context, deviceID int, config repositories.AudioConfig) (repositories.CaptureStream, error) {
	return nil, ErrCaptureUnavailable
}
