//go:build cgo && !noaudio

package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/domain/entities"
	"github.com/adhikari10/AI-Meeting-Notes/domain/repositories"
)

// probeWindow is how long each device is sampled during auto-detect.
const probeWindow = 300 * time.Millisecond

// MalgoCapture implements AudioCapture on top of miniaudio. Devices are
// addressed by their position in the enumeration order, which is stable for
// the lifetime of a page load.
type MalgoCapture struct {
	logger       *zap.Logger
	sampleRate   int
	chunkSeconds int
}

var _ repositories.AudioCapture = (*MalgoCapture)(nil)

// New creates the miniaudio capture backend.
func New(logger *zap.Logger, sampleRate, chunkSeconds int) repositories.AudioCapture {
	return &MalgoCapture{logger: logger, sampleRate: sampleRate, chunkSeconds: chunkSeconds}
}

func (m *MalgoCapture) withContext(fn func(ctx *malgo.AllocatedContext) error) error {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to init audio context: %w", err)
	}
	defer func() {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
	}()
	return fn(malgoCtx)
}

func (m *MalgoCapture) captureInfos(malgoCtx *malgo.AllocatedContext) ([]malgo.DeviceInfo, error) {
	devices, err := malgoCtx.Devices(malgo.Capture)
	if err != nil {
		return nil, err
	}

	infos := make([]malgo.DeviceInfo, 0, len(devices))
	seen := make(map[string]struct{}, len(devices))
	for _, dev := range devices {
		full, err := malgoCtx.DeviceInfo(malgo.Capture, dev.ID, malgo.Shared)
		if err != nil {
			m.logger.Warn("Unable to get audio device info", zap.Error(err))
			continue
		}
		// Some backends report the same device twice.
		key := string(full.ID[:])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		infos = append(infos, full)
	}
	return infos, nil
}

// ListDevices implements repositories.AudioCapture.
func (m *MalgoCapture) ListDevices(ctx context.Context) ([]entities.CaptureDevice, error) {
	var result []entities.CaptureDevice
	err := m.withContext(func(malgoCtx *malgo.AllocatedContext) error {
		infos, err := m.captureInfos(malgoCtx)
		if err != nil {
			return err
		}
		for i, info := range infos {
			result = append(result, entities.CaptureDevice{
				ID:         i,
				Name:       info.Name(),
				Inputs:     1,
				SampleRate: m.sampleRate,
			})
		}
		return nil
	})
	return result, err
}

// Probe implements repositories.AudioCapture. Each device is opened briefly
// and its mean amplitude measured; devices that fail to open are skipped.
func (m *MalgoCapture) Probe(ctx context.Context) ([]entities.DeviceLevel, error) {
	var result []entities.DeviceLevel
	err := m.withContext(func(malgoCtx *malgo.AllocatedContext) error {
		infos, err := m.captureInfos(malgoCtx)
		if err != nil {
			return err
		}

		for i, info := range infos {
			level, err := m.probeDevice(malgoCtx, info)
			if err != nil {
				m.logger.Debug("Skipping device during probe",
					zap.String("device", info.Name()),
					zap.Error(err))
				continue
			}
			result = append(result, entities.DeviceLevel{
				Device: entities.CaptureDevice{
					ID:         i,
					Name:       info.Name(),
					Inputs:     1,
					SampleRate: m.sampleRate,
				},
				Level: level,
			})
		}
		return nil
	})
	return result, err
}

func (m *MalgoCapture) probeDevice(malgoCtx *malgo.AllocatedContext, info malgo.DeviceInfo) (float64, error) {
	var mu sync.Mutex
	var collected []byte

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.DeviceID = info.ID.Pointer()
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(m.sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			mu.Lock()
			collected = append(collected, input...)
			mu.Unlock()
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		return 0, err
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return 0, err
	}
	time.Sleep(probeWindow)
	_ = device.Stop()

	mu.Lock()
	defer mu.Unlock()
	return pcmLevel(collected), nil
}

// Open implements repositories.AudioCapture.
func (m *MalgoCapture) Open(ctx context.Context, deviceID int, config repositories.AudioConfig) (repositories.CaptureStream, error) {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}

	infos, err := m.captureInfos(malgoCtx)
	if err != nil {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, err
	}
	if deviceID < 0 || deviceID >= len(infos) {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("unknown capture device %d", deviceID)
	}

	sampleRate := config.SampleRate
	if sampleRate == 0 {
		sampleRate = m.sampleRate
	}
	chunkBytes := sampleRate * m.chunkSeconds * 2 // S16 mono

	stream := &malgoStream{
		malgoCtx:   malgoCtx,
		chunkBytes: chunkBytes,
		chunks:     make(chan []byte, 4),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.DeviceID = infos[deviceID].ID.Pointer()
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{Data: stream.onData}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("failed to init capture device: %w", err)
	}
	stream.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
		return nil, fmt.Errorf("failed to start capture device: %w", err)
	}

	m.logger.Info("Capture device opened",
		zap.Int("deviceID", deviceID),
		zap.String("name", infos[deviceID].Name()),
		zap.Int("sampleRate", sampleRate))

	return stream, nil
}

type malgoStream struct {
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	chunkBytes int
	chunks     chan []byte

	mu      sync.Mutex
	pending []byte
	closed  bool
}

// onData accumulates the callback's PCM until a full chunk is ready.
func (s *malgoStream) onData(_, input []byte, _ uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, input...)
	for len(s.pending) >= s.chunkBytes {
		chunk := make([]byte, s.chunkBytes)
		copy(chunk, s.pending[:s.chunkBytes])
		s.pending = s.pending[s.chunkBytes:]
		select {
		case s.chunks <- chunk:
		default:
			// Consumer fell behind; drop the oldest audio rather than block
			// the audio thread.
		}
	}
}

func (s *malgoStream) ReadChunk(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case chunk, ok := <-s.chunks:
		if !ok {
			return nil, fmt.Errorf("capture stream closed")
		}
		return chunk, nil
	}
}

func (s *malgoStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.device.Stop()
	s.device.Uninit()
	_ = s.malgoCtx.Uninit()
	s.malgoCtx.Free()
	close(s.chunks)
	return nil
}
