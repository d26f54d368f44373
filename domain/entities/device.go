package entities

// CaptureType says whether audio is sourced from system speaker output or a
// microphone.
type CaptureType string

const (
	CaptureTypeSpeaker    CaptureType = "speaker"
	CaptureTypeMicrophone CaptureType = "microphone"
)

// Valid reports whether the capture type is one of the two supported sources.
func (t CaptureType) Valid() bool {
	return t == CaptureTypeSpeaker || t == CaptureTypeMicrophone
}

// CaptureDevice is an audio input device as reported by the capture backend.
type CaptureDevice struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Inputs     int    `json:"inputs"`
	SampleRate int    `json:"rate"`
}

// DeviceLevel is the ambient audio level measured on a device during an
// auto-detect probe.
type DeviceLevel struct {
	Device CaptureDevice `json:"device"`
	Level  float64       `json:"level"`
}
