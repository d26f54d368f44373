package capture

import (
	"encoding/binary"
	"testing"
)

func pcmOf(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestPCMLevelSilence(t *testing.T) {
	if level := pcmLevel(pcmOf(0, 0, 0, 0)); level != 0 {
		t.Errorf("expected 0 level for silence, got %f", level)
	}
}

func TestPCMLevelFullScale(t *testing.T) {
	level := pcmLevel(pcmOf(-32768, -32768))
	if level != 1.0 {
		t.Errorf("expected 1.0 for full-scale signal, got %f", level)
	}
}

func TestPCMLevelMixed(t *testing.T) {
	// 0.5 and -0.5 average to 0.5.
	level := pcmLevel(pcmOf(16384, -16384))
	if level < 0.49 || level > 0.51 {
		t.Errorf("expected ~0.5, got %f", level)
	}
}

func TestPCMLevelEmpty(t *testing.T) {
	if level := pcmLevel(nil); level != 0 {
		t.Errorf("expected 0 for empty input, got %f", level)
	}
}
