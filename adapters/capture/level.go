package capture

import "encoding/binary"

// pcmLevel returns the mean absolute amplitude of little-endian 16-bit PCM,
// normalized to [0, 1]. Auto-detect probing compares it against the silence
// threshold.
func pcmLevel(data []byte) float64 {
	if len(data) < 2 {
		return 0
	}

	var sum float64
	samples := len(data) / 2
	for i := 0; i < samples; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		f := float64(v) / 32768.0
		if f < 0 {
			f = -f
		}
		sum += f
	}
	return sum / float64(samples)
}
