package speech

import "encoding/binary"

const (
	mockSampleRate = 8000
	mockBitsPerSec = mockSampleRate * 2 // mono, 16-bit
)

// MockAsset builds a silent WAV track of the requested length. It is the
// deterministic substitute used when the speech provider has no credential
// configured: the composed video still gets a timeline-accurate audio bed.
func MockAsset(seconds float64) Asset {
	if seconds <= 0 {
		seconds = 1
	}
	samples := int(seconds * mockSampleRate)
	dataLen := samples * 2

	buf := make([]byte, 44+dataLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], mockSampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], mockBitsPerSec)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	return Asset{Data: buf, MIME: "audio/wav", Voice: "silent"}
}
