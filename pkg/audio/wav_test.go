package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWAV(sampleRate, channels, bitDepth int, samples []byte, extraChunks ...[]byte) []byte {
	fmtChunk := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtChunk[0:], 1) // PCM
	binary.LittleEndian.PutUint16(fmtChunk[2:], uint16(channels))
	binary.LittleEndian.PutUint32(fmtChunk[4:], uint32(sampleRate))
	binary.LittleEndian.PutUint16(fmtChunk[14:], uint16(bitDepth))

	var body []byte
	appendChunk := func(id string, data []byte) {
		body = append(body, id...)
		size := make([]byte, 4)
		binary.LittleEndian.PutUint32(size, uint32(len(data)))
		body = append(body, size...)
		body = append(body, data...)
		if len(data)%2 == 1 {
			body = append(body, 0)
		}
	}

	appendChunk("fmt ", fmtChunk)
	for _, chunk := range extraChunks {
		body = append(body, chunk...)
	}
	appendChunk("data", samples)

	out := []byte("RIFF")
	size := make([]byte, 4)
	binary.LittleEndian.PutUint32(size, uint32(4+len(body)))
	out = append(out, size...)
	out = append(out, "WAVE"...)
	return append(out, body...)
}

func TestParseWAV(t *testing.T) {
	samples := []byte{0x01, 0x02, 0x03, 0x04}
	format, data, err := parseWAV(buildWAV(44100, 2, 16, samples))
	require.NoError(t, err)

	assert.Equal(t, 44100, format.SampleRate)
	assert.Equal(t, 2, format.Channels)
	assert.Equal(t, 16, format.BitDepth)
	assert.Equal(t, samples, data)
}

func TestParseWAVSkipsUnknownChunks(t *testing.T) {
	// A LIST chunk with an odd size exercises word alignment too.
	list := append([]byte("LIST"), 0x05, 0x00, 0x00, 0x00)
	list = append(list, 'I', 'N', 'F', 'O', 'x', 0x00)

	samples := []byte{0xAA, 0xBB}
	format, data, err := parseWAV(buildWAV(22050, 1, 8, samples, list))
	require.NoError(t, err)

	assert.Equal(t, 22050, format.SampleRate)
	assert.Equal(t, samples, data)
}

func TestParseWAVErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"too short", []byte("RIFF")},
		{"wrong magic", []byte("RIFX....WAVE")},
		{"not wave", []byte("RIFF....AIFF")},
		{"no data chunk", []byte("RIFF\x04\x00\x00\x00WAVE")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseWAV(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestParseWAVTruncatedDataChunk(t *testing.T) {
	wav := buildWAV(44100, 2, 16, []byte{0x01, 0x02, 0x03, 0x04})
	_, _, err := parseWAV(wav[:len(wav)-2])
	assert.Error(t, err)
}
