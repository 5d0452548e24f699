package audio

import (
	"encoding/binary"
	"fmt"
)

// wavFormat holds the sample layout read from a WAV fmt chunk.
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// parseWAV walks the RIFF chunk list and returns the format and the raw
// sample data.
func parseWAV(data []byte) (wavFormat, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return wavFormat{}, nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var format wavFormat
	haveFmt := false

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return wavFormat{}, nil, fmt.Errorf("truncated %q chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return wavFormat{}, nil, fmt.Errorf("fmt chunk too short (%d bytes)", chunkSize)
			}
			format.Channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			format.SampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			format.BitDepth = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return wavFormat{}, nil, fmt.Errorf("data chunk before fmt chunk")
			}
			return format, data[body : body+chunkSize], nil
		}

		offset = body + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 == 1 {
			offset++
		}
	}

	return wavFormat{}, nil, fmt.Errorf("no data chunk found")
}
