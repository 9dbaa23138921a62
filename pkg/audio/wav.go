// Package audio inspects raw microphone captures before they are shipped to
// the backend. The capture surface hands over opaque byte buffers; Inspect
// rejects the ones that cannot possibly transcribe (empty, truncated, or not
// WAV at all) without spending a network round trip.
package audio

import (
	"encoding/binary"
	"time"

	"github.com/MrWong99/murshed/pkg/provider/fault"
)

// riffHeaderSize is the fixed RIFF preamble: "RIFF" + size + "WAVE".
const riffHeaderSize = 12

// Info describes a parsed WAV capture.
type Info struct {
	// SampleRate in Hz.
	SampleRate int

	// Channels is the channel count (1 mono, 2 stereo).
	Channels int

	// BitsPerSample is the sample width.
	BitsPerSample int

	// DataBytes is the size of the PCM payload.
	DataBytes int
}

// Duration returns the playback length of the capture. Zero when the format
// fields do not allow computing it.
func (i Info) Duration() time.Duration {
	bytesPerSecond := i.SampleRate * i.Channels * i.BitsPerSample / 8
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(i.DataBytes) * time.Second / time.Duration(bytesPerSecond)
}

// Inspect parses the RIFF/WAVE structure of a capture and returns its format.
// Captures that are empty, not WAV, or carry no audio payload are rejected
// with a fault of kind [fault.KindEmptyAudio].
func Inspect(capture []byte) (Info, error) {
	if len(capture) == 0 {
		return Info{}, fault.New(fault.KindEmptyAudio, "audio: capture is empty")
	}
	if len(capture) < riffHeaderSize ||
		string(capture[0:4]) != "RIFF" || string(capture[8:12]) != "WAVE" {
		return Info{}, fault.New(fault.KindEmptyAudio, "audio: capture is not a WAV stream")
	}

	var info Info
	var sawFormat, sawData bool

	// Walk the chunk list. Chunks are 4-byte id, uint32 size, payload padded
	// to an even length.
	rest := capture[riffHeaderSize:]
	for len(rest) >= 8 {
		id := string(rest[0:4])
		size := int(binary.LittleEndian.Uint32(rest[4:8]))
		body := rest[8:]
		if size > len(body) {
			return Info{}, fault.New(fault.KindEmptyAudio, "audio: truncated "+id+" chunk")
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return Info{}, fault.New(fault.KindEmptyAudio, "audio: malformed format chunk")
			}
			info.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			sawFormat = true
		case "data":
			info.DataBytes = size
			sawData = true
		}

		advance := size
		if advance%2 != 0 {
			advance++
		}
		rest = body[min(advance, len(body)):]
	}

	if !sawFormat || !sawData {
		return Info{}, fault.New(fault.KindEmptyAudio, "audio: capture misses format or data chunk")
	}
	if info.DataBytes == 0 {
		return Info{}, fault.New(fault.KindEmptyAudio, "audio: capture has no audio payload")
	}
	return info, nil
}
