// Package encoder turns captured PCM into an upload-ready audio blob.
// The output encoding is negotiated from a MIME preference list; FLAC is
// the preferred lossless container, WAV the universal fallback.
package encoder

import "time"

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

// Encoder is a PCM sink. Blocks are fed incrementally; Close finalizes
// the container and Bytes returns the finished blob.
type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
	AddEncodeTime(d time.Duration)
	EncodeTime() time.Duration
}
