package encoder

import (
	"encoding/binary"
	"sync"
	"time"
)

const wavHeaderSize = 44

// WavEncoder writes PCM into a generic WAV container. It is the fallback
// when no compressed encoding can be negotiated.
type WavEncoder struct {
	buf         []byte
	totalFrames uint64
	encodeTime  time.Duration
	closed      bool
	mu          sync.Mutex
}

func NewWav() (*WavEncoder, error) {
	e := &WavEncoder{}
	e.buf = make([]byte, wavHeaderSize)
	return e, nil
}

func (e *WavEncoder) EncodeBlock(block []int16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range block {
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(s))
	}
	e.totalFrames += uint64(len(block))
	return nil
}

// Close writes the RIFF header over the reserved prefix.
func (e *WavEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	dataSize := uint32(len(e.buf) - wavHeaderSize)
	byteRate := uint32(SampleRate * Channels * BitsPerSample / 8)
	blockAlign := uint16(Channels * BitsPerSample / 8)

	h := e.buf[:wavHeaderSize]
	copy(h[0:], "RIFF")
	binary.LittleEndian.PutUint32(h[4:], 36+dataSize)
	copy(h[8:], "WAVE")
	copy(h[12:], "fmt ")
	binary.LittleEndian.PutUint32(h[16:], 16)
	binary.LittleEndian.PutUint16(h[20:], 1) // PCM
	binary.LittleEndian.PutUint16(h[22:], Channels)
	binary.LittleEndian.PutUint32(h[24:], SampleRate)
	binary.LittleEndian.PutUint32(h[28:], byteRate)
	binary.LittleEndian.PutUint16(h[32:], blockAlign)
	binary.LittleEndian.PutUint16(h[34:], BitsPerSample)
	copy(h[36:], "data")
	binary.LittleEndian.PutUint32(h[40:], dataSize)
	return nil
}

func (e *WavEncoder) Bytes() []byte {
	return e.buf
}

func (e *WavEncoder) TotalFrames() uint64 {
	return e.totalFrames
}

func (e *WavEncoder) AddEncodeTime(d time.Duration) {
	e.mu.Lock()
	e.encodeTime += d
	e.mu.Unlock()
}

func (e *WavEncoder) EncodeTime() time.Duration {
	return e.encodeTime
}
