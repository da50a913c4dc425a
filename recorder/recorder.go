// Package recorder owns the microphone for the duration of one capture
// session: it negotiates an output encoding, accumulates PCM chunks into
// the encoder sink, ticks an elapsed-time counter, and finalizes everything
// into a single named clip on stop. The device stream is released exactly
// once per session, also when stop is reached through an error.
package recorder

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"voxidea/audio"
	"voxidea/encoder"
)

// Clip is the finalized output of a capture session.
type Clip struct {
	Data     []byte
	MIME     string
	FileName string
	Duration time.Duration
}

var ErrFinalized = fmt.Errorf("recording session already finalized")

// Session is a single-use capture session. Create with New, then Start,
// then Stop; Stop and Abort are safe to call more than once.
type Session struct {
	capture audio.CaptureDevice
	enc     encoder.Encoder
	mime    string

	ticks  chan int
	levels chan float64

	mu          sync.Mutex
	sampleBuf   []int16
	totalFrames uint64
	started     bool
	finalized   bool

	blockChan  chan []int16
	encodeDone chan struct{}
	tickStop   chan struct{}
	done       chan struct{}

	releaseOnce sync.Once
	doneOnce    sync.Once
}

// New negotiates an encoding from the preference list and opens a capture
// device. A device that cannot be opened (no permission, unplugged,
// claimed elsewhere) surfaces here as an error; there is no retry.
func New(ctx audio.Context, dev *audio.DeviceInfo, prefs []string) (*Session, error) {
	if len(prefs) == 0 {
		prefs = encoder.DefaultPreferences
	}
	mime, enc, err := encoder.Negotiate(prefs)
	if err != nil {
		return nil, fmt.Errorf("negotiating encoding: %w", err)
	}

	capture, err := ctx.NewCapture(dev, audio.CaptureConfig{
		SampleRate: encoder.SampleRate,
		Channels:   encoder.Channels,
	})
	if err != nil {
		return nil, fmt.Errorf("opening capture device: %w", err)
	}

	return &Session{
		capture:    capture,
		enc:        enc,
		mime:       mime,
		ticks:      make(chan int, 4),
		levels:     make(chan float64, 16),
		blockChan:  make(chan []int16, 64),
		encodeDone: make(chan struct{}),
		tickStop:   make(chan struct{}),
		done:       make(chan struct{}),
	}, nil
}

// MIME returns the negotiated encoding identifier.
func (s *Session) MIME() string { return s.mime }

// DeviceName names the underlying capture device.
func (s *Session) DeviceName() string { return s.capture.DeviceName() }

// Ticks delivers elapsed whole seconds, once per second while recording.
func (s *Session) Ticks() <-chan int { return s.ticks }

// Levels delivers RMS levels of incoming chunks, for the UI meter.
func (s *Session) Levels() <-chan float64 { return s.levels }

// Done is closed once the session is finalized, whether through Stop,
// Abort, or a failed Start. Consumers of Ticks and Levels select on it.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) markDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Start begins pulling chunks from the device into the encoder sink.
// On failure the device is released before returning.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.started || s.finalized {
		s.mu.Unlock()
		return ErrFinalized
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.encodeDone)
		for block := range s.blockChan {
			start := time.Now()
			s.enc.EncodeBlock(block)
			s.enc.AddEncodeTime(time.Since(start))
		}
	}()

	s.capture.SetCallback(s.onChunk)

	if err := s.capture.Start(); err != nil {
		s.release()
		close(s.blockChan)
		<-s.encodeDone
		s.mu.Lock()
		s.finalized = true
		s.mu.Unlock()
		s.markDone()
		return fmt.Errorf("starting capture: %w", err)
	}

	go s.runTicker()
	return nil
}

func (s *Session) runTicker() {
	started := time.Now()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.tickStop:
			return
		case <-ticker.C:
			select {
			case s.ticks <- int(time.Since(started) / time.Second):
			default:
			}
		}
	}
}

// onChunk runs on the device's data thread. Empty chunks are dropped.
func (s *Session) onChunk(data []byte, frameCount uint32) {
	if len(data) == 0 {
		return
	}

	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return
	}
	s.totalFrames += uint64(frameCount)
	for i := 0; i+1 < len(data); i += 2 {
		s.sampleBuf = append(s.sampleBuf, int16(binary.LittleEndian.Uint16(data[i:])))
	}
	var blocks [][]int16
	for len(s.sampleBuf) >= encoder.BlockSize {
		block := make([]int16, encoder.BlockSize)
		copy(block, s.sampleBuf[:encoder.BlockSize])
		s.sampleBuf = s.sampleBuf[encoder.BlockSize:]
		blocks = append(blocks, block)
	}
	s.mu.Unlock()

	for _, block := range blocks {
		s.blockChan <- block
	}

	var sumSquares float64
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(data[i:]))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
	}
	rms := math.Sqrt(sumSquares / float64(len(data)/2))
	select {
	case s.levels <- rms:
	default:
	}
}

// Stop finalizes the session: the ticker stops, the sink is flushed and
// closed into one blob tagged with the negotiated encoding, and the device
// stream is released. Calling Stop again returns ErrFinalized.
func (s *Session) Stop() (Clip, error) {
	s.mu.Lock()
	if s.finalized || !s.started {
		s.mu.Unlock()
		return Clip{}, ErrFinalized
	}
	s.finalized = true
	partial := make([]int16, len(s.sampleBuf))
	copy(partial, s.sampleBuf)
	s.sampleBuf = nil
	frames := s.totalFrames
	s.mu.Unlock()

	s.markDone()
	close(s.tickStop)
	s.release()

	if len(partial) > 0 {
		s.blockChan <- partial
	}
	close(s.blockChan)
	<-s.encodeDone

	if err := s.enc.Close(); err != nil {
		return Clip{}, fmt.Errorf("finalizing encoder: %w", err)
	}

	duration := time.Duration(float64(frames) / float64(encoder.SampleRate) * float64(time.Second))
	name := fmt.Sprintf("idea-%s.%s", time.Now().Format("20060102-150405"), encoder.Extension(s.mime))

	return Clip{
		Data:     s.enc.Bytes(),
		MIME:     s.mime,
		FileName: name,
		Duration: duration,
	}, nil
}

// Abort discards the session without producing a clip. The device is still
// released exactly once.
func (s *Session) Abort() {
	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return
	}
	s.finalized = true
	started := s.started
	s.mu.Unlock()

	s.markDone()
	s.release()
	if started {
		close(s.tickStop)
		close(s.blockChan)
		<-s.encodeDone
	}
}

func (s *Session) release() {
	s.releaseOnce.Do(func() {
		s.capture.Stop()
		s.capture.ClearCallback()
		s.capture.Close()
	})
}
