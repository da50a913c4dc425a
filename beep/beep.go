// Package beep plays short audio cues: recording start/stop, a chime
// when the backend accepts a submission, and a low double-beep on errors.
package beep

var disabled bool

func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Start beep: high pitch, short
	startFreq   = 1200
	startVolume = 0.5
	startDecay  = 60

	// End beep: medium pitch, slightly longer
	endFreq   = 900
	endVolume = 0.5
	endDecay  = 40

	// Success chime: rising two-tone
	successFreqLo = 880
	successFreqHi = 1320
	successVolume = 0.5
	successDecay  = 35

	// Error beep: low pitch double-beep
	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)

// Platform-specific durations (darwin uses shorter durations)
