package encoder

import "strings"

// Encoding identifiers a capture sink can negotiate. Opus containers stay
// first in the preference order for compatibility with clips produced by
// other clients; this process can encode FLAC and WAV itself.
const (
	MimeOggOpus  = "audio/ogg;codecs=opus"
	MimeWebmOpus = "audio/webm;codecs=opus"
	MimeWebm     = "audio/webm"
	MimeFlac     = "audio/flac"
	MimeWav      = "audio/wav"
)

// DefaultPreferences is the ordered encoding preference list used when the
// configuration does not override it.
var DefaultPreferences = []string{
	MimeOggOpus,
	MimeWebmOpus,
	MimeWebm,
	MimeFlac,
	MimeWav,
}

var factories = map[string]func() (Encoder, error){
	MimeFlac: func() (Encoder, error) { return NewFlac() },
	MimeWav:  func() (Encoder, error) { return NewWav() },
}

// Supported reports whether this process can encode the given identifier.
func Supported(mime string) bool {
	_, ok := factories[mime]
	return ok
}

// Negotiate walks the preference list and returns the first supported
// encoding with its encoder. When nothing in the list is supported it
// falls back to the generic WAV container.
func Negotiate(prefs []string) (string, Encoder, error) {
	for _, mime := range prefs {
		if factory, ok := factories[mime]; ok {
			enc, err := factory()
			return mime, enc, err
		}
	}
	enc, err := NewWav()
	return MimeWav, enc, err
}

// Extension derives the output file extension from a negotiated encoding.
// Anything mentioning the ogg container gets "ogg"; unknown encodings
// default to "webm".
func Extension(mime string) string {
	switch {
	case strings.Contains(mime, "ogg"):
		return "ogg"
	case strings.Contains(mime, "flac"):
		return "flac"
	case strings.Contains(mime, "wav"):
		return "wav"
	default:
		return "webm"
	}
}

// MimeForExtension maps an audio file extension to the identifier sent to
// the backend for uploaded clips.
func MimeForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "ogg", "oga":
		return "audio/ogg"
	case "webm":
		return MimeWebm
	case "flac":
		return MimeFlac
	case "wav":
		return MimeWav
	case "mp3":
		return "audio/mpeg"
	case "m4a", "mp4":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
