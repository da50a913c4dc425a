package encoder

import (
	"encoding/binary"
	"testing"
)

func TestNegotiatePicksFirstSupported(t *testing.T) {
	mime, enc, err := Negotiate(DefaultPreferences)
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if mime != MimeFlac {
		t.Errorf("negotiated %q, want %q", mime, MimeFlac)
	}
	if _, ok := enc.(*FlacEncoder); !ok {
		t.Errorf("encoder type %T, want *FlacEncoder", enc)
	}
}

func TestNegotiateRespectsOrder(t *testing.T) {
	mime, enc, err := Negotiate([]string{MimeWav, MimeFlac})
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if mime != MimeWav {
		t.Errorf("negotiated %q, want %q", mime, MimeWav)
	}
	if _, ok := enc.(*WavEncoder); !ok {
		t.Errorf("encoder type %T, want *WavEncoder", enc)
	}
}

func TestNegotiateFallsBackToWav(t *testing.T) {
	for _, prefs := range [][]string{
		nil,
		{MimeOggOpus, MimeWebmOpus, MimeWebm},
	} {
		mime, enc, err := Negotiate(prefs)
		if err != nil {
			t.Fatalf("Negotiate(%v): %v", prefs, err)
		}
		if mime != MimeWav {
			t.Errorf("Negotiate(%v) = %q, want generic %q", prefs, mime, MimeWav)
		}
		if enc == nil {
			t.Fatal("nil encoder")
		}
	}
}

func TestSupported(t *testing.T) {
	if Supported(MimeOggOpus) {
		t.Error("opus should not be locally encodable")
	}
	if !Supported(MimeFlac) || !Supported(MimeWav) {
		t.Error("flac and wav must be supported")
	}
}

func TestExtension(t *testing.T) {
	for _, tt := range []struct{ mime, want string }{
		{MimeOggOpus, "ogg"},
		{"audio/ogg", "ogg"},
		{MimeWebmOpus, "webm"},
		{MimeWebm, "webm"},
		{MimeFlac, "flac"},
		{MimeWav, "wav"},
		{"audio/unknown", "webm"},
	} {
		t.Run(tt.mime, func(t *testing.T) {
			if got := Extension(tt.mime); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.mime, got, tt.want)
			}
		})
	}
}

func TestMimeForExtension(t *testing.T) {
	for _, tt := range []struct{ ext, want string }{
		{".ogg", "audio/ogg"},
		{"webm", MimeWebm},
		{".FLAC", MimeFlac},
		{".wav", MimeWav},
		{".mp3", "audio/mpeg"},
		{".xyz", "application/octet-stream"},
	} {
		if got := MimeForExtension(tt.ext); got != tt.want {
			t.Errorf("MimeForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestWavEncoderHeader(t *testing.T) {
	enc, err := NewWav()
	if err != nil {
		t.Fatalf("NewWav: %v", err)
	}

	samples := sineSamples(BlockSize + BlockSize/2)
	if err := enc.EncodeBlock(samples[:BlockSize]); err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	if err := enc.EncodeBlock(samples[BlockSize:]); err != nil {
		t.Fatalf("EncodeBlock: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data := enc.Bytes()
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	dataSize := binary.LittleEndian.Uint32(data[40:44])
	if int(dataSize) != len(samples)*2 {
		t.Errorf("data chunk size = %d, want %d", dataSize, len(samples)*2)
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != SampleRate {
		t.Errorf("sample rate = %d, want %d", rate, SampleRate)
	}
	if enc.TotalFrames() != uint64(len(samples)) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), len(samples))
	}
}

func TestWavEncoderCloseIdempotent(t *testing.T) {
	enc, _ := NewWav()
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if len(enc.Bytes()) != 44 {
		t.Errorf("empty wav length = %d, want header only", len(enc.Bytes()))
	}
}
