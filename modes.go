package main

import (
	"time"

	"voxidea/draft"
)

// inputMode selects where the idea text comes from.
type inputMode int

const (
	modeRecord inputMode = iota
	modeUpload
	modeText
)

var modeOrder = []inputMode{modeRecord, modeUpload, modeText}

func (m inputMode) String() string {
	switch m {
	case modeRecord:
		return "record"
	case modeUpload:
		return "upload"
	case modeText:
		return "type"
	default:
		return "unknown"
	}
}

func (m inputMode) Label() string {
	switch m {
	case modeRecord:
		return "Record voice"
	case modeUpload:
		return "Upload audio"
	case modeText:
		return "Type text"
	default:
		return "Unknown"
	}
}

// captureState holds everything downstream of the input source: the raw
// clip, its transcript, and the extracted form. Switching input modes
// throws all of it away.
type captureState struct {
	clip       []byte
	clipMIME   string
	clipName   string
	clipLen    time.Duration
	transcript string
	language   string
	dialect    string
	form       draft.Form
	submitID   string
}

func (c *captureState) reset() {
	*c = captureState{}
}
