package main

import (
	"time"

	"voxidea/backend"
	"voxidea/draft"
	"voxidea/history"
	"voxidea/recorder"
)

// Messages delivered to the TUI model. Every message produced by an
// asynchronous command carries the generation counter of the capture
// state it belongs to; results from a torn-down state are discarded.

type recStartedMsg struct {
	gen  int
	sess *recorder.Session
}

type recTickMsg struct {
	gen     int
	seconds int
}

type recLevelMsg struct {
	gen   int
	level float64
}

type clipReadyMsg struct {
	gen  int
	clip recorder.Clip
}

type clipLoadedMsg struct {
	gen  int
	name string
	mime string
	data []byte
	size int64
}

type transcribedMsg struct {
	gen  int
	resp *backend.TranscribeResponse
}

type extractedMsg struct {
	gen int
	ex  *draft.Extraction
}

type clarifiedMsg struct {
	gen int
	ex  *draft.Extraction
}

type submittedMsg struct {
	gen  int
	resp *backend.SubmitResponse
}

type apiErrMsg struct {
	gen int
	op  string
	err error
}

type historyMsg struct {
	subs []history.Submission
}

type noticeExpireMsg struct{ at time.Time }

type uiTickMsg time.Time

type clipboardMsg struct{ err error }

// clipSavedMsg reports the result of writing the captured audio to disk.
type clipSavedMsg struct {
	path string
	err  error
}
