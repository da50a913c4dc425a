package backend

import (
	"context"
	"fmt"

	"voxidea/draft"
)

// TranscribeResponse is the speech-to-text result for an uploaded clip.
// DialectHint is a backend-supplied guess at the spoken variant and is
// passed through unmodified on later calls.
type TranscribeResponse struct {
	Transcript  string `json:"transcript"`
	Language    string `json:"language"`
	DialectHint string `json:"dialect_hint,omitempty"`
}

type ExtractRequest struct {
	Text         string `json:"text"`
	LanguageHint string `json:"language_hint,omitempty"`
	DialectHint  string `json:"dialect_hint,omitempty"`
}

type ClarifyRequest struct {
	Draft       draft.Idea `json:"draft"`
	AnswersText string     `json:"answers_text"`
	Questions   []string   `json:"questions"`
}

type SubmitRequest struct {
	Transcript  string     `json:"transcript,omitempty"`
	Language    string     `json:"language,omitempty"`
	DialectHint string     `json:"dialect_hint,omitempty"`
	Draft       draft.Idea `json:"draft"`
}

type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RemoteError is any non-2xx backend response, carrying the status code and
// raw body text for display.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Body)
}

// API is the backend surface the UI talks to. No call retries; every
// failure is reported once and left to the user.
type API interface {
	Transcribe(ctx context.Context, filename string, data []byte, mime string) (*TranscribeResponse, error)
	Extract(ctx context.Context, req ExtractRequest) (*draft.Extraction, error)
	Clarify(ctx context.Context, req ClarifyRequest) (*draft.Extraction, error)
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
}
