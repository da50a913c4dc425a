package backend

import (
	"context"

	"voxidea/draft"
)

// Fake implements API with canned responses and call counters for tests.
type Fake struct {
	TranscribeResp *TranscribeResponse
	ExtractResp    *draft.Extraction
	ClarifyResp    *draft.Extraction
	SubmitResp     *SubmitResponse
	Err            error

	TranscribeCalls int
	ExtractCalls    int
	ClarifyCalls    int
	SubmitCalls     int
}

func (f *Fake) Transcribe(_ context.Context, _ string, _ []byte, _ string) (*TranscribeResponse, error) {
	f.TranscribeCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	if f.TranscribeResp != nil {
		return f.TranscribeResp, nil
	}
	return &TranscribeResponse{Transcript: "fake transcript", Language: "en"}, nil
}

func (f *Fake) Extract(_ context.Context, _ ExtractRequest) (*draft.Extraction, error) {
	f.ExtractCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	if f.ExtractResp != nil {
		return f.ExtractResp, nil
	}
	return &draft.Extraction{}, nil
}

func (f *Fake) Clarify(_ context.Context, _ ClarifyRequest) (*draft.Extraction, error) {
	f.ClarifyCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	if f.ClarifyResp != nil {
		return f.ClarifyResp, nil
	}
	return &draft.Extraction{}, nil
}

func (f *Fake) Submit(_ context.Context, _ SubmitRequest) (*SubmitResponse, error) {
	f.SubmitCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	if f.SubmitResp != nil {
		return f.SubmitResp, nil
	}
	return &SubmitResponse{ID: "fake-id", Status: "submitted"}, nil
}
