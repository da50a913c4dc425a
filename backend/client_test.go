package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"voxidea/draft"
)

func TestTranscribeMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voice/transcribe" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "idea.flac" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "audio-bytes" {
			t.Errorf("file body = %q", data)
		}
		json.NewEncoder(w).Encode(TranscribeResponse{
			Transcript:  "my idea",
			Language:    "ar",
			DialectHint: "arabic",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Transcribe(context.Background(), "idea.flac", []byte("audio-bytes"), "audio/flac")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if resp.Transcript != "my idea" || resp.Language != "ar" || resp.DialectHint != "arabic" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestExtractRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voice/extract" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "build a bot" || req.LanguageHint != "en" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(draft.Extraction{
			Draft:         draft.Idea{Title: "Bot"},
			FieldMeta:     map[string]draft.FieldMeta{"title": {Status: draft.StatusGuessed, Confidence: 0.6}},
			MissingFields: []string{"summary"},
			Questions:     []string{"Can you summarize the idea?"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ext, err := c.Extract(context.Background(), ExtractRequest{Text: "build a bot", LanguageHint: "en"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ext.Draft.Title != "Bot" || len(ext.Questions) != 1 {
		t.Errorf("unexpected extraction: %+v", ext)
	}
	if ext.FieldMeta["title"].Status != draft.StatusGuessed {
		t.Errorf("field meta not decoded: %+v", ext.FieldMeta)
	}
}

func TestClarifySendsDraftAnswersQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ClarifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.AnswersText != "the title is Bot" || req.Draft.Summary != "s" || len(req.Questions) != 1 {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(draft.Extraction{Draft: draft.Idea{Title: "Bot", Summary: "s"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ext, err := c.Clarify(context.Background(), ClarifyRequest{
		Draft:       draft.Idea{Summary: "s"},
		AnswersText: "the title is Bot",
		Questions:   []string{"What title?"},
	})
	if err != nil {
		t.Fatalf("Clarify: %v", err)
	}
	if ext.Draft.Title != "Bot" {
		t.Errorf("unexpected draft: %+v", ext.Draft)
	}
}

func TestSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ideas" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(SubmitResponse{ID: "abc-123", Status: "submitted"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Submit(context.Background(), SubmitRequest{Draft: draft.Idea{Title: "t"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.ID != "abc-123" || resp.Status != "submitted" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestNon2xxSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":"Incomplete submission"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Submit(context.Background(), SubmitRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %T: %v", err, err)
	}
	if re.Status != 422 {
		t.Errorf("status = %d, want 422", re.Status)
	}
	if re.Body != `{"detail":"Incomplete submission"}` {
		t.Errorf("body = %q", re.Body)
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	c := New("http://example.com/")
	if c.BaseURL() != "http://example.com" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if New("").BaseURL() != DefaultBaseURL {
		t.Error("empty base should use default")
	}
}
