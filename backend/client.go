// Package backend shapes HTTP requests to the idea-submission service and
// decodes its responses. Transcription, extraction, and clarification all
// happen server-side; this client only moves bytes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"voxidea/draft"
	"voxidea/log"
)

const DefaultBaseURL = "http://localhost:8000"

type Client struct {
	base   string
	client *TracedClient
}

func New(base string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		client: NewTracedClient(),
	}
}

func (c *Client) BaseURL() string { return c.base }

// Warm pre-opens a connection to the backend.
func (c *Client) Warm() {
	go c.client.Warm(c.base + "/health")
}

// Transcribe uploads an audio clip and returns its transcript.
func (c *Client) Transcribe(ctx context.Context, filename string, data []byte, mime string) (*TranscribeResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/voice/transcribe", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out TranscribeResponse
	if err := c.do(req, "/v1/voice/transcribe", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Extract sends free text to the backend and returns the structured draft.
func (c *Client) Extract(ctx context.Context, reqBody ExtractRequest) (*draft.Extraction, error) {
	var out draft.Extraction
	if err := c.postJSON(ctx, "/v1/voice/extract", reqBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clarify round-trips the current draft plus free-text answers and returns
// the backend's replacement draft.
func (c *Client) Clarify(ctx context.Context, reqBody ClarifyRequest) (*draft.Extraction, error) {
	var out draft.Extraction
	if err := c.postJSON(ctx, "/v1/voice/clarify", reqBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit files the finished idea and returns the assigned identifier.
func (c *Client) Submit(ctx context.Context, reqBody SubmitRequest) (*SubmitResponse, error) {
	var out SubmitResponse
	if err := c.postJSON(ctx, "/v1/ideas", reqBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks backend reachability. Used by doctor only.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, "/health", nil)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	log.RequestMetrics(endpoint, resp.StatusCode, log.RequestTimings{
		DNSMs:      float64(resp.Metrics.DNS.Milliseconds()),
		TLSMs:      float64(resp.Metrics.TLS.Milliseconds()),
		TTFBMs:     float64(resp.Metrics.TTFB.Milliseconds()),
		TotalMs:    float64(resp.Metrics.Total.Milliseconds()),
		ConnReused: resp.Metrics.ConnReused,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(string(resp.Body))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", endpoint, err)
	}
	return nil
}
