package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
)

// YouTube Innertube API — WEB client types and the /next HTTP primitive.
// Seed discovery and video ID parsing live in youtube_comments.go.

const (
	ytOrigin       = "https://www.youtube.com"
	ytMaxBody      = 8 << 20 // cap on a /next response body
	ytErrorSnippet = 256
)

// --- WEB client types (/next endpoint) ---

type ytNextReq struct {
	Context      ytWebCtx `json:"context"`
	Continuation string   `json:"continuation,omitempty"`
	VideoID      string   `json:"videoId,omitempty"`
}

type ytWebCtx struct {
	Client ytWebClient `json:"client"`
}

type ytWebClient struct {
	ClientName       string  `json:"clientName"`
	ClientVersion    string  `json:"clientVersion"`
	Hl               string  `json:"hl"`
	Gl               string  `json:"gl"`
	UTCOffsetMinutes int     `json:"utcOffsetMinutes"`
	VisitorData      *string `json:"visitorData"` // null until the server assigns one
}

// InnertubeClient posts WEB-client requests to the /next endpoint.
// It implements comments.Fetcher.
type InnertubeClient struct {
	HTTPClient    *http.Client
	URL           string
	ClientVersion string
	Hl            string
	Gl            string
	UserAgent     string
}

// NewInnertubeClient builds a client from engine.Cfg.
func NewInnertubeClient() *InnertubeClient {
	return &InnertubeClient{
		HTTPClient:    engine.Cfg.HTTPClient,
		URL:           engine.Cfg.NextURL,
		ClientVersion: engine.Cfg.ClientVersion,
		Hl:            engine.Cfg.Hl,
		Gl:            engine.Cfg.Gl,
		UserAgent:     engine.UserAgentChrome,
	}
}

var _ comments.Fetcher = (*InnertubeClient)(nil)

// webContext builds the WEB client context. Empty visitorData is sent as null.
func (c *InnertubeClient) webContext(visitorData string) ytWebCtx {
	client := ytWebClient{
		ClientName:    "WEB",
		ClientVersion: c.ClientVersion,
		Hl:            c.Hl,
		Gl:            c.Gl,
	}
	if visitorData != "" {
		client.VisitorData = &visitorData
	}
	return ytWebCtx{Client: client}
}

// Next requests one continuation page. Exactly one HTTP request is made;
// failures come back as *comments.TransportError.
func (c *InnertubeClient) Next(ctx context.Context, token, visitorData string) ([]byte, error) {
	payload := ytNextReq{Context: c.webContext(visitorData), Continuation: token}
	engine.IncrNextRequests()
	resp, err := c.post(ctx, payload, visitorData)
	if err != nil {
		return nil, &comments.TransportError{Err: err}
	}
	return readNextBody(resp)
}

// newRequest builds a POST with WEB client headers.
func (c *InnertubeClient) newRequest(ctx context.Context, body []byte, visitorData string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Youtube-Client-Name", "1")
	req.Header.Set("X-Youtube-Client-Version", c.ClientVersion)
	if visitorData != "" {
		req.Header.Set("X-Goog-Visitor-Id", visitorData)
	}
	req.Header.Set("Origin", ytOrigin)
	req.Header.Set("Referer", ytOrigin+"/")
	return req, nil
}

func (c *InnertubeClient) post(ctx context.Context, payload any, visitorData string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, body, visitorData)
	if err != nil {
		return nil, err
	}
	return c.HTTPClient.Do(req)
}

// readNextBody drains resp, mapping non-2xx statuses and oversized bodies to
// *comments.TransportError.
func readNextBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, ytErrorSnippet))
		return nil, &comments.TransportError{
			StatusCode: resp.StatusCode,
			Body:       engine.OneLine(string(snippet)),
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, ytMaxBody+1))
	if err != nil {
		return nil, &comments.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) > ytMaxBody {
		return nil, &comments.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("body exceeds %d bytes", ytMaxBody)}
	}
	return data, nil
}
