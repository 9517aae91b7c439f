package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytcomments/internal/engine"
	"github.com/anatolykoptev/go_ytcomments/internal/engine/comments"
)

func testClient(url string) *InnertubeClient {
	return &InnertubeClient{
		HTTPClient:    http.DefaultClient,
		URL:           url,
		ClientVersion: engine.DefaultClientVersion,
		Hl:            "en",
		Gl:            "US",
		UserAgent:     engine.UserAgentChrome,
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://example.com/watch?v=dQw4w9WgXcQ", ""},
		{"too-short", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVideoID(tt.in))
		})
	}
}

func TestNextRequestShape(t *testing.T) {
	var got map[string]any
	var header http.Header
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		query = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	raw, err := testClient(srv.URL).Next(context.Background(), "TOKEN", "")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
	assert.Equal(t, "prettyPrint=false", query)

	assert.Equal(t, "TOKEN", got["continuation"])
	client := got["context"].(map[string]any)["client"].(map[string]any)
	assert.Equal(t, "WEB", client["clientName"])
	assert.Equal(t, engine.DefaultClientVersion, client["clientVersion"])
	assert.Equal(t, "en", client["hl"])
	assert.Equal(t, "US", client["gl"])
	assert.Equal(t, float64(0), client["utcOffsetMinutes"])
	v, ok := client["visitorData"]
	assert.True(t, ok, "visitorData key must be present")
	assert.Nil(t, v, "unknown visitor data is sent as null")

	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "1", header.Get("X-Youtube-Client-Name"))
	assert.Equal(t, engine.DefaultClientVersion, header.Get("X-Youtube-Client-Version"))
	assert.Empty(t, header.Get("X-Goog-Visitor-Id"))
}

func TestNextSendsVisitorData(t *testing.T) {
	var got map[string]any
	var visitor string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		visitor = r.Header.Get("X-Goog-Visitor-Id")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Next(context.Background(), "TOKEN", "CgtWSVNJVE9S")
	require.NoError(t, err)
	client := got["context"].(map[string]any)["client"].(map[string]any)
	assert.Equal(t, "CgtWSVNJVE9S", client["visitorData"])
	assert.Equal(t, "CgtWSVNJVE9S", visitor)
}

func TestNextNon2xxIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("try later"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Next(context.Background(), "TOKEN", "")
	var te *comments.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	assert.Equal(t, "try later", te.Body)
	assert.True(t, te.Temporary())
	assert.Equal(t, int32(1), calls.Load())
}

func TestNextBodyOverCap(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at cap", ytMaxBody, false},
		{"over cap", ytMaxBody + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := bytes.Repeat([]byte(" "), tt.size)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(body)
			}))
			defer srv.Close()

			raw, err := testClient(srv.URL).Next(context.Background(), "TOKEN", "")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, raw, tt.size)
				return
			}
			var te *comments.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, http.StatusOK, te.StatusCode)
			assert.Contains(t, err.Error(), "exceeds")
		})
	}
}

func TestNextNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := testClient(url).Next(context.Background(), "TOKEN", "")
	var te *comments.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.StatusCode)
}

const watchNextFixture = `{
  "responseContext": {"visitorData": "VD123"},
  "contents": {"twoColumnWatchNextResults": {"results": {"results": {"contents": [
    {"videoPrimaryInfoRenderer": {}},
    {"itemSectionRenderer": {"sectionIdentifier": "related", "contents": [
      {"continuationItemRenderer": {"continuationEndpoint": {"continuationCommand": {"token": "WRONG"}}}}
    ]}},
    {"itemSectionRenderer": {"sectionIdentifier": "comment-item-section", "contents": [
      {"continuationItemRenderer": {"continuationEndpoint": {"continuationCommand": {"token": "SEED"}}}}
    ]}}
  ]}}}}
}`

func TestParseSeed(t *testing.T) {
	seed, ok := parseSeed([]byte(watchNextFixture))
	require.True(t, ok)
	assert.Equal(t, Seed{Token: "SEED", VisitorData: "VD123"}, seed)

	_, ok = parseSeed([]byte(`{"contents":{}}`))
	assert.False(t, ok)

	_, ok = parseSeed([]byte(`not json`))
	assert.False(t, ok)
}

func TestSeedRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(watchNextFixture))
	}))
	defer srv.Close()

	seed, err := testClient(srv.URL).Seed(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "SEED", seed.Token)
	assert.Equal(t, "dQw4w9WgXcQ", got["videoId"])
	_, hasToken := got["continuation"]
	assert.False(t, hasToken)
}

func TestSeedWithoutCommentSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"contents":{}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Seed(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, comments.ErrCommentsUnavailable)
}
