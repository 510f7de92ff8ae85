package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	commonhttp "nanolez-eduai/internal/common/http"
)

func newGeminiServer(t *testing.T, status int, body string, inspect func(r *http.Request, payload []byte)) (*httptest.Server, *int32) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		payload, _ := io.ReadAll(r.Body)
		if inspect != nil {
			inspect(r, payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestGemini(baseURL, key string) *GeminiAdapter {
	return NewGeminiAdapter(GeminiOptions{
		APIKey:      key,
		BaseURL:     baseURL,
		Model:       "gemini-test",
		Temperature: 0.7,
	}, commonhttp.NewClient(time.Second, 5*time.Second))
}

func TestGeminiAdapter_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload []byte
	srv, _ := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"{\"title\":\"Go\"}"}]}}]}`,
		func(r *http.Request, payload []byte) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("key")
			gotPayload = payload
		})

	res := newTestGemini(srv.URL, "secret").Complete(context.Background(), Request{
		Prompt:       "make a roadmap",
		SystemPrompt: "json only",
		JSONMode:     true,
		UseSearch:    true,
	})

	require.True(t, res.OK(), "unexpected result: %+v", res)
	assert.Equal(t, `{"title":"Go"}`, res.Text)
	assert.Equal(t, "/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)

	payload := gjson.ParseBytes(gotPayload)
	assert.Equal(t, "make a roadmap", payload.Get("contents.0.parts.0.text").String())
	assert.Equal(t, "json only", payload.Get("systemInstruction.parts.0.text").String())
	assert.Equal(t, "application/json", payload.Get("generationConfig.responseMimeType").String())
	assert.Equal(t, 0.7, payload.Get("generationConfig.temperature").Float())
	assert.True(t, payload.Get("tools.0.google_search").Exists())
}

func TestGeminiAdapter_TextModeOmitsOptionalFields(t *testing.T) {
	var gotPayload []byte
	srv, _ := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"plain"}]}}]}`,
		func(r *http.Request, payload []byte) { gotPayload = payload })

	res := newTestGemini(srv.URL, "secret").Complete(context.Background(), Request{Prompt: "hello"})

	require.True(t, res.OK())
	payload := gjson.ParseBytes(gotPayload)
	assert.Equal(t, "text/plain", payload.Get("generationConfig.responseMimeType").String())
	assert.False(t, payload.Get("systemInstruction").Exists())
	assert.False(t, payload.Get("tools").Exists())
}

func TestGeminiAdapter_HistoryMapsRoles(t *testing.T) {
	var gotPayload []byte
	srv, _ := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`,
		func(r *http.Request, payload []byte) { gotPayload = payload })

	res := newTestGemini(srv.URL, "secret").Complete(context.Background(), Request{
		Prompt: "and now?",
		History: []Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	})

	require.True(t, res.OK())
	payload := gjson.ParseBytes(gotPayload)
	assert.Equal(t, int64(3), payload.Get("contents.#").Int())
	assert.Equal(t, "model", payload.Get("contents.1.role").String())
	assert.Equal(t, "and now?", payload.Get("contents.2.parts.0.text").String())
}

func TestGeminiAdapter_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantOutcome Outcome
		wantErr     error
		wantStatus  int
	}{
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        `{"error":{"message":"boom"}}`,
			wantOutcome: OutcomeFailed,
			wantErr:     ErrProviderCallFailed,
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			body:        `{}`,
			wantOutcome: OutcomeFailed,
			wantErr:     ErrProviderCallFailed,
			wantStatus:  http.StatusTooManyRequests,
		},
		{
			name:        "unparsable body",
			status:      http.StatusOK,
			body:        `<html>oops</html>`,
			wantOutcome: OutcomeFailed,
			wantErr:     ErrMalformedResponse,
			wantStatus:  http.StatusOK,
		},
		{
			name:        "missing text path",
			status:      http.StatusOK,
			body:        `{"candidates":[]}`,
			wantOutcome: OutcomeEmpty,
			wantErr:     ErrEmptyResponse,
		},
		{
			name:        "blank text",
			status:      http.StatusOK,
			body:        `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`,
			wantOutcome: OutcomeEmpty,
			wantErr:     ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newGeminiServer(t, tt.status, tt.body, nil)

			res := newTestGemini(srv.URL, "secret").Complete(context.Background(), Request{Prompt: "x"})

			assert.Equal(t, tt.wantOutcome, res.Outcome)
			assert.True(t, errors.Is(res.Err, tt.wantErr), "got %v", res.Err)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Empty(t, res.Text)
		})
	}
}

func TestGeminiAdapter_MissingKeyMakesNoCall(t *testing.T) {
	srv, hits := newGeminiServer(t, http.StatusOK, `{}`, nil)

	res := newTestGemini(srv.URL, " ").Complete(context.Background(), Request{Prompt: "x"})

	assert.Equal(t, OutcomeMisconfigured, res.Outcome)
	assert.True(t, errors.Is(res.Err, ErrConfiguration))
	assert.Contains(t, res.Err.Error(), "Gemini API key not configured")
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestGeminiAdapter_TransportError(t *testing.T) {
	srv, _ := newGeminiServer(t, http.StatusOK, `{}`, nil)
	url := srv.URL
	srv.Close()

	res := newTestGemini(url, "secret").Complete(context.Background(), Request{Prompt: "x"})

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.True(t, errors.Is(res.Err, ErrProviderCallFailed))
}
