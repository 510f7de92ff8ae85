// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanolez-eduai/internal/ai"
	"nanolez-eduai/internal/api"
	"nanolez-eduai/internal/common/config"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/ratelimit"
	"nanolez-eduai/pkg/registry"
)

const roadmapJSON = `{"title":"Go Mastery","months":[{"name":"Foundations","overview":"Basics","weeks":[{"name":"Week 1","goal":"Syntax","days":[{"day":1,"topic":"Types","task":"Write a program"}]}]}]}`

const articleJSON = `{
  "title": "Understanding Goroutines",
  "subtitle": "Concurrency in Go",
  "deepDive": "Goroutines are lightweight threads.",
  "technicalConcepts": [{"term": "channel", "explanation": "typed conduit"}],
  "steps": ["Start a goroutine", "Use a channel"],
  "practiceLab": "Build a worker pool.",
  "resources": {
    "article": {"title": "Go Tour", "url": "https://www.freecodecamp.org/news/golang-concurrency/", "platform": "freeCodeCamp"},
    "video": {"title": "Goroutines", "url": "https://www.youtube.com/results?search_query=goroutines", "platform": "YouTube"}
  }
}`

// fakeProviders stands in for the Gemini and OpenAI-compatible APIs.
type fakeProviders struct {
	gemini      *httptest.Server
	groq        *httptest.Server
	geminiCalls atomic.Int32
	groqCalls   atomic.Int32
	groqStatus  int
	groqReply   func(messages []map[string]string) string
}

func newFakeProviders(t *testing.T) *fakeProviders {
	f := &fakeProviders{groqStatus: http.StatusOK}

	f.gemini = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.geminiCalls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(f.gemini.Close)

	f.groq = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.groqCalls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if f.groqStatus != http.StatusOK {
			w.WriteHeader(f.groqStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			return
		}
		var req struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		content := roadmapJSON
		if f.groqReply != nil {
			content = f.groqReply(req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(f.groq.Close)

	return f
}

func newServer(t *testing.T, f *fakeProviders, templates bool) http.Handler {
	t.Helper()
	log := logger.NewTestLogger(t)

	cfg := &config.Config{
		Providers: config.ProvidersConfig{
			Gemini: config.GeminiConfig{APIKey: "gemini-key", BaseURL: f.gemini.URL, Model: "gemini-test"},
			Groq: config.GroqConfig{
				APIKey:  "groq-key",
				BaseURL: f.groq.URL,
			},
			Order:          []string{config.ProviderGemini, config.ProviderGroqLlama70B, config.ProviderMistral},
			MaxRetries:     2,
			RetryDelays:    []int{1},
			ConnectTimeout: 1000,
			RequestTimeout: 5000,
		},
		Generation: config.GenerationConfig{FallbackTemplates: templates},
	}
	cfg.Providers.Groq.Models.Llama70B = "llama-70b"

	sequencer, err := ai.NewSequencerFromConfig(cfg.Providers, log)
	require.NoError(t, err)

	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 0, log)
	router := api.NewRouter(api.Config{ServiceName: "eduai-e2e"}, registry.Default(), limiter, nil, log)
	router.RegisterHandlers(api.NewHandlers(cfg, sequencer, nil, log))
	return router.Handler()
}

func call(t *testing.T, h http.Handler, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestGenerateRoadmap_FallsBackToNextProvider(t *testing.T) {
	f := newFakeProviders(t)
	h := newServer(t, f, false)

	code, out := call(t, h, `{"action":"generateRoadmap","data":{"goal":"Learn Go","duration":"1 Month","level":"Beginner","language":"en"}}`)
	require.Equal(t, http.StatusOK, code, out)

	result := out["result"].(map[string]interface{})
	assert.Equal(t, "Go Mastery", result["title"])
	assert.Equal(t, "Learn Go", result["goal"])
	assert.Equal(t, true, result["generated"])
	assert.NotEmpty(t, result["id"])

	// Gemini used its whole budget before the chain moved on.
	assert.Equal(t, int32(2), f.geminiCalls.Load())
	assert.Equal(t, int32(1), f.groqCalls.Load())
}

func TestGenerateRoadmap_AllProvidersExhausted(t *testing.T) {
	t.Run("error without templates", func(t *testing.T) {
		f := newFakeProviders(t)
		f.groqStatus = http.StatusTooManyRequests
		h := newServer(t, f, false)

		code, out := call(t, h, `{"action":"generateRoadmap","data":{"goal":"Learn Go"}}`)
		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, "ALL_PROVIDERS_EXHAUSTED", out["code"])
		assert.Equal(t, int32(2), f.geminiCalls.Load())
		assert.Equal(t, int32(2), f.groqCalls.Load())
	})

	t.Run("template when enabled", func(t *testing.T) {
		f := newFakeProviders(t)
		f.groqStatus = http.StatusInternalServerError
		h := newServer(t, f, true)

		code, out := call(t, h, `{"action":"generateRoadmap","data":{"goal":"Learn Go","duration":"3 Months","level":"Beginner"}}`)
		require.Equal(t, http.StatusOK, code, out)
		result := out["result"].(map[string]interface{})
		assert.Equal(t, false, result["generated"])
		assert.Len(t, result["months"], 3)
	})
}

func TestChat_UsesLastUserMessage(t *testing.T) {
	f := newFakeProviders(t)
	var seen []map[string]string
	f.groqReply = func(messages []map[string]string) string {
		seen = messages
		return "Goroutines are cheap."
	}
	h := newServer(t, f, false)

	code, out := call(t, h, `{"action":"chat","data":{"messages":[
		{"role":"system","content":"Be brief."},
		{"role":"user","content":"What is Go?"},
		{"role":"assistant","content":"A language."},
		{"role":"user","content":"And goroutines?"}]}}`)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, map[string]interface{}{"content": "Goroutines are cheap."}, out["result"])

	require.Len(t, seen, 4)
	assert.Equal(t, "system", seen[0]["role"])
	assert.Equal(t, "Be brief.", seen[0]["content"])
	assert.Equal(t, "And goroutines?", seen[3]["content"])
}

func TestFetchArticle_ValidatesResources(t *testing.T) {
	f := newFakeProviders(t)
	f.groqReply = func([]map[string]string) string { return articleJSON }
	h := newServer(t, f, false)

	code, out := call(t, h, `{"action":"fetch_article","userId":"u-1","data":{"topic":"Go Concurrency","task":"Learn goroutines","language":"en","roadmapId":"rm-1","isFirstArticle":true}}`)
	require.Equal(t, http.StatusOK, code, out)
	assert.Equal(t, true, out["success"])

	data := out["data"].(map[string]interface{})
	assert.Equal(t, "Understanding Goroutines", data["title"])
	assert.Equal(t, "rm-1-go-concurrency", data["dayId"])

	res := data["resources"].(map[string]interface{})
	article := res["article"].(map[string]interface{})
	assert.Equal(t, "https://www.freecodecamp.org/news/golang-concurrency/", article["url"])
}

func TestValidateURL(t *testing.T) {
	f := newFakeProviders(t)
	h := newServer(t, f, false)

	code, out := call(t, h, `{"action":"validate_url","data":{"url":"https://developer.mozilla.org/en-US/docs/Web"}}`)
	require.Equal(t, http.StatusOK, code, out)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, true, data["valid"])
	assert.Zero(t, f.geminiCalls.Load())
}

func TestRequestValidation(t *testing.T) {
	f := newFakeProviders(t)
	h := newServer(t, f, false)

	code, out := call(t, h, `{"action":"generateRoadmap","data":{"goal":""}}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", out["code"])

	code, out = call(t, h, `{"action":"unknownThing","data":{}}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "UNKNOWN_ACTION", out["code"])

	assert.Zero(t, f.geminiCalls.Load())
}
