package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	commonhttp "nanolez-eduai/internal/common/http"
)

const geminiTextPath = "candidates.0.content.parts.0.text"

type GeminiOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// GeminiAdapter talks to the generateContent endpoint of the Gemini API.
type GeminiAdapter struct {
	opts   GeminiOptions
	client *commonhttp.Client
}

func NewGeminiAdapter(opts GeminiOptions, client *commonhttp.Client) *GeminiAdapter {
	return &GeminiAdapter{opts: opts, client: client}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type geminiTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type geminiPayload struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
	Tools             []geminiTool           `json:"tools,omitempty"`
}

func (g *GeminiAdapter) buildPayload(req Request) geminiPayload {
	payload := geminiPayload{
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "text/plain",
			Temperature:      g.opts.Temperature,
		},
	}
	if req.JSONMode {
		payload.GenerationConfig.ResponseMimeType = "application/json"
	}
	for _, m := range req.History {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	if len(req.History) > 0 {
		payload.Contents = append(payload.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}})
	} else {
		payload.Contents = []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}}
	}
	if req.SystemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	if req.UseSearch {
		payload.Tools = []geminiTool{{}}
	}
	return payload
}

func (g *GeminiAdapter) endpoint() string {
	base := strings.TrimSuffix(g.opts.BaseURL, "/")
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, g.opts.Model, url.QueryEscape(g.opts.APIKey))
}

func (g *GeminiAdapter) Complete(ctx context.Context, req Request) Result {
	if strings.TrimSpace(g.opts.APIKey) == "" {
		return misconfigured("Gemini")
	}

	body, err := json.Marshal(g.buildPayload(req))
	if err != nil {
		return failed(0, fmt.Errorf("%w: encode payload: %v", ErrProviderCallFailed, err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return failed(0, fmt.Errorf("%w: %v", ErrProviderCallFailed, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return failed(0, fmt.Errorf("%w: %v", ErrProviderCallFailed, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(resp.StatusCode, fmt.Errorf("%w: read body: %v", ErrProviderCallFailed, err))
	}
	if resp.StatusCode != http.StatusOK {
		return failed(resp.StatusCode, fmt.Errorf("%w: HTTP %d", ErrProviderCallFailed, resp.StatusCode))
	}
	if !gjson.ValidBytes(raw) {
		return failed(resp.StatusCode, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse))
	}

	text := gjson.GetBytes(raw, geminiTextPath)
	if !text.Exists() {
		return empty("no candidate text")
	}
	if strings.TrimSpace(text.String()) == "" {
		return empty("blank candidate text")
	}
	return succeeded(text.String())
}
