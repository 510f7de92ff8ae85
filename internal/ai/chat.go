package ai

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	maxTokensJSON = 4000
	maxTokensText = 2000
)

type ChatOptions struct {
	// Name is used in log lines and configuration errors, e.g. "Groq".
	Name        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

// ChatAdapter calls an OpenAI-compatible chat-completions endpoint. Groq and
// Mistral both speak this dialect.
type ChatAdapter struct {
	opts   ChatOptions
	client *openai.Client
}

func NewChatAdapter(opts ChatOptions, httpClient *http.Client) *ChatAdapter {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return &ChatAdapter{
		opts:   opts,
		client: openai.NewClientWithConfig(config),
	}
}

func (c *ChatAdapter) buildRequest(req Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, m := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	out := openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		Temperature: float32(c.opts.Temperature),
		MaxTokens:   maxTokensText,
	}
	if req.JSONMode {
		out.MaxTokens = maxTokensJSON
		out.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return out
}

func (c *ChatAdapter) Complete(ctx context.Context, req Request) Result {
	if strings.TrimSpace(c.opts.APIKey) == "" {
		return misconfigured(c.opts.Name)
	}

	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(req))
	if err != nil {
		return classifyChatError(err)
	}
	if len(resp.Choices) == 0 {
		return empty("no choices")
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return empty("blank message content")
	}
	return succeeded(text)
}

// classifyChatError separates HTTP and transport failures from bodies the
// client could not decode.
func classifyChatError(err error) Result {
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var urlErr *url.Error
	switch {
	case errors.As(err, &apiErr):
		return failed(apiErr.HTTPStatusCode, errors.Join(ErrProviderCallFailed, err))
	case errors.As(err, &reqErr):
		return failed(reqErr.HTTPStatusCode, errors.Join(ErrProviderCallFailed, err))
	case errors.As(err, &urlErr), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return failed(0, errors.Join(ErrProviderCallFailed, err))
	default:
		return failed(http.StatusOK, errors.Join(ErrMalformedResponse, err))
	}
}
