package ai

import (
	"fmt"
	"time"

	"nanolez-eduai/internal/common/config"
	commonhttp "nanolez-eduai/internal/common/http"
	"nanolez-eduai/internal/common/logger"
)

// NewProvidersFromConfig builds the fallback list in cfg.Order. Each provider
// id maps to exactly one ProviderKind.
func NewProvidersFromConfig(cfg config.ProvidersConfig, client *commonhttp.Client) ([]Provider, error) {
	order := cfg.Order
	if len(order) == 0 {
		order = config.DefaultProviderOrder
	}

	providers := make([]Provider, 0, len(order))
	for _, id := range order {
		p, err := newProvider(id, cfg, client)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func newProvider(id string, cfg config.ProvidersConfig, client *commonhttp.Client) (Provider, error) {
	groq := func(model string) Adapter {
		return NewChatAdapter(ChatOptions{
			Name:        "Groq",
			APIKey:      cfg.Groq.APIKey,
			BaseURL:     cfg.Groq.BaseURL,
			Model:       model,
			Temperature: cfg.Temperature,
		}, client.HTTPClient())
	}

	switch id {
	case config.ProviderGemini:
		return Provider{Kind: Primary, Name: id, Adapter: NewGeminiAdapter(GeminiOptions{
			APIKey:      cfg.Gemini.APIKey,
			BaseURL:     cfg.Gemini.BaseURL,
			Model:       cfg.Gemini.Model,
			Temperature: cfg.Temperature,
		}, client)}, nil
	case config.ProviderGroqLlama70B:
		return Provider{Kind: FastA, Name: id, Adapter: groq(cfg.Groq.Models.Llama70B)}, nil
	case config.ProviderGroqLlama8B:
		return Provider{Kind: FastB, Name: id, Adapter: groq(cfg.Groq.Models.Llama8B)}, nil
	case config.ProviderGroqMixtral:
		return Provider{Kind: FastC, Name: id, Adapter: groq(cfg.Groq.Models.Mixtral)}, nil
	case config.ProviderMistral:
		return Provider{Kind: Secondary, Name: id, Adapter: NewChatAdapter(ChatOptions{
			Name:        "Mistral",
			APIKey:      cfg.Mistral.APIKey,
			BaseURL:     cfg.Mistral.BaseURL,
			Model:       cfg.Mistral.Model,
			Temperature: cfg.Temperature,
		}, client.HTTPClient())}, nil
	default:
		return Provider{}, fmt.Errorf("unknown provider %q", id)
	}
}

// NewRetryControllerFromConfig converts the millisecond schedule.
func NewRetryControllerFromConfig(cfg config.ProvidersConfig, log logger.Logger) *RetryController {
	delays := make([]time.Duration, len(cfg.RetryDelays))
	for i, ms := range cfg.RetryDelays {
		delays[i] = config.GetDuration(ms)
	}
	rc := NewRetryController(cfg.MaxRetries, delays, log)
	rc.AttemptTimeout = config.GetDuration(cfg.RequestTimeout)
	return rc
}

// NewSequencerFromConfig wires the default provider chain with its own HTTP client.
func NewSequencerFromConfig(cfg config.ProvidersConfig, log logger.Logger) (*Sequencer, error) {
	client := commonhttp.NewClient(config.GetDuration(cfg.ConnectTimeout), config.GetDuration(cfg.RequestTimeout))
	providers, err := NewProvidersFromConfig(cfg, client)
	if err != nil {
		return nil, err
	}
	return NewSequencer(providers, NewRetryControllerFromConfig(cfg, log), log), nil
}
