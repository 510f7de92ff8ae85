// Package ai calls the configured LLM providers in priority order, retrying
// each one on a fixed delay schedule before falling through to the next.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// ProviderKind identifies a slot in the fallback sequence.
type ProviderKind int

const (
	Primary ProviderKind = iota
	FastA
	FastB
	FastC
	Secondary
)

func (k ProviderKind) String() string {
	switch k {
	case Primary:
		return "primary"
	case FastA:
		return "fast-a"
	case FastB:
		return "fast-b"
	case FastC:
		return "fast-c"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("provider-%d", int(k))
	}
}

var (
	ErrConfiguration         = errors.New("PROVIDER_NOT_CONFIGURED")
	ErrProviderCallFailed    = errors.New("PROVIDER_CALL_FAILED")
	ErrEmptyResponse         = errors.New("EMPTY_RESPONSE")
	ErrMalformedResponse     = errors.New("MALFORMED_RESPONSE")
	ErrAllProvidersExhausted = errors.New("ALL_PROVIDERS_EXHAUSTED")
)

// Message is one turn of a chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion request. Prompt texts are opaque to this package.
type Request struct {
	Prompt       string
	SystemPrompt string
	JSONMode     bool
	// UseSearch asks providers that support it to ground the answer with web search.
	UseSearch bool
	// History is sent before Prompt by chat-shaped providers.
	History []Message
}

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeEmpty
	OutcomeFailed
	OutcomeMisconfigured
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	case OutcomeMisconfigured:
		return "misconfigured"
	default:
		return "unknown"
	}
}

// Result is what one adapter call produced. Err is nil only for OutcomeSuccess.
type Result struct {
	Outcome    Outcome
	Text       string
	StatusCode int
	Err        error
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

func succeeded(text string) Result {
	return Result{Outcome: OutcomeSuccess, Text: text}
}

func empty(reason string) Result {
	return Result{Outcome: OutcomeEmpty, Err: fmt.Errorf("%w: %s", ErrEmptyResponse, reason)}
}

func failed(status int, err error) Result {
	return Result{Outcome: OutcomeFailed, StatusCode: status, Err: err}
}

func misconfigured(name string) Result {
	return Result{Outcome: OutcomeMisconfigured, Err: fmt.Errorf("%w: %s API key not configured", ErrConfiguration, name)}
}

// Adapter performs one call against one provider endpoint.
type Adapter interface {
	Complete(ctx context.Context, req Request) Result
}

// AdapterFunc lets a plain function serve as an Adapter.
type AdapterFunc func(ctx context.Context, req Request) Result

func (f AdapterFunc) Complete(ctx context.Context, req Request) Result {
	return f(ctx, req)
}

// Provider is one entry of the fallback sequence.
type Provider struct {
	Kind    ProviderKind
	Name    string
	Adapter Adapter
	// MaxRetries overrides the controller's attempt budget when positive.
	MaxRetries int
}

// Caller is the contract the action workers depend on.
type Caller interface {
	Call(ctx context.Context, req Request) (string, error)
}
