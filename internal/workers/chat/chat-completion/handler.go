// internal/workers/chat/chat-completion/handler.go
package chatcompletion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nanolez-eduai/internal/ai"
	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "chat-completion"
)

type Handler struct {
	config     *Config
	ai         ai.Caller
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, caller ai.Caller, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		ai:         caller,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req, err := buildRequest(input.Messages)
	if err != nil {
		return nil, err
	}

	text, err := h.ai.Call(ctx, req)
	if err != nil {
		return nil, ai.AsStandardError(err)
	}
	return &Output{Content: text}, nil
}

// buildRequest folds system messages into the system prompt, sends the last
// user message as the prompt and everything before it as history.
func buildRequest(messages []ai.Message) (ai.Request, error) {
	last := -1
	for i, m := range messages {
		if m.Role == RoleUser && strings.TrimSpace(m.Content) != "" {
			last = i
		}
	}
	if last < 0 {
		return ai.Request{}, apperrors.NewInvalidRequestError("messages must contain a user message")
	}

	var system []string
	history := []ai.Message{}
	for _, m := range messages[:last] {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleUser, RoleAssistant:
			history = append(history, m)
		default:
			return ai.Request{}, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown message role %q", m.Role))
		}
	}
	for _, m := range messages[last+1:] {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
		}
	}

	return ai.Request{
		Prompt:       messages[last].Content,
		SystemPrompt: strings.Join(system, "\n\n"),
		History:      history,
	}, nil
}
