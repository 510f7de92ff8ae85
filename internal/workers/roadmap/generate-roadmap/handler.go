// internal/workers/roadmap/generate-roadmap/handler.go
package generateroadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nanolez-eduai/internal/ai"
	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "generate-roadmap"
)

// RoadmapSaver persists generated roadmaps.
type RoadmapSaver interface {
	Save(ctx context.Context, userID string, roadmap *models.Roadmap) error
}

type Handler struct {
	config     *Config
	ai         ai.Caller
	repo       RoadmapSaver
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
	now        func() time.Time
}

// NewHandler builds the handler. repo may be nil when persistence is disabled.
func NewHandler(config *Config, caller ai.Caller, repo RoadmapSaver, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		ai:         caller,
		repo:       repo,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

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

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Goal == "" {
		return nil, apperrors.NewInvalidRequestError("goal is required")
	}
	if input.Structured && input.Level == "" {
		input.Level = input.Intensity
	}

	roadmap, err := h.generate(ctx, input)
	if err != nil {
		if !errors.Is(err, ai.ErrAllProvidersExhausted) || !h.config.FallbackTemplates {
			return nil, err
		}
		h.logger.Warn("providers exhausted, using template roadmap", map[string]interface{}{
			"goal":  input.Goal,
			"error": err.Error(),
		})
		roadmap = &models.Roadmap{
			Title:  fmt.Sprintf("%s Learning Roadmap", input.Goal),
			Months: templateMonths(input.Goal, input.Level, templateMonthCount(input.Duration)),
		}
	}

	roadmap.ID = uuid.NewString()
	roadmap.Goal = input.Goal
	roadmap.Duration = input.Duration.String()
	roadmap.Level = input.Level
	roadmap.Language = input.Language
	roadmap.Progress = 0
	roadmap.Meta = models.RoadmapMeta{
		Goal:      input.Goal,
		Duration:  input.Duration.String(),
		StudyTime: input.StudyTime.String(),
		Intensity: input.Intensity,
	}
	roadmap.CreatedAt = h.now().UTC()
	roadmap.Normalize()

	if h.repo != nil {
		if err := h.repo.Save(ctx, input.UserID, roadmap); err != nil {
			h.logger.Warn("failed to persist roadmap", map[string]interface{}{
				"roadmapId": roadmap.ID,
				"error":     err.Error(),
			})
		}
	}

	h.logger.Info("roadmap generated", map[string]interface{}{
		"roadmapId": roadmap.ID,
		"generated": roadmap.Generated,
		"days":      roadmap.DayCount(),
	})
	return roadmap, nil
}

func (h *Handler) generate(ctx context.Context, input *Input) (*models.Roadmap, error) {
	req := ai.Request{
		Prompt:       buildPrompt(input),
		SystemPrompt: systemPrompt,
		JSONMode:     true,
	}
	if input.Structured {
		req.Prompt = buildStructuredPrompt(input)
		req.SystemPrompt = structuredSystemPrompt
	}

	text, err := h.ai.Call(ctx, req)
	if err != nil {
		return nil, ai.AsStandardError(err)
	}

	doc, ok := ai.ExtractJSON(text)
	if !ok {
		return nil, apperrors.NewInvalidAIResponseError("roadmap is not a JSON object", nil)
	}
	var g generated
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return nil, apperrors.NewInvalidAIResponseError("roadmap does not match the expected shape", err)
	}
	if g.Title == "" {
		if input.Structured {
			return nil, apperrors.NewInvalidAIResponseError("roadmap has no title", nil)
		}
		g.Title = fmt.Sprintf("%s Learning Roadmap", input.Goal)
	}
	return &models.Roadmap{Title: g.Title, Months: g.Months, Generated: true}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}
