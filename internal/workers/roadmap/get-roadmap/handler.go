// internal/workers/roadmap/get-roadmap/handler.go
package getroadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/models"
	"nanolez-eduai/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-roadmap"
)

type RoadmapGetter interface {
	Get(ctx context.Context, id string) (*models.Roadmap, error)
}

type Handler struct {
	config     *Config
	repo       RoadmapGetter
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, repo RoadmapGetter, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		repo:       repo,
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
	if h.repo == nil {
		return nil, apperrors.NewConfigurationError("roadmap storage is not enabled")
	}
	if input.RoadmapID == "" {
		return nil, apperrors.NewInvalidRequestError("roadmapId is required")
	}

	roadmap, err := h.repo.Get(ctx, input.RoadmapID)
	if errors.Is(err, store.ErrRoadmapNotFound) {
		return nil, apperrors.NewRoadmapNotFoundError(input.RoadmapID)
	}
	if err != nil {
		h.logger.Error("roadmap lookup failed", map[string]interface{}{
			"roadmapId": input.RoadmapID,
			"error":     err.Error(),
		})
		return nil, apperrors.NewDatabaseQueryFailedError(err)
	}
	return roadmap, nil
}
