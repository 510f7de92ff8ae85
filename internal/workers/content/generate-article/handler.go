// internal/workers/content/generate-article/handler.go
package generatearticle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nanolez-eduai/internal/ai"
	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/models"
	"nanolez-eduai/internal/resources"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "generate-article"
)

type Handler struct {
	config     *Config
	ai         ai.Caller
	enhancer   *resources.Enhancer
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, caller ai.Caller, enhancer *resources.Enhancer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	if enhancer == nil {
		enhancer = resources.NewEnhancer(l)
	}
	return &Handler{
		config:     config,
		ai:         caller,
		enhancer:   enhancer,
		logger:     l,
		errHandler: apperrors.NewErrorHandler(l),
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
	if input.Topic == "" {
		return nil, apperrors.NewInvalidRequestError("topic is required")
	}

	article, err := h.generate(ctx, input)
	if err != nil {
		if !errors.Is(err, ai.ErrAllProvidersExhausted) || !h.config.FallbackTemplates {
			return nil, err
		}
		h.logger.Warn("providers exhausted, using template article", map[string]interface{}{
			"topic": input.Topic,
			"error": err.Error(),
		})
		article = templateArticle(input)
	}

	article.ID = uuid.NewString()
	if article.Sections == nil {
		article.Sections = []models.ArticleSection{}
	}
	article.ExternalResource = h.checkResource(article.ExternalResource, input)
	return article, nil
}

func (h *Handler) generate(ctx context.Context, input *Input) (*models.Article, error) {
	text, err := h.ai.Call(ctx, ai.Request{
		Prompt:       buildPrompt(input),
		SystemPrompt: systemPrompt,
		JSONMode:     true,
	})
	if err != nil {
		return nil, ai.AsStandardError(err)
	}

	doc, ok := ai.ExtractJSON(text)
	if !ok {
		return nil, apperrors.NewInvalidAIResponseError("article is not a JSON object", nil)
	}
	var g generated
	if err := json.Unmarshal([]byte(doc), &g); err != nil {
		return nil, apperrors.NewInvalidAIResponseError("article does not match the expected shape", err)
	}

	article := &models.Article{
		Title:     g.Title,
		Summary:   g.Summary,
		Sections:  g.Sections,
		Generated: true,
	}
	if article.Title == "" {
		article.Title = input.Topic + " - Comprehensive Guide"
	}
	if article.Summary == "" {
		article.Summary = fmt.Sprintf("A detailed guide covering %s with practical examples.", input.Topic)
	}
	if g.ExternalResource != nil {
		article.ExternalResource = *g.ExternalResource
	} else {
		article.ExternalResource = models.ExternalResource{
			Title:  "Learn More About " + input.Topic,
			URL:    "https://www.khanacademy.org/",
			Source: "Khan Academy",
		}
	}
	return article, nil
}

// checkResource swaps an untrusted external link for the topic's verified platform.
func (h *Handler) checkResource(r models.ExternalResource, input *Input) models.ExternalResource {
	res := h.enhancer.Article(&resources.Resource{Title: r.Title, URL: r.URL}, input.Topic, input.Language)
	if !res.Substituted {
		return r
	}
	return models.ExternalResource{
		Title:       res.Title,
		URL:         res.URL,
		Source:      res.Platform,
		Substituted: true,
	}
}
