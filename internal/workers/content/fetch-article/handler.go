// internal/workers/content/fetch-article/handler.go
package fetcharticle

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nanolez-eduai/internal/ai"
	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/resources"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/tidwall/gjson"
)

const (
	TaskType = "fetch-article"
)

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

type Handler struct {
	config     *Config
	ai         ai.Caller
	enhancer   *resources.Enhancer
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
	now        func() time.Time
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

	prompt := resources.EnhanceResourcePrompt(buildPrompt(input), input.Topic, input.Language, input.IsFirstArticle)
	text, err := h.ai.Call(ctx, ai.Request{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		JSONMode:     true,
		UseSearch:    true,
	})
	if err != nil {
		return nil, ai.AsStandardError(err)
	}

	doc, ok := ai.ExtractJSON(text)
	if !ok {
		return nil, apperrors.NewInvalidAIResponseError("Invalid JSON response from AI", nil)
	}
	parsed := gjson.Parse(doc)

	enhanced := h.enhancer.ValidateAndEnhance(
		resources.Resources{
			Article: resourceAt(parsed, "resources.article"),
			Video:   resourceAt(parsed, "resources.video"),
		},
		input.Topic, input.Language, input.IsFirstArticle,
	)

	out := &Output{
		Title:             stringOr(parsed.Get("title"), input.Topic),
		Subtitle:          parsed.Get("subtitle").String(),
		DeepDive:          parsed.Get("deepDive").String(),
		TechnicalConcepts: concepts(parsed.Get("technicalConcepts")),
		Steps:             steps(parsed.Get("steps")),
		PracticeLab:       parsed.Get("practiceLab").String(),
		Resources:         enhanced,
		ResourceValidation: ResourceValidation{
			ArticleStatus:  enhanced.Article.Status,
			VideoStatus:    enhanced.Video.Status,
			ValidatedAt:    h.now().UTC().Format(time.RFC3339),
			IsFirstArticle: input.IsFirstArticle,
		},
		DayID: DayID(input.RoadmapID, input.Topic),
		Topic: input.Topic,
		Task:  input.Task,
	}

	h.logger.Info("article fetched", map[string]interface{}{
		"dayId":           out.DayID,
		"articleReplaced": enhanced.Article.Substituted,
		"videoReplaced":   enhanced.Video.Substituted,
		"conceptCount":    len(out.TechnicalConcepts),
		"isFirstArticle":  input.IsFirstArticle,
	})
	return out, nil
}

// DayID keys a lesson by roadmap and topic: "rm-1" and "Go Basics!" give "rm-1-go-basics-".
func DayID(roadmapID, topic string) string {
	return roadmapID + "-" + strings.ToLower(slugPattern.ReplaceAllString(topic, "-"))
}

func resourceAt(doc gjson.Result, path string) *resources.Resource {
	r := doc.Get(path)
	if !r.IsObject() {
		return nil
	}
	return &resources.Resource{
		Title: r.Get("title").String(),
		URL:   strings.TrimSpace(r.Get("url").String()),
	}
}

func stringOr(r gjson.Result, def string) string {
	if s := strings.TrimSpace(r.String()); s != "" {
		return s
	}
	return def
}

func concepts(r gjson.Result) []TechnicalConcept {
	out := []TechnicalConcept{}
	if !r.IsArray() {
		return out
	}
	for _, v := range r.Array() {
		if v.IsObject() {
			out = append(out, TechnicalConcept{
				Term:        v.Get("term").String(),
				Explanation: v.Get("explanation").String(),
			})
		}
	}
	return out
}

func steps(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}
