package api

import (
	"context"
	"time"

	"nanolez-eduai/internal/ai"
	"nanolez-eduai/internal/common/config"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/resources"
	"nanolez-eduai/internal/store"
	chatcompletion "nanolez-eduai/internal/workers/chat/chat-completion"
	fetcharticle "nanolez-eduai/internal/workers/content/fetch-article"
	generatearticle "nanolez-eduai/internal/workers/content/generate-article"
	validateurl "nanolez-eduai/internal/workers/resources/validate-url"
	generateroadmap "nanolez-eduai/internal/workers/roadmap/generate-roadmap"
	getroadmap "nanolez-eduai/internal/workers/roadmap/get-roadmap"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Handlers are the action workers served over HTTP. Nil entries stay unregistered.
type Handlers struct {
	GenerateRoadmap *generateroadmap.Handler
	GetRoadmap      *getroadmap.Handler
	FetchArticle    *fetcharticle.Handler
	GenerateArticle *generatearticle.Handler
	Chat            *chatcompletion.Handler
	ValidateURL     *validateurl.Handler
}

// aiDeadlineSlack covers prompt building, parsing and persistence around
// the provider sequence.
const aiDeadlineSlack = 15 * time.Second

// AIDeadline is the deadline an AI action needs so that every provider in
// caller's sequence gets its full attempt budget. Zero when unbounded.
func AIDeadline(caller ai.Caller) time.Duration {
	b := ai.CallBudget(caller)
	if b <= 0 {
		return 0
	}
	return b + aiDeadlineSlack
}

func atLeast(d *time.Duration, floor time.Duration) {
	if *d < floor {
		*d = floor
	}
}

func roadmapOwner(ctx context.Context, in *generateroadmap.Input) {
	if in.UserID == "" {
		in.UserID = UserIDFromContext(ctx)
	}
}

func structuredRoadmap(_ context.Context, in *generateroadmap.Input) {
	in.Structured = true
}

// RegisterHandlers binds every action id of the default registry.
func (r *Router) RegisterHandlers(h Handlers) {
	if h.GenerateRoadmap != nil {
		r.Register("generateRoadmap", Bind(h.GenerateRoadmap.Execute, roadmapOwner))
		r.Register("generate_roadmap", Bind(h.GenerateRoadmap.Execute, roadmapOwner, structuredRoadmap))
	}
	if h.GetRoadmap != nil {
		r.Register("get_roadmap", Bind(h.GetRoadmap.Execute))
	}
	if h.FetchArticle != nil {
		r.Register("fetch_article", Bind(h.FetchArticle.Execute))
	}
	if h.GenerateArticle != nil {
		r.Register("generateArticle", Bind(h.GenerateArticle.Execute))
	}
	if h.Chat != nil {
		r.Register("chat", Bind(h.Chat.Execute))
	}
	if h.ValidateURL != nil {
		r.Register("validate_url", Bind(h.ValidateURL.Execute))
	}
}

// NewHandlers builds the enabled action workers. repo may be nil when
// roadmap storage is off.
func NewHandlers(cfg *config.Config, caller ai.Caller, repo *store.RoadmapRepository, log logger.Logger) Handlers {
	var h Handlers
	deadline := AIDeadline(caller)
	enhancer := resources.NewEnhancer(log.WithFields(map[string]interface{}{"component": "resources"}))

	if config.IsWorkerEnabled(cfg, generateroadmap.TaskType) {
		var saver generateroadmap.RoadmapSaver
		if repo != nil {
			saver = repo
		}
		wc := generateroadmap.LoadConfig(cfg)
		atLeast(&wc.Timeout, deadline)
		h.GenerateRoadmap = generateroadmap.NewHandler(wc, caller, saver, log)
	}
	if config.IsWorkerEnabled(cfg, getroadmap.TaskType) {
		var getter getroadmap.RoadmapGetter
		if repo != nil {
			getter = repo
		}
		h.GetRoadmap = getroadmap.NewHandler(getroadmap.LoadConfig(cfg), getter, log)
	}
	if config.IsWorkerEnabled(cfg, fetcharticle.TaskType) {
		wc := fetcharticle.LoadConfig(cfg)
		atLeast(&wc.Timeout, deadline)
		h.FetchArticle = fetcharticle.NewHandler(wc, caller, enhancer, log)
	}
	if config.IsWorkerEnabled(cfg, generatearticle.TaskType) {
		wc := generatearticle.LoadConfig(cfg)
		atLeast(&wc.Timeout, deadline)
		h.GenerateArticle = generatearticle.NewHandler(wc, caller, enhancer, log)
	}
	if config.IsWorkerEnabled(cfg, chatcompletion.TaskType) {
		wc := chatcompletion.LoadConfig(cfg)
		atLeast(&wc.Timeout, deadline)
		h.Chat = chatcompletion.NewHandler(wc, caller, log)
	}
	if config.IsWorkerEnabled(cfg, validateurl.TaskType) {
		h.ValidateURL = validateurl.NewHandler(validateurl.LoadConfig(cfg), log)
	}
	return h
}

// JobHandlers maps task types to the job handlers of the built workers.
func (h Handlers) JobHandlers() map[string]worker.JobHandler {
	out := map[string]worker.JobHandler{}
	if h.GenerateRoadmap != nil {
		out[generateroadmap.TaskType] = h.GenerateRoadmap.Handle
	}
	if h.GetRoadmap != nil {
		out[getroadmap.TaskType] = h.GetRoadmap.Handle
	}
	if h.FetchArticle != nil {
		out[fetcharticle.TaskType] = h.FetchArticle.Handle
	}
	if h.GenerateArticle != nil {
		out[generatearticle.TaskType] = h.GenerateArticle.Handle
	}
	if h.Chat != nil {
		out[chatcompletion.TaskType] = h.Chat.Handle
	}
	if h.ValidateURL != nil {
		out[validateurl.TaskType] = h.ValidateURL.Handle
	}
	return out
}
