// Package api serves the single POST action endpoint and the operational
// endpoints next to it.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/common/metrics"
	"nanolez-eduai/internal/common/observability"
	"nanolez-eduai/internal/common/validation"
	"nanolez-eduai/internal/models"
	"nanolez-eduai/internal/ratelimit"
	"nanolez-eduai/pkg/registry"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultActionTimeout = 180 * time.Second
	defaultMaxBodyBytes  = 1 << 20
)

type Config struct {
	AllowedOrigin string
	// RequireUserID rejects requests without a userId.
	RequireUserID bool
	// DefaultTimeout applies to actions whose registry entry has none.
	DefaultTimeout time.Duration
	// AIDeadline is the least deadline given to actions tagged "ai", so the
	// provider sequence can always reach its last provider.
	AIDeadline time.Duration
	MaxBodyBytes   int64
	ServiceName    string
}

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type Router struct {
	cfg      Config
	registry *registry.ActionRegistry
	actions  map[string]ActionFunc
	limiter  *ratelimit.Limiter
	obs      *observability.Observability
	logger   logger.Logger
	checks   map[string]ReadinessCheck
	now      func() time.Time
}

// NewRouter builds a router. limiter and obs may be nil.
func NewRouter(cfg Config, reg *registry.ActionRegistry, limiter *ratelimit.Limiter, obs *observability.Observability, log logger.Logger) *Router {
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultActionTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if reg == nil {
		reg = registry.Default()
	}
	return &Router{
		cfg:      cfg,
		registry: reg,
		actions:  map[string]ActionFunc{},
		limiter:  limiter,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
		checks:   map[string]ReadinessCheck{},
		now:      time.Now,
	}
}

// Register binds an action id from the registry to its implementation.
func (r *Router) Register(actionID string, fn ActionFunc) {
	r.actions[actionID] = fn
}

func (r *Router) AddReadinessCheck(name string, check ReadinessCheck) {
	r.checks[name] = check
}

func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api", r.handleAction)
	mux.HandleFunc("/{$}", r.handleAction)
	mux.HandleFunc("/health", r.handleHealth)
	mux.HandleFunc("/ready", r.handleReady)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// envelope is the inbound request body. snake_case actions may put their
// parameters at the top level instead of under data.
type envelope struct {
	Action string
	UserID string
	Data   json.RawMessage
	rest   map[string]json.RawMessage
}

func decodeEnvelope(body io.Reader) (*envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}
	env := &envelope{rest: map[string]json.RawMessage{}}
	for k, v := range raw {
		switch k {
		case "action":
			if err := json.Unmarshal(v, &env.Action); err != nil {
				return nil, err
			}
		case "userId":
			var id models.FlexString
			if err := json.Unmarshal(v, &id); err != nil {
				return nil, err
			}
			env.UserID = id.String()
		case "data":
			if string(v) != "null" {
				env.Data = v
			}
		default:
			env.rest[k] = v
		}
	}
	return env, nil
}

func (e *envelope) payload(action registry.Action) (json.RawMessage, error) {
	if len(e.Data) > 0 {
		return e.Data, nil
	}
	if action.Envelope != registry.EnvelopeSuccess {
		return nil, apperrors.NewInvalidRequestError("Action and data are required")
	}
	return json.Marshal(e.rest)
}

// guessEnvelope answers unknown actions in the style their name suggests.
func guessEnvelope(action string) registry.Envelope {
	if strings.Contains(action, "_") {
		return registry.EnvelopeSuccess
	}
	return registry.EnvelopeResult
}

func (r *Router) setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", r.cfg.AllowedOrigin)
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (r *Router) handleAction(w http.ResponseWriter, req *http.Request) {
	r.setCORS(w)
	if req.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
		return
	}

	start := r.now()
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	env, err := decodeEnvelope(http.MaxBytesReader(w, req.Body, r.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, registry.EnvelopeResult, apperrors.NewInvalidRequestError("Invalid JSON input"))
		return
	}
	if env.Action == "" {
		writeError(w, registry.EnvelopeResult, apperrors.NewInvalidRequestError("Missing required field: action"))
		return
	}

	log := r.logger.WithFields(map[string]interface{}{
		"requestId": requestID,
		"action":    env.Action,
		"userId":    env.UserID,
	})

	action, known := r.registry.Lookup(env.Action)
	fn := r.actions[env.Action]
	if !known || fn == nil {
		log.Warn("unknown action", nil)
		writeError(w, guessEnvelope(env.Action), apperrors.NewUnknownActionError(env.Action))
		r.record(req.Context(), "unknown", string(apperrors.ErrCodeUnknownAction), start)
		return
	}

	ctx, end := r.obs.StartAction(req.Context(), action.ID, env.UserID)
	result, stdErr := r.dispatch(ctx, env, action, fn)
	if stdErr != nil {
		end(stdErr)
		fields := map[string]interface{}{
			"code":     stdErr.Code,
			"error":    stdErr.Error(),
			"duration": r.now().Sub(start).String(),
		}
		if apperrors.HTTPStatus(stdErr.Code) >= http.StatusInternalServerError {
			log.Error("action failed", fields)
		} else {
			log.Warn("action rejected", fields)
		}
		writeError(w, action.Envelope, stdErr)
		r.record(ctx, action.ID, string(stdErr.Code), start)
		return
	}

	end(nil)
	log.Info("action completed", map[string]interface{}{
		"duration": r.now().Sub(start).String(),
	})
	writeResult(w, action.Envelope, result)
	r.record(ctx, action.ID, "success", start)
}

func (r *Router) dispatch(ctx context.Context, env *envelope, action registry.Action, fn ActionFunc) (interface{}, *apperrors.StandardError) {
	if env.UserID == "" && r.cfg.RequireUserID {
		return nil, apperrors.NewInvalidRequestError("User ID required")
	}
	if env.UserID != "" && r.limiter != nil && !r.limiter.Allow(ctx, env.UserID) {
		return nil, apperrors.NewRateLimitedError(env.UserID)
	}

	payload, err := env.payload(action)
	if err != nil {
		return nil, apperrors.AsStandardError(err)
	}

	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, apperrors.NewInvalidRequestError("Invalid request data")
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		return nil, apperrors.NewInvalidRequestError("Request data must be an object")
	}
	res, err := validation.Validate(action.InputSchema, doc)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !res.Valid {
		return nil, apperrors.NewInvalidRequestError("Invalid request data: " + res.Summary())
	}

	ctx = WithUserID(ctx, env.UserID)
	ctx, cancel := context.WithTimeout(ctx, r.deadline(action))
	defer cancel()

	result, err := fn(ctx, payload)
	if err != nil {
		return nil, apperrors.AsStandardError(err)
	}
	return result, nil
}

func (r *Router) deadline(action registry.Action) time.Duration {
	d := action.TimeoutDuration(r.cfg.DefaultTimeout)
	if action.HasTag(registry.TagAI) && r.cfg.AIDeadline > d {
		return r.cfg.AIDeadline
	}
	return d
}

func (r *Router) record(ctx context.Context, action, status string, start time.Time) {
	d := r.now().Sub(start)
	metrics.ActionRequests.WithLabelValues(action, status).Inc()
	metrics.ActionDuration.WithLabelValues(action).Observe(d.Seconds())
	r.obs.RecordAction(ctx, action, status, d)
}
