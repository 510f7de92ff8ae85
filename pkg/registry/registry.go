// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Task types served by the action workers.
const (
	TaskGenerateRoadmap = "generate-roadmap"
	TaskGetRoadmap      = "get-roadmap"
	TaskFetchArticle    = "fetch-article"
	TaskGenerateArticle = "generate-article"
	TaskChatCompletion  = "chat-completion"
	TaskValidateURL     = "validate-url"
)

// TagAI marks actions that run the provider sequence.
const TagAI = "ai"

func LoadRegistry(path string) (*ActionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActionRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if err := reg.check(); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *ActionRegistry) check() error {
	seen := map[string]bool{}
	for _, a := range r.Actions {
		if a.ID == "" {
			return fmt.Errorf("registry: action without id")
		}
		if seen[a.ID] {
			return fmt.Errorf("registry: duplicate action %q", a.ID)
		}
		seen[a.ID] = true
		if a.Envelope != EnvelopeResult && a.Envelope != EnvelopeSuccess {
			return fmt.Errorf("registry: action %q has unknown envelope %q", a.ID, a.Envelope)
		}
	}
	return nil
}

// Lookup finds an action by its id.
func (r *ActionRegistry) Lookup(id string) (Action, bool) {
	for _, a := range r.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

func (a Action) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TimeoutDuration parses Timeout, returning def when it is empty or invalid.
func (a Action) TimeoutDuration(def time.Duration) time.Duration {
	if a.Timeout == "" {
		return def
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func str() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func nonEmpty() map[string]interface{} {
	return map[string]interface{}{"type": "string", "minLength": 1}
}

func strOrNum() map[string]interface{} {
	return map[string]interface{}{"type": []interface{}{"string", "number"}}
}

func object(required []string, props map[string]interface{}) map[string]interface{} {
	req := make([]interface{}, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]interface{}{
		"type":       "object",
		"required":   req,
		"properties": props,
	}
}

// Default is the built-in registry used when no registry file is configured.
func Default() *ActionRegistry {
	return &ActionRegistry{
		Version:     "1.0.0",
		LastUpdated: "2025-01-01",
		Actions: []Action{
			{
				ID:          "generateRoadmap",
				DisplayName: "Generate roadmap",
				TaskType:    TaskGenerateRoadmap,
				Envelope:    EnvelopeResult,
				InputSchema: object([]string{"goal"}, map[string]interface{}{
					"goal": nonEmpty(), "duration": str(), "level": str(), "language": str(),
				}),
				ErrorCodes: []string{"ALL_PROVIDERS_EXHAUSTED", "INVALID_AI_RESPONSE"},
				Timeout:    "180s",
				Retries:    1,
				Tags:       []string{"roadmap", TagAI},
			},
			{
				ID:          "generate_roadmap",
				DisplayName: "Generate roadmap (structured)",
				TaskType:    TaskGenerateRoadmap,
				Envelope:    EnvelopeSuccess,
				InputSchema: object([]string{"goal", "intensity", "duration", "studyTime", "language"}, map[string]interface{}{
					"goal": nonEmpty(), "intensity": str(), "duration": strOrNum(), "studyTime": strOrNum(), "language": str(),
				}),
				ErrorCodes: []string{"ALL_PROVIDERS_EXHAUSTED", "INVALID_AI_RESPONSE"},
				Timeout:    "180s",
				Retries:    1,
				Tags:       []string{"roadmap", TagAI},
			},
			{
				ID:          "get_roadmap",
				DisplayName: "Get roadmap",
				TaskType:    TaskGetRoadmap,
				Envelope:    EnvelopeSuccess,
				InputSchema: object([]string{"roadmapId"}, map[string]interface{}{"roadmapId": nonEmpty()}),
				ErrorCodes:  []string{"ROADMAP_NOT_FOUND", "DATABASE_QUERY_FAILED"},
				Timeout:     "10s",
				Retries:     3,
				Tags:        []string{"roadmap"},
			},
			{
				ID:          "fetch_article",
				DisplayName: "Fetch lesson article",
				TaskType:    TaskFetchArticle,
				Envelope:    EnvelopeSuccess,
				InputSchema: object([]string{"topic", "task", "language", "roadmapId"}, map[string]interface{}{
					"topic": nonEmpty(), "task": str(), "language": str(), "roadmapId": str(),
					"isFirstArticle": map[string]interface{}{"type": "boolean"},
				}),
				ErrorCodes: []string{"ALL_PROVIDERS_EXHAUSTED", "INVALID_AI_RESPONSE"},
				Timeout:    "180s",
				Retries:    1,
				Tags:       []string{"article", TagAI, "resources"},
			},
			{
				ID:          "generateArticle",
				DisplayName: "Generate article",
				TaskType:    TaskGenerateArticle,
				Envelope:    EnvelopeResult,
				InputSchema: object([]string{"topic"}, map[string]interface{}{"topic": nonEmpty(), "language": str()}),
				ErrorCodes:  []string{"ALL_PROVIDERS_EXHAUSTED", "INVALID_AI_RESPONSE"},
				Timeout:     "180s",
				Retries:     1,
				Tags:        []string{"article", TagAI},
			},
			{
				ID:          "chat",
				DisplayName: "Chat completion",
				TaskType:    TaskChatCompletion,
				Envelope:    EnvelopeResult,
				InputSchema: object([]string{"messages"}, map[string]interface{}{
					"messages": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items": object([]string{"role", "content"}, map[string]interface{}{
							"role":    map[string]interface{}{"type": "string", "enum": []interface{}{"system", "user", "assistant"}},
							"content": str(),
						}),
					},
				}),
				ErrorCodes: []string{"ALL_PROVIDERS_EXHAUSTED"},
				Timeout:    "120s",
				Retries:    1,
				Tags:       []string{"chat", TagAI},
			},
			{
				ID:          "validate_url",
				DisplayName: "Validate resource URL",
				TaskType:    TaskValidateURL,
				Envelope:    EnvelopeSuccess,
				InputSchema: object([]string{"url"}, map[string]interface{}{"url": str()}),
				Timeout:     "5s",
				Tags:        []string{"resources"},
			},
		},
	}
}
