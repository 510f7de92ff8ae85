// internal/workers/roadmap/generate-roadmap/config.go
package generateroadmap

import (
	"time"

	"nanolez-eduai/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// FallbackTemplates answers with a template roadmap when every provider is exhausted.
	FallbackTemplates bool
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 180 * time.Second}
	if cfg == nil {
		return c
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	c.FallbackTemplates = cfg.Generation.FallbackTemplates
	return c
}
