// internal/workers/content/generate-article/config.go
package generatearticle

import (
	"time"

	"nanolez-eduai/internal/common/config"
)

type Config struct {
	Timeout           time.Duration
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
