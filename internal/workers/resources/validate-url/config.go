// internal/workers/resources/validate-url/config.go
package validateurl

import (
	"time"

	"nanolez-eduai/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig only reads the worker timeout; validation has no other settings.
func LoadConfig(cfg *config.Config) *Config {
	c := &Config{Timeout: 5 * time.Second}
	if cfg == nil {
		return c
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	return c
}
