// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"nanolez-eduai/internal/common/config"
	"nanolez-eduai/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

const (
	defaultMaxJobsActive = 5
	defaultJobTimeout    = 3 * time.Minute
)

// Workers opens one job worker per action task type and closes them together.
type Workers struct {
	client   zbc.Client
	defaults config.CamundaConfig
	workers  []worker.JobWorker
	logger   logger.Logger
}

func NewWorkers(client zbc.Client, defaults config.CamundaConfig, log logger.Logger) *Workers {
	return &Workers{client: client, defaults: defaults, logger: log}
}

// settings resolves per-worker limits, falling back to the camunda section
// and then to package defaults.
func (w *Workers) settings(wcfg config.WorkerConfig) (int, time.Duration) {
	maxJobs := wcfg.MaxJobsActive
	if maxJobs <= 0 {
		maxJobs = w.defaults.MaxJobsActive
	}
	if maxJobs <= 0 {
		maxJobs = defaultMaxJobsActive
	}

	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = config.GetDuration(w.defaults.Timeout)
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return maxJobs, timeout
}

// Start opens a worker for taskType unless it is disabled. It reports
// whether a worker was opened.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	maxJobs, timeout := w.settings(wcfg)
	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(maxJobs).
		Timeout(timeout).
		Open()
	w.workers = append(w.workers, jw)

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": maxJobs,
		"timeout":       timeout.String(),
	})
	return true
}

func (w *Workers) Count() int {
	return len(w.workers)
}

// Close stops every worker and waits for in-flight jobs.
func (w *Workers) Close() {
	for _, jw := range w.workers {
		jw.Close()
		jw.AwaitClose()
	}
	w.workers = nil
}
