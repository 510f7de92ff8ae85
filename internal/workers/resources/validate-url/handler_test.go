// internal/workers/resources/validate-url/handler_test.go
package validateurl

import (
	"context"
	"testing"
	"time"

	"nanolez-eduai/internal/common/camunda/camundatest"
	"nanolez-eduai/internal/common/config"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/resources"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(LoadConfig(nil), logger.NewNoOpLogger())

	tests := []struct {
		url  string
		want resources.ValidatedResource
	}{
		{
			url: "https://developer.mozilla.org/foo",
			want: resources.ValidatedResource{
				URL: "https://developer.mozilla.org/foo", Valid: true, Confidence: 90,
				Issues: []string{}, IsSecure: true, IsEducational: true,
			},
		},
		{
			url:  "",
			want: resources.ValidatedResource{Issues: []string{resources.IssueEmptyURL}},
		},
		{
			url: "http://example.com",
			want: resources.ValidatedResource{
				URL:    "http://example.com",
				Issues: []string{resources.IssueNotHTTPS, resources.IssueLowQuality},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{URL: tt.url})
			require.NoError(t, err)
			assert.Equal(t, tt.want, *out)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, 5*time.Second, LoadConfig(nil).Timeout)

	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 1500},
	}}
	assert.Equal(t, 1500*time.Millisecond, LoadConfig(cfg).Timeout)
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	client := camundatest.NewJobClient()
	h := NewHandler(LoadConfig(nil), logger.NewTestLogger(t))

	h.Handle(client, entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key: 3, Type: TaskType, Retries: 3, Variables: `{"url":"http://example.com"}`,
	}})

	require.Len(t, client.Completed(), 1)
	assert.Empty(t, client.Failed())
	assert.Empty(t, client.Thrown())
	done := client.Completed()[0]
	assert.Equal(t, int64(3), done.JobKey)
	assert.Contains(t, done.Variables, `"valid":false`)
	assert.Contains(t, done.Variables, `"isSecure":false`)
}
