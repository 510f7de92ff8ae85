package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanolez-eduai/internal/common/camunda/camundatest"
	"nanolez-eduai/internal/common/logger"
)

func newJob(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7, Type: "generate-roadmap", Retries: retries}}
}

func TestHandleJobError(t *testing.T) {
	dbErr := NewDatabaseQueryFailedError(errors.New("conn reset"))
	exhausted := NewAllProvidersExhaustedError(errors.New("groq: 503"))

	tests := []struct {
		name        string
		err         error
		jobRetries  int32
		wantRetries int32
		wantThrown  string
	}{
		{name: "spends one retry", err: dbErr, jobRetries: 3, wantRetries: 2},
		{name: "capped by error code", err: dbErr, jobRetries: 10, wantRetries: 3},
		{name: "exhausted retried once", err: exhausted, jobRetries: 3, wantRetries: 1},
		{name: "last retry throws", err: dbErr, jobRetries: 1, wantThrown: string(ErrCodeDatabaseQueryFailed)},
		{name: "no retries left throws", err: exhausted, jobRetries: 0, wantThrown: string(ErrCodeAllProvidersExhausted)},
		{name: "non-retryable throws", err: NewInvalidRequestError("topic is required"), jobRetries: 3, wantThrown: string(ErrCodeInvalidRequest)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			h := NewErrorHandler(logger.NewTestLogger(t))

			h.HandleJobError(context.Background(), client, newJob(tt.jobRetries), tt.err)

			if tt.wantThrown != "" {
				require.Len(t, client.Thrown(), 1)
				assert.Empty(t, client.Failed())
				assert.Equal(t, tt.wantThrown, client.Thrown()[0].ErrorCode)
				assert.Equal(t, int64(7), client.Thrown()[0].JobKey)
				return
			}
			require.Len(t, client.Failed(), 1)
			assert.Empty(t, client.Thrown())
			failed := client.Failed()[0]
			assert.Equal(t, tt.wantRetries, failed.Retries)
			assert.Equal(t, int64(7), failed.JobKey)
			assert.Contains(t, failed.Variables, `"errorCode"`)
		})
	}
}

// Feeding each failure's retries back into the next activation must end in
// a BPMN error rather than retrying forever.
func TestHandleJobError_RetriesRunOut(t *testing.T) {
	client := camundatest.NewJobClient()
	h := NewErrorHandler(logger.NewTestLogger(t))
	err := NewDatabaseQueryFailedError(errors.New("conn reset"))

	retries := int32(3)
	for i := 0; i < 10 && len(client.Thrown()) == 0; i++ {
		h.HandleJobError(context.Background(), client, newJob(retries), err)
		if failed := client.Failed(); len(failed) > 0 {
			retries = failed[len(failed)-1].Retries
		}
	}

	require.Len(t, client.Thrown(), 1)
	assert.Len(t, client.Failed(), 2)
	assert.Equal(t, int32(1), retries)
}
