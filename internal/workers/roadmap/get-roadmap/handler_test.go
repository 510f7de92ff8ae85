// internal/workers/roadmap/get-roadmap/handler_test.go
package getroadmap

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "nanolez-eduai/internal/common/errors"
	"nanolez-eduai/internal/common/logger"
	"nanolez-eduai/internal/models"
	"nanolez-eduai/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	roadmaps map[string]*models.Roadmap
	err      error
}

func (r *fakeRepo) Get(_ context.Context, id string) (*models.Roadmap, error) {
	if r.err != nil {
		return nil, r.err
	}
	rm, ok := r.roadmaps[id]
	if !ok {
		return nil, store.ErrRoadmapNotFound
	}
	return rm, nil
}

func TestHandler_Execute(t *testing.T) {
	stored := &models.Roadmap{ID: "rm-1", Title: "Go"}

	tests := []struct {
		name     string
		repo     RoadmapGetter
		input    Input
		wantCode apperrors.ErrorCode
	}{
		{name: "found", repo: &fakeRepo{roadmaps: map[string]*models.Roadmap{"rm-1": stored}}, input: Input{RoadmapID: "rm-1"}},
		{name: "not found", repo: &fakeRepo{}, input: Input{RoadmapID: "rm-2"}, wantCode: apperrors.ErrCodeRoadmapNotFound},
		{name: "db error", repo: &fakeRepo{err: errors.New("conn reset")}, input: Input{RoadmapID: "rm-1"}, wantCode: apperrors.ErrCodeDatabaseQueryFailed},
		{name: "missing id", repo: &fakeRepo{}, input: Input{}, wantCode: apperrors.ErrCodeInvalidRequest},
		{name: "storage disabled", repo: nil, input: Input{RoadmapID: "rm-1"}, wantCode: apperrors.ErrCodeConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&Config{Timeout: time.Second}, tt.repo, logger.NewTestLogger(t))
			out, err := h.Execute(context.Background(), &tt.input)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Same(t, stored, out)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.AsStandardError(err).Code)
		})
	}
}
