package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Lookup(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.check())

	tests := []struct {
		id       string
		taskType string
		envelope Envelope
	}{
		{"generateRoadmap", TaskGenerateRoadmap, EnvelopeResult},
		{"generate_roadmap", TaskGenerateRoadmap, EnvelopeSuccess},
		{"get_roadmap", TaskGetRoadmap, EnvelopeSuccess},
		{"fetch_article", TaskFetchArticle, EnvelopeSuccess},
		{"generateArticle", TaskGenerateArticle, EnvelopeResult},
		{"chat", TaskChatCompletion, EnvelopeResult},
		{"validate_url", TaskValidateURL, EnvelopeSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a, ok := reg.Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.taskType, a.TaskType)
			assert.Equal(t, tt.envelope, a.Envelope)
			assert.NotEmpty(t, a.InputSchema)
		})
	}

	_, ok := reg.Lookup("deleteEverything")
	assert.False(t, ok)
}

func TestLoadRegistry_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	data, err := json.Marshal(Default())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Actions, len(Default().Actions))

	a, ok := reg.Lookup("chat")
	require.True(t, ok)
	assert.Equal(t, 120*time.Second, a.TimeoutDuration(time.Minute))
}

func TestLoadRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"duplicate", `{"actions":[{"id":"a","envelope":"result"},{"id":"a","envelope":"result"}]}`},
		{"bad envelope", `{"actions":[{"id":"a","envelope":"xml"}]}`},
		{"missing id", `{"actions":[{"envelope":"result"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "registry.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadRegistry(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestAction_TimeoutDuration(t *testing.T) {
	assert.Equal(t, time.Minute, Action{}.TimeoutDuration(time.Minute))
	assert.Equal(t, time.Minute, Action{Timeout: "soon"}.TimeoutDuration(time.Minute))
	assert.Equal(t, 5*time.Second, Action{Timeout: "5s"}.TimeoutDuration(time.Minute))
}
