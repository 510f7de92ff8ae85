package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestStartAction(t *testing.T) {
	o := New("eduai-test")
	defer o.Shutdown()

	ctx, end := o.StartAction(context.Background(), "generateRoadmap", "u-1")
	span := trace.SpanFromContext(ctx)
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())

	end(errors.New("boom"))
	assert.False(t, span.IsRecording())
}

func TestNilObservabilityIsSafe(t *testing.T) {
	var o *Observability

	ctx, end := o.StartAction(context.Background(), "chat", "")
	assert.NotNil(t, ctx)
	end(nil)

	o.RecordAction(context.Background(), "chat", "success", time.Millisecond)
	o.Shutdown()
	NewNoop().RecordAction(context.Background(), "chat", "success", time.Millisecond)
}
