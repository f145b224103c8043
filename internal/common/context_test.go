package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerFrom(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithServiceType(WithTraceID(context.Background(), "job-1"), "PODER")
	LoggerFrom(ctx, base).Info("pipeline.done")
	assert.Contains(t, buf.String(), "trace_id=job-1")
	assert.Contains(t, buf.String(), "service=PODER")

	buf.Reset()
	LoggerFrom(context.Background(), base).Info("pipeline.done")
	assert.NotContains(t, buf.String(), "trace_id")
	assert.NotContains(t, buf.String(), "service")

	assert.NotNil(t, LoggerFrom(context.Background(), nil))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "read"))

	err := WrapError(os.ErrNotExist, "read catalog seed")
	assert.EqualError(t, err, "read catalog seed: file does not exist")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	app := NewAppError("QUEUE_CLOSED", "queue is shut down", ErrInvalidInput)
	assert.ErrorIs(t, app, ErrInvalidInput)
	assert.False(t, IsNotFound(app))
	assert.True(t, IsNotFound(WrapError(ErrNotFound, "lookup")))
}
