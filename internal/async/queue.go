package async

import (
	"context"
	"time"

	"github.com/joseph-ayodele/minutas/internal/core/pipeline"
)

// Job is one deed waiting to go through the pipeline.
type Job struct {
	ID          string
	Input       pipeline.Input
	SubmittedAt time.Time
	TraceID     string
}

// Outcome is what a worker hands back for a Job. Exactly one of Result and Err is set.
type Outcome struct {
	Job      Job
	Result   *pipeline.Result
	Err      error
	Duration time.Duration
}

// Queue accepts jobs until Shutdown, which drains what was already accepted.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
