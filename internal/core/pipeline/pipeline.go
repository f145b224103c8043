// Package pipeline runs one deed through conditioning, sanitizing, preparsing, merging,
// evidence fallback, confidence validation, geo enrichment and normalization.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/core/llm"
	"github.com/joseph-ayodele/minutas/internal/core/merge"
	"github.com/joseph-ayodele/minutas/internal/core/normalize"
	"github.com/joseph-ayodele/minutas/internal/core/preparse"
	"github.com/joseph-ayodele/minutas/internal/core/text"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/metrics"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// Stage names used in timings, metrics and logs.
const (
	StageCondition = "condition"
	StageSanitize  = "sanitize"
	StagePreparse  = "preparse"
	StageMerge     = "merge"
	StageFallback  = "fallback"
	StageValidate  = "validate"
	StageNormalize = "normalize"
	StageGeo       = "geo"
	StageSchema    = "schema"
)

// Run outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeSchemaFallback = "schema_fallback"
	OutcomeError          = "error"
)

// GeoEnricher fills missing domicile location codes on the canonical payload.
type GeoEnricher interface {
	EnrichPayload(ctx context.Context, p *entity.Payload) int
}

// Input is one deed to process.
type Input struct {
	// Text is the extracted deed text.
	Text string
	// ModelOutput is the decoded language-model reply; nil when there is none.
	ModelOutput any
	// Service is the document/service-type label ("COMPRA VENTA", "PODER", ...).
	Service string
}

// Result is everything a run produced.
type Result struct {
	TraceID       string
	TextHash      string
	Extraction    entity.Extraction
	Payload       entity.Payload
	Issues        []llm.Issue
	FallbackFills int
	GeoFills      int
	// SchemaErr is set when the payload failed schema validation and was replaced
	// by the empty canonical payload.
	SchemaErr error
	Timings   map[string]time.Duration
}

// Pipeline is safe for concurrent use; every Run builds its own entity graph.
type Pipeline struct {
	preparser  *preparse.Preparser
	normalizer *normalize.Normalizer
	geo        GeoEnricher
	validator  *llm.SchemaValidator
	strategy   merge.Strategy
	metrics    *metrics.Metrics
	logger     *slog.Logger
	newID      func() string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithStrategy picks how model persons are paired with preparsed candidates.
func WithStrategy(s merge.Strategy) Option {
	return func(p *Pipeline) { p.strategy = s }
}

// WithGeo enables location-code enrichment.
func WithGeo(g GeoEnricher) Option {
	return func(p *Pipeline) { p.geo = g }
}

// WithPreparser replaces the default rule table preparser.
func WithPreparser(pp *preparse.Preparser) Option {
	return func(p *Pipeline) { p.preparser = pp }
}

// WithoutSchemaValidation skips the final schema check.
func WithoutSchemaValidation() Option {
	return func(p *Pipeline) { p.validator = nil }
}

// WithMetrics records run outcomes and stage timings.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithIDGenerator overrides the trace id source.
func WithIDGenerator(f func() string) Option {
	return func(p *Pipeline) { p.newID = f }
}

// New wires a pipeline. It fails only when the payload schema does not compile.
func New(normalizer *normalize.Normalizer, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	validator, err := llm.NewSchemaValidator()
	if err != nil {
		return nil, common.NewAppError("SCHEMA_COMPILE", "compile payload schema", err)
	}
	p := &Pipeline{
		preparser:  preparse.New(logger),
		normalizer: normalizer,
		validator:  validator,
		strategy:   merge.Positional,
		logger:     logger,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Run processes one deed. Bad input never fails a run; only context cancellation does.
// A trace id already carried by ctx is reused.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	res := &Result{
		TraceID: common.TraceIDFromContext(ctx),
		Timings: make(map[string]time.Duration, 9),
	}
	if res.TraceID == "" {
		res.TraceID = p.newID()
		ctx = common.WithTraceID(ctx, res.TraceID)
	}
	if in.Service != "" {
		ctx = common.WithServiceType(ctx, in.Service)
	}
	logger := common.LoggerFrom(ctx, p.logger)

	stage := func(name string, fn func()) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t0 := time.Now()
		fn()
		d := time.Since(t0)
		res.Timings[name] = d
		p.metrics.ObserveStage(name, d)
		return nil
	}

	var (
		conditioned string
		cands       entity.Parties
	)
	steps := []struct {
		name string
		fn   func()
	}{
		{StageCondition, func() {
			conditioned = text.Condition(in.Text)
			res.TextHash = text.Hash(in.Text)
		}},
		{StageSanitize, func() {
			res.Extraction, res.Issues = llm.Sanitize(in.ModelOutput, res.TextHash)
			res.Extraction.RawTextHash = res.TextHash
			for _, issue := range res.Issues {
				p.metrics.AddSanitizeIssue(string(issue.Kind))
			}
			if len(res.Issues) > 0 {
				logger.Warn("sanitize.issues", "count", len(res.Issues), "paths", llm.IssuePaths(res.Issues))
			}
		}},
		{StagePreparse, func() {
			cands = p.preparser.Parse(conditioned)
			logger.Debug("preparse.candidates",
				"otorgantes", len(cands.Grantors),
				"beneficiarios", len(cands.Beneficiaries),
			)
		}},
		{StageMerge, func() {
			merge.Parties(&res.Extraction, cands, p.strategy)
		}},
		{StageFallback, func() {
			res.FallbackFills = p.applyFallbacks(&res.Extraction)
		}},
		{StageValidate, func() {
			llm.PostValidate(&res.Extraction)
			conf := &res.Extraction.Confidence
			conf.ActClassification = max(conf.ActClassification, text.PowerOfAttorneyScore(in.Text))
		}},
		{StageNormalize, func() {
			res.Payload = p.normalizer.Payload(ctx, normalize.Input{
				Raw:      normalize.AsFields(in.ModelOutput),
				Parties:  res.Extraction.Parties,
				Service:  textutil.FirstNonEmpty(in.Service, res.Extraction.Act),
				DeedDate: res.Extraction.DeedDate,
				Text:     conditioned,
			})
		}},
		{StageGeo, func() {
			if p.geo != nil {
				res.GeoFills = p.geo.EnrichPayload(ctx, &res.Payload)
			}
		}},
		{StageSchema, func() {
			if p.validator == nil {
				return
			}
			if err := p.validator.ValidatePayload(res.Payload); err != nil {
				res.SchemaErr = err
				res.Payload = entity.EmptyPayload()
				logger.Warn("pipeline.schema_fallback", "error", err)
			}
		}},
	}
	for _, s := range steps {
		if err := stage(s.name, s.fn); err != nil {
			p.metrics.IncRun(OutcomeError)
			logger.Warn("pipeline.run.cancelled", "stage", s.name, "error", err)
			return nil, err
		}
	}

	outcome := OutcomeOK
	if res.SchemaErr != nil {
		outcome = OutcomeSchemaFallback
	}
	p.metrics.IncRun(outcome)
	logger.Info("pipeline.run.done",
		"outcome", outcome,
		"acto", res.Extraction.Act,
		"otorgantes", len(res.Payload.Participants.Grantors),
		"beneficiarios", len(res.Payload.Participants.Beneficiaries),
		"issues", len(res.Issues),
		"fallback_fills", res.FallbackFills,
		"geo_fills", res.GeoFills,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// applyFallbacks runs the evidence fallback on every person and counts the fields filled.
func (p *Pipeline) applyFallbacks(ext *entity.Extraction) int {
	filled := 0
	for _, role := range entity.Roles {
		list := *ext.Parties.List(role)
		for i := range list {
			for _, rule := range merge.FallbackPerson(&list[i]) {
				p.metrics.IncFallbackFill(rule)
				filled++
			}
		}
	}
	return filled
}
