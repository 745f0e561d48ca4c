// Package analysis runs one analysis pass: fetch the workspace, summarize it,
// ask for recommendations, and attach template suggestions.
package analysis

import (
	"context"
	"fmt"
	"time"

	"clickupai/aggregator"
	"clickupai/common"
	"clickupai/domain"
	"clickupai/fflag"
	"clickupai/utils"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "clickupai/analysis"

// WorkspaceFetcher returns a snapshot of the workspace visible to apiKey.
type WorkspaceFetcher interface {
	FetchWorkspace(ctx context.Context, apiKey, workspaceId string) (domain.Workspace, error)
}

// Recommender produces recommendation text for a summarized workspace.
type Recommender interface {
	Recommend(ctx context.Context, useCase string, summary aggregator.Summary) (string, error)
}

// FlagEvaluator decides boolean feature flags per analysis.
type FlagEvaluator interface {
	IsEnabled(flagName, key string) bool
}

// Observer is told about every state a run enters, in order.
type Observer func(domain.AnalysisState)

type Options struct {
	Summary   aggregator.Options
	Templates []domain.Template
	// RecommendRetry applies to the recommendation call only. The workspace
	// fetcher does its own retries.
	RecommendRetry utils.RetryPolicy
	Flags          FlagEvaluator
	// Clock returns the reference time for overdue tasks. Nil means
	// time.Now.
	Clock func() time.Time
	// NewId returns the analysis id. Nil means a new ksuid.
	NewId func() string
}

// DefaultRecommendRetry retries transient and rate-limited recommendation
// failures twice.
func DefaultRecommendRetry() utils.RetryPolicy {
	return utils.RetryPolicy{
		MaxAttempts:     common.DefaultRecommendMaxAttempts,
		InitialInterval: time.Second,
		MaxInterval:     8 * time.Second,
		Retryable:       domain.IsRetryable,
		RetryAfter:      domain.RetryAfterOf,
	}
}

// Pipeline holds no per-request state and may serve concurrent runs.
type Pipeline struct {
	Workspaces  WorkspaceFetcher
	Recommender Recommender
	Options     Options
}

func New(workspaces WorkspaceFetcher, recommender Recommender, opts Options) *Pipeline {
	if opts.Templates == nil {
		opts.Templates = domain.DefaultTemplates
	}
	if opts.RecommendRetry.MaxAttempts == 0 {
		opts.RecommendRetry = DefaultRecommendRetry()
	}
	return &Pipeline{Workspaces: workspaces, Recommender: recommender, Options: opts}
}

// Run performs one analysis. The observer, if not nil, sees Idle, then each
// step in order, and finally Rendered or Error.
func (p *Pipeline) Run(ctx context.Context, req domain.AnalysisRequest, observer Observer) (domain.AnalysisResult, error) {
	run := &run{pipeline: p, req: req, observer: observer, state: domain.AnalysisStateIdle}
	run.id = p.newId()
	if observer != nil {
		observer(domain.AnalysisStateIdle)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "analysis.Run")
	defer span.End()
	span.SetAttributes(attribute.String("analysis.id", run.id))

	logger := log.With().Str("analysisId", run.id).Logger()
	ctx = logger.WithContext(ctx)

	start := time.Now()
	result, err := run.execute(ctx)
	if err != nil {
		run.transition(domain.AnalysisStateError)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domain.KindOf(err)))
		logger.Warn().Err(err).Str("kind", string(domain.KindOf(err))).Dur("duration", time.Since(start)).Msg("Analysis failed")
		return domain.AnalysisResult{}, err
	}

	run.transition(domain.AnalysisStateRendered)
	logger.Info().Str("workspaceId", result.WorkspaceId).Str("useCase", string(result.UseCase)).Dur("duration", time.Since(start)).Msg("Analysis completed")
	return result, nil
}

type run struct {
	pipeline *Pipeline
	req      domain.AnalysisRequest
	observer Observer
	state    domain.AnalysisState
	id       string
}

func (r *run) transition(next domain.AnalysisState) {
	if !r.state.CanTransition(next) {
		panic(fmt.Sprintf("invalid analysis state transition %s -> %s", r.state, next))
	}
	r.state = next
	if r.observer != nil {
		r.observer(next)
	}
}

func (r *run) execute(ctx context.Context) (domain.AnalysisResult, error) {
	p := r.pipeline
	useCase, err := domain.ParseUseCase(r.req.UseCase)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if err := r.req.Validate(); err != nil {
		return domain.AnalysisResult{}, err
	}

	r.transition(domain.AnalysisStateFetching)
	ws, err := p.Workspaces.FetchWorkspace(ctx, r.req.APIKey, r.req.WorkspaceId)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("fetching workspace: %w", err)
	}

	r.transition(domain.AnalysisStateSummarizing)
	summaryOpts := p.Options.Summary
	summaryOpts.Now = p.now()
	summaryOpts.OmitTaskNames = summaryOpts.OmitTaskNames || !p.flagEnabled(fflag.IncludeTaskNames, r.id)
	summary, err := aggregator.Summarize(ws, summaryOpts)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("summarizing workspace: %w", err)
	}

	r.transition(domain.AnalysisStateRecommending)
	policy := p.Options.RecommendRetry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("Retrying recommendation")
	}
	text, err := utils.Retry(ctx, policy, func(ctx context.Context) (string, error) {
		return p.Recommender.Recommend(ctx, string(useCase), summary)
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("generating recommendations: %w", err)
	}

	return domain.AnalysisResult{
		Id:                 r.id,
		WorkspaceId:        ws.Id,
		WorkspaceName:      ws.Name,
		UseCase:            useCase,
		Stats:              summary.Stats,
		SummaryText:        summary.Text,
		RecommendationText: text,
		SuggestedTemplates: domain.SuggestTemplates(p.Options.Templates, useCase),
	}, nil
}

func (p *Pipeline) now() time.Time {
	if p.Options.Clock != nil {
		return p.Options.Clock()
	}
	return time.Now()
}

func (p *Pipeline) newId() string {
	if p.Options.NewId != nil {
		return p.Options.NewId()
	}
	return "an_" + ksuid.New().String()
}

func (p *Pipeline) flagEnabled(name, key string) bool {
	if p.Options.Flags == nil {
		return fflag.Default(name)
	}
	return p.Options.Flags.IsEnabled(name, key)
}
