package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/serp-visibility/internal/entity"
	"github.com/user/serp-visibility/internal/monitoring"
	"github.com/user/serp-visibility/internal/payload"
	"github.com/user/serp-visibility/internal/repository"
	"github.com/user/serp-visibility/internal/serp"
)

var (
	ErrNoKeywords  = errors.New("at least one keyword is required")
	ErrInvalidMode = errors.New("mode must be \"detail\" or \"summary\"")
)

// RunRequest describes one brand visibility run.
type RunRequest struct {
	Brand    string      `json:"brand" yaml:"brand"`
	Keywords []string    `json:"keywords" yaml:"keywords"`
	Features []string    `json:"features,omitempty" yaml:"features"`
	Mode     entity.Mode `json:"mode,omitempty" yaml:"mode"`
}

// Scanner runs brand visibility scans over a keyword list.
type Scanner interface {
	Run(ctx context.Context, req RunRequest) (*entity.RunResult, error)
}

// Options tunes the run loop. The zero value fetches every keyword without cache or pacing.
type Options struct {
	Cache    repository.PayloadCache
	CacheTTL time.Duration
	// PacingDelay separates consecutive provider fetches. Cache hits are not paced.
	PacingDelay time.Duration
	// ExcludedFeatures apply only when the request selects no features.
	ExcludedFeatures []string
	IndexedPaths     bool
}

type scanUseCase struct {
	source  repository.PayloadSource
	metrics *monitoring.Metrics
	logger  *zap.Logger
	opts    Options
}

// NewScanUseCase creates a new instance of the scan use case.
func NewScanUseCase(
	source repository.PayloadSource,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
	opts Options,
) Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &scanUseCase{
		source:  source,
		metrics: metrics,
		logger:  logger,
		opts:    opts,
	}
}

// run is the state of one Run call. Nothing in it outlives the call.
type run struct {
	scanner   *serp.Scanner
	agg       *serp.Aggregator
	result    *entity.RunResult
	log       *zap.Logger
	lastFetch time.Time
}

// Run scans each keyword in turn. A keyword that cannot be fetched or decoded is
// recorded in the result and the run moves on. Cancellation stops the loop and
// returns what was gathered so far with Partial set.
func (uc *scanUseCase) Run(ctx context.Context, req RunRequest) (*entity.RunResult, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMode, req.Mode)
	}
	var scanOpts []serp.Option
	if uc.opts.IndexedPaths {
		scanOpts = append(scanOpts, serp.WithIndexedPaths())
	}
	scanner, err := serp.NewScanner(req.Brand, scanOpts...)
	if err != nil {
		return nil, err
	}
	keywords := normalizeKeywords(req.Keywords)
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	mode := req.Mode
	if mode == "" {
		mode = entity.ModeDetail
	}
	aggOpts := []serp.AggregatorOption{serp.WithFeatures(req.Features...)}
	if len(req.Features) == 0 {
		aggOpts = append(aggOpts, serp.WithoutFeatures(uc.opts.ExcludedFeatures...))
	}

	r := &run{
		scanner: scanner,
		agg:     serp.NewAggregator(aggOpts...),
		result: &entity.RunResult{
			RunID:     uuid.NewString(),
			Brand:     scanner.Brand().Name(),
			Mode:      mode,
			StartedAt: time.Now(),
		},
	}
	r.log = uc.logger.With(zap.String("run_id", r.result.RunID), zap.String("brand", r.result.Brand))
	r.log.Info("starting run", zap.Int("keywords", len(keywords)), zap.String("mode", string(mode)))

	for _, kw := range keywords {
		if err := uc.processKeyword(ctx, r, kw); err != nil {
			r.log.Warn("run interrupted, returning partial results", zap.String("keyword", kw), zap.Error(err))
			r.result.Partial = true
			break
		}
	}

	switch mode {
	case entity.ModeSummary:
		r.result.Summaries = r.agg.Summaries()
	default:
		r.result.Records = r.agg.Records()
	}
	r.result.Mentions = r.agg.Mentions()
	r.result.Duration = time.Since(r.result.StartedAt)

	r.log.Info("run finished",
		zap.Int("scanned", r.result.Scanned),
		zap.Int("failed", len(r.result.Failed)),
		zap.Int("mentions", r.result.Mentions),
		zap.Bool("partial", r.result.Partial),
		zap.Duration("duration", r.result.Duration),
	)
	return r.result, nil
}

// processKeyword returns an error only when the run must stop (context done).
// Every other failure is recorded against the keyword.
func (uc *scanUseCase) processKeyword(ctx context.Context, r *run, kw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := r.log.With(zap.String("keyword", kw))

	body, cached, err := uc.load(ctx, r, kw)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		uc.handleKeywordFailure(r, kw, err)
		return nil
	}

	root, err := payload.Parse(body)
	if err != nil {
		uc.handleKeywordFailure(r, kw, err)
		return nil
	}
	matches, err := r.scanner.Scan(root)
	if err != nil {
		uc.handleKeywordFailure(r, kw, err)
		return nil
	}
	if !cached {
		uc.store(ctx, r, kw, body)
	}

	meta := serp.MetadataOf(root)
	perFeature := make(map[string]int)
	added := 0
	for m := range matches {
		switch r.agg.Add(kw, meta, m) {
		case serp.Added:
			added++
			perFeature[serp.BaseLabel(m.Feature)]++
		case serp.Duplicate:
			perFeature[serp.BaseLabel(m.Feature)]++
		}
	}

	r.result.Scanned++
	if uc.metrics != nil {
		uc.metrics.IncKeyword("scanned")
		for feature, n := range perFeature {
			uc.metrics.AddMentions(feature, n)
		}
	}
	if len(perFeature) == 0 {
		log.Info("no brand mentions for keyword")
		return nil
	}
	log.Info("keyword scanned", zap.Int("features", len(perFeature)), zap.Int("new_records", added))
	return nil
}

// load returns the keyword's payload from the cache, or from the source after pacing.
// cached reports whether the body came from the cache.
func (uc *scanUseCase) load(ctx context.Context, r *run, kw string) ([]byte, bool, error) {
	if uc.opts.Cache != nil {
		start := time.Now()
		body, err := uc.opts.Cache.Get(ctx, kw)
		switch {
		case err == nil:
			uc.observe("cache", start)
			r.log.Debug("payload served from cache", zap.String("keyword", kw))
			return body, true, nil
		case !errors.Is(err, repository.ErrCacheMiss):
			// Not critical, fall through to the source.
			r.log.Warn("payload cache lookup failed", zap.String("keyword", kw), zap.Error(err))
			uc.incError("cache")
		}
	}

	if err := uc.pace(ctx, r); err != nil {
		return nil, false, err
	}
	start := time.Now()
	body, err := uc.source.Fetch(ctx, kw)
	r.lastFetch = time.Now()
	uc.observe("provider", start)
	if err != nil {
		return nil, false, err
	}
	return body, false, nil
}

// store caches a payload that decoded into a scannable tree.
func (uc *scanUseCase) store(ctx context.Context, r *run, kw string, body []byte) {
	if uc.opts.Cache == nil {
		return
	}
	if err := uc.opts.Cache.Set(ctx, kw, body, uc.opts.CacheTTL); err != nil {
		r.log.Warn("failed to cache payload", zap.String("keyword", kw), zap.Error(err))
		uc.incError("cache")
	}
}

// pace waits until PacingDelay has passed since the previous provider fetch.
func (uc *scanUseCase) pace(ctx context.Context, r *run) error {
	if uc.opts.PacingDelay <= 0 || r.lastFetch.IsZero() {
		return nil
	}
	wait := time.Until(r.lastFetch.Add(uc.opts.PacingDelay))
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (uc *scanUseCase) handleKeywordFailure(r *run, kw string, err error) {
	errorType := "fetch"
	switch {
	case errors.Is(err, repository.ErrProviderRejected):
		errorType = "provider"
	case errors.Is(err, payload.ErrMalformed):
		errorType = "decode"
	case errors.Is(err, serp.ErrNotTree):
		errorType = "not_tree"
	}
	r.log.Error("keyword failed, continuing with the next one",
		zap.String("keyword", kw), zap.String("error_type", errorType), zap.Error(err))

	r.result.Failed = append(r.result.Failed, entity.FailedKeyword{
		Keyword:       kw,
		ErrorType:     errorType,
		FailureReason: err.Error(),
		AttemptedAt:   time.Now(),
	})
	if uc.metrics != nil {
		uc.metrics.IncKeyword("failed")
	}
	uc.incError(errorType)
}

func (uc *scanUseCase) observe(source string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.ObserveFetch(source, time.Since(start).Seconds())
	}
}

func (uc *scanUseCase) incError(errorType string) {
	if uc.metrics != nil {
		uc.metrics.IncErrorsTotal(errorType)
	}
}

// normalizeKeywords trims keywords and drops blanks and repeats, keeping order.
func normalizeKeywords(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
