package extractsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-contact/cache"
	"github.com/vortex-fintech/go-contact/contact"
	"github.com/vortex-fintech/go-contact/logger"
	"github.com/vortex-fintech/go-contact/timeutil"
	"github.com/vortex-fintech/go-contact/validator"
)

// ErrTimeout reports that extraction did not finish in time. The result
// returned with it is the empty fallback; callers ask for manual entry.
var ErrTimeout = errors.New("extractsvc: extraction timed out")

// Source tells where a Result came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

type Result struct {
	Record      contact.Record    `json:"record"`
	Source      Source            `json:"source"`
	RequestID   string            `json:"requestId"`
	ExtractedAt time.Time         `json:"extractedAt"`
	Duration    time.Duration     `json:"duration"`
	Violations  map[string]string `json:"violations,omitempty"`
}

// Service wraps an Extractor for callers that need deadlines, batching,
// caching and observability. It is safe for concurrent use.
type Service struct {
	ext            *contact.Extractor
	log            logger.LoggerInterface
	metrics        Metrics
	cache          Cache
	clock          timeutil.Clock
	timeout        time.Duration
	maxConcurrency int
}

// New builds a Service around ext, or around the default extractor when ext is nil.
func New(ext *contact.Extractor, opts ...Option) *Service {
	if ext == nil {
		ext = contact.MustNew()
	}
	s := &Service{
		ext:            ext,
		log:            logger.Nop(),
		metrics:        nopMetrics{},
		clock:          timeutil.Default,
		timeout:        DefaultTimeout,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract returns the record for text. On timeout it returns the empty
// fallback result and an error wrapping ErrTimeout; on cancellation the
// fallback and the context error.
func (s *Service) Extract(ctx context.Context, text string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = withRequestID(ctx)
	start := s.clock.Now()

	if err := ctx.Err(); err != nil {
		return s.fallback(ctx, start, err)
	}

	if rec, ok := s.lookup(ctx, text); ok {
		return s.finish(ctx, rec, SourceCache, start), nil
	}

	rec, err := s.run(ctx, text)
	if err != nil {
		return s.fallback(ctx, start, err)
	}

	res := s.finish(ctx, rec, SourceLive, start)
	s.store(ctx, text, rec)
	return res, nil
}

// ExtractAll extracts every text with at most maxConcurrency workers.
// Results keep input order. Items that time out carry the fallback result;
// only cancellation of ctx fails the batch.
func (s *Service) ExtractAll(ctx context.Context, texts []string) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			res, err := s.Extract(gctx, text)
			results[i] = res
			if err != nil && !errors.Is(err, ErrTimeout) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("extractsvc: batch: %w", err)
	}
	return results, nil
}

// Health pings the cache when it supports it.
func (s *Service) Health(ctx context.Context) error {
	p, ok := s.cache.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, text string) (contact.Record, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if ctx.Done() == nil {
		return s.ext.Extract(text), nil
	}

	done := make(chan contact.Record, 1)
	go func() { done <- s.ext.Extract(text) }()

	select {
	case rec := <-done:
		return rec, nil
	case <-ctx.Done():
		return contact.Record{}, ctx.Err()
	}
}

func (s *Service) lookup(ctx context.Context, text string) (contact.Record, bool) {
	if s.cache == nil || text == "" {
		return contact.Record{}, false
	}

	rec, ok, err := s.cache.Get(ctx, text)
	switch {
	case err != nil:
		s.metrics.IncCache(cacheError)
		s.log.WarnwCtx(ctx, "contact cache lookup failed", "error", err)
		if errors.Is(err, cache.ErrCorruptEntry) {
			s.evict(ctx, text)
		}
		return contact.Record{}, false
	case ok:
		s.metrics.IncCache(cacheHit)
		return rec, true
	default:
		s.metrics.IncCache(cacheMiss)
		return contact.Record{}, false
	}
}

// evict drops an entry that can no longer be decoded so the next store
// replaces it.
func (s *Service) evict(ctx context.Context, text string) {
	if err := s.cache.Delete(ctx, text); err != nil {
		s.log.WarnwCtx(ctx, "contact cache evict failed", "error", err)
		return
	}
	s.log.InfowCtx(ctx, "dropped corrupt contact cache entry")
}

func (s *Service) store(ctx context.Context, text string, rec contact.Record) {
	if s.cache == nil || text == "" {
		return
	}
	if err := s.cache.Set(ctx, text, rec); err != nil {
		s.log.WarnwCtx(ctx, "contact cache store failed", "error", err)
	}
}

func (s *Service) finish(ctx context.Context, rec contact.Record, src Source, start time.Time) Result {
	res := Result{
		Record:      rec,
		Source:      src,
		RequestID:   logger.RequestIDFromContext(ctx),
		ExtractedAt: start,
		Duration:    s.clock.Since(start),
		Violations:  validator.Validate(rec),
	}

	matched := rec.Matched()
	s.metrics.ObserveExtraction(string(src), res.Duration)
	for _, f := range matched {
		s.metrics.IncFieldMatch(string(f))
	}

	masked := rec.Redacted()
	s.log.InfowCtx(ctx, "contact extracted",
		"source", string(src),
		"duration", res.Duration,
		"matched", fieldNames(matched),
		"email", masked.Email,
		"phone", masked.Phone,
		"job_title", masked.JobTitle,
		"website", masked.Website,
	)
	if len(res.Violations) > 0 {
		s.log.WarnwCtx(ctx, "extracted contact failed validation", "violations", res.Violations)
	}
	return res
}

func (s *Service) fallback(ctx context.Context, start time.Time, cause error) (Result, error) {
	res := Result{
		Source:      SourceFallback,
		RequestID:   logger.RequestIDFromContext(ctx),
		ExtractedAt: start,
		Duration:    s.clock.Since(start),
	}
	s.metrics.ObserveExtraction(string(SourceFallback), res.Duration)

	err := fmt.Errorf("extractsvc: %w", cause)
	if errors.Is(cause, context.DeadlineExceeded) {
		s.metrics.IncTimeout()
		err = fmt.Errorf("%w: %w", ErrTimeout, cause)
	}
	s.log.WarnwCtx(ctx, "contact extraction abandoned", "duration", res.Duration, "error", err)
	return res, err
}

func withRequestID(ctx context.Context) context.Context {
	if logger.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	id, err := uuid.NewV7()
	if err != nil {
		return logger.ContextWithRequestID(ctx, uuid.NewString())
	}
	return logger.ContextWithRequestID(ctx, id.String())
}

func fieldNames(fs []contact.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}
