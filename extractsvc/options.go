package extractsvc

import (
	"context"
	"time"

	"github.com/vortex-fintech/go-contact/contact"
	"github.com/vortex-fintech/go-contact/logger"
	"github.com/vortex-fintech/go-contact/timeutil"
)

const (
	DefaultTimeout        = 250 * time.Millisecond
	DefaultMaxConcurrency = 8
)

// Cache stores records by input text. *cache.RedisCache satisfies it.
type Cache interface {
	Get(ctx context.Context, text string) (contact.Record, bool, error)
	Set(ctx context.Context, text string, rec contact.Record) error
	Delete(ctx context.Context, text string) error
}

// Metrics receives extraction outcomes. *metrics.ExtractionMetrics satisfies it.
type Metrics interface {
	ObserveExtraction(source string, d time.Duration)
	IncFieldMatch(field string)
	IncTimeout()
	IncCache(result string)
}

type Option func(*Service)

func WithLogger(l logger.LoggerInterface) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithClock(c timeutil.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTimeout bounds a single extraction. Zero disables the bound; the
// caller's context deadline still applies.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithMaxConcurrency limits ExtractAll workers; values below 1 are ignored.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveExtraction(string, time.Duration) {}
func (nopMetrics) IncFieldMatch(string)                    {}
func (nopMetrics) IncTimeout()                             {}
func (nopMetrics) IncCache(string)                         {}
