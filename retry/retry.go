package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy is an exponential backoff schedule for startup dependencies such as
// the result cache.
type Policy struct {
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
	Randomization   float64
	MaxElapsed      time.Duration
}

// InitPolicy is the schedule used by RetryInit.
var InitPolicy = Policy{
	InitialInterval: 500 * time.Millisecond,
	Multiplier:      2.0,
	MaxInterval:     5 * time.Second,
	Randomization:   0.5,
	MaxElapsed:      20 * time.Second,
}

// PermanentError wraps a non-retryable error.
type PermanentError struct {
	err error
}

func (e PermanentError) Error() string {
	if e.err == nil {
		return "permanent error"
	}
	return e.err.Error()
}

func (e PermanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		return err
	}
	return PermanentError{err: err}
}

// IsPermanent reports whether err is marked as non-retryable.
func IsPermanent(err error) bool {
	var pe PermanentError
	if errors.As(err, &pe) {
		return true
	}

	var bpe *backoff.PermanentError
	return errors.As(err, &bpe)
}

// RetryInit retries fn with InitPolicy.
func RetryInit(ctx context.Context, fn func() error) error {
	return InitPolicy.Do(ctx, fn)
}

// Do retries fn until it succeeds, returns a permanent error, ctx ends or
// MaxElapsed passes. Zero fields fall back to InitPolicy.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	p = p.withDefaults()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.Multiplier = p.Multiplier
	exp.MaxInterval = p.MaxInterval
	exp.RandomizationFactor = p.Randomization
	exp.Reset()

	type unit struct{}
	op := func() (unit, error) {
		if err := ctx.Err(); err != nil {
			return unit{}, backoff.Permanent(err)
		}

		err := fn()
		if IsPermanent(err) {
			var bpe *backoff.PermanentError
			if errors.As(err, &bpe) {
				return unit{}, err
			}
			return unit{}, backoff.Permanent(err)
		}
		return unit{}, err
	}

	_, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(p.MaxElapsed),
	)
	return err
}

func (p Policy) withDefaults() Policy {
	if p.InitialInterval <= 0 {
		p.InitialInterval = InitPolicy.InitialInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = InitPolicy.Multiplier
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = InitPolicy.MaxInterval
	}
	if p.Randomization < 0 || p.Randomization > 1 {
		p.Randomization = InitPolicy.Randomization
	}
	if p.MaxElapsed <= 0 {
		p.MaxElapsed = InitPolicy.MaxElapsed
	}
	return p
}
