package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy defines how delays grow between attempts.
type BackoffStrategy int

const (
	// BackoffConstant uses the same delay before every retry.
	BackoffConstant BackoffStrategy = iota
	// BackoffLinear grows the delay linearly with the attempt index.
	BackoffLinear
	// BackoffExponential multiplies the delay each attempt.
	BackoffExponential
)

// Config configures a retry Policy.
type Config struct {
	// Attempts is the maximum number of attempts, including the first.
	// Minimum is 1. Default: 3
	Attempts int

	// Delay is the base wait between attempts.
	// Default: 10s
	Delay time.Duration

	// MaxDelay caps the computed delay between attempts.
	// Default: 5m
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier for BackoffExponential.
	// Default: 2.0
	Multiplier float64

	// Strategy is the backoff strategy.
	// Default: BackoffConstant
	Strategy BackoffStrategy

	// Jitter adds up to 25% randomness to each delay.
	// Default: false
	Jitter bool

	// RetryIf selects which failure categories are eligible for retry.
	// An error it rejects propagates on first occurrence regardless of
	// remaining attempts. Default: all non-nil errors are eligible.
	RetryIf func(err error) bool

	// Classifier, when set, decides whether an eligible failure is retried.
	// It receives the failure, the 1-based attempt index, and the attempt
	// budget. Returning false propagates immediately. It replaces the
	// default retry-unless-last-attempt policy but cannot retry past the
	// budget and cannot resurrect errors RetryIf rejected.
	Classifier func(err error, attempt, total int) bool

	// OnRetry is called before each delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Policy drives bounded retry cycles.
type Policy struct {
	config Config
}

// New creates a Policy, applying defaults for unset fields.
func New(config Config) *Policy {
	if config.Attempts <= 0 {
		config.Attempts = 3
	}
	if config.Delay <= 0 {
		config.Delay = 10 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 5 * time.Minute
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Policy{config: config}
}

// Attempt scopes one execution of caller work within a retry cycle.
type Attempt struct {
	// Index is the 1-based attempt number.
	Index int
	// Total is the attempt budget for the cycle.
	Total int

	resolved bool
	err      error
}

// resolve records the attempt's outcome. Exactly one outcome is recorded
// per attempt before the policy decides what to do with it.
func (a *Attempt) resolve(err error) {
	a.resolved = true
	a.err = err
}

// Err returns the captured failure, or nil for a successful attempt.
func (a *Attempt) Err() error {
	return a.err
}

// Last reports whether this is the final attempt of the cycle.
func (a *Attempt) Last() bool {
	return a.Index == a.Total
}

// Do runs op once per attempt until it succeeds, its failure is not
// eligible for retry, the classifier declines, or the budget is exhausted.
//
// Each invocation receives a fresh Attempt describing its position in the
// cycle. The error returned from a failed cycle is the original failure
// from the final attempt.
func (p *Policy) Do(ctx context.Context, op func(ctx context.Context, a *Attempt) error) error {
	total := p.config.Attempts
	var lastErr error

	for i := 1; i <= total; i++ {
		a := &Attempt{Index: i, Total: total}
		a.resolve(op(ctx, a))

		if a.err == nil {
			return nil
		}
		lastErr = a.err

		// Ineligible categories propagate on first occurrence.
		if !p.config.RetryIf(a.err) {
			return a.err
		}

		if p.config.Classifier != nil {
			if !p.config.Classifier(a.err, i, total) || a.Last() {
				return a.err
			}
		} else if a.Last() {
			break
		}

		delay := p.delay(i)
		if p.config.OnRetry != nil {
			p.config.OnRetry(i, a.err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// Execute runs op with retry logic, without exposing the attempt handle.
func (p *Policy) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	return p.Do(ctx, func(ctx context.Context, _ *Attempt) error {
		return op(ctx)
	})
}

func (p *Policy) delay(attempt int) time.Duration {
	var delay time.Duration

	switch p.config.Strategy {
	case BackoffConstant:
		delay = p.config.Delay

	case BackoffLinear:
		delay = p.config.Delay * time.Duration(attempt)

	case BackoffExponential:
		multiplier := math.Pow(p.config.Multiplier, float64(attempt-1))
		delay = time.Duration(float64(p.config.Delay) * multiplier)
	}

	if delay > p.config.MaxDelay {
		delay = p.config.MaxDelay
	}

	if p.config.Jitter && delay > 0 {
		// Up to 25% jitter.
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		jitter := time.Duration(rand.Int64N(int64(delay / 4)))
		delay = delay + jitter
	}

	return delay
}

// Config returns the policy configuration.
func (p *Policy) Config() Config {
	return p.config
}
