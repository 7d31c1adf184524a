// Package retry provides a bounded, cancellable retry orchestrator.
//
// A Policy drives a sequence of attempts. Each attempt scopes one execution
// of caller work and captures its outcome; the policy then decides whether
// to stop, delay and retry, or propagate the failure. The failure returned
// after an exhausted or rejected cycle is the original error from the final
// attempt, never wrapped, so callers can match on it with errors.Is and
// errors.As.
//
// The retryable-category filter (RetryIf) is consulted first and always
// wins: an error it rejects propagates on first occurrence. A Classifier,
// when configured, replaces the default retry-unless-last-attempt decision
// for retryable errors, but cannot retry past the attempt budget.
//
// Delays block the calling goroutine, waiting on the configured backoff or
// context cancellation:
//
//	p := retry.New(retry.Config{
//	    Attempts: 3,
//	    Delay:    2 * time.Second,
//	    RetryIf:  func(err error) bool { return errors.Is(err, io.ErrUnexpectedEOF) },
//	})
//
//	err := p.Do(ctx, func(ctx context.Context, a *retry.Attempt) error {
//	    return fetch(ctx)
//	})
package retry
