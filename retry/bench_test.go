package retry

import (
	"context"
	"testing"
	"time"
)

// BenchmarkPolicy_Do_Success measures happy path overhead.
func BenchmarkPolicy_Do_Success(b *testing.B) {
	p := New(Config{Attempts: 3, Delay: time.Millisecond})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Do(ctx, func(ctx context.Context, a *Attempt) error {
			return nil
		})
	}
}

// BenchmarkPolicy_Delay measures delay computation.
func BenchmarkPolicy_Delay(b *testing.B) {
	p := New(Config{Delay: time.Second, Strategy: BackoffExponential, Jitter: true})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.delay(3)
	}
}
