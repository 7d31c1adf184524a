package singleton

import "testing"

// BenchmarkFactory_CachedHit measures the fast read path.
func BenchmarkFactory_CachedHit(b *testing.B) {
	f := New()
	ctor := func() (any, error) { return &widget{}, nil }
	_, _ = f.GetOrCreate("widget", ctor)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.GetOrCreate("widget", ctor)
	}
}

// BenchmarkFactory_CachedHit_Parallel measures read-lock contention.
func BenchmarkFactory_CachedHit_Parallel(b *testing.B) {
	f := New()
	ctor := func() (any, error) { return &widget{}, nil }
	_, _ = f.GetOrCreate("widget", ctor)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = f.GetOrCreate("widget", ctor)
		}
	})
}
