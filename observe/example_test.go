package observe_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/lifecycle/observe"
)

func ExampleNewObserver() {
	ctx := context.Background()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "render-pipeline",
		Version:     "1.4.0",
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	})
	if err != nil {
		fmt.Println("setup failed:", err)
		return
	}
	defer obs.Shutdown(ctx)

	mw := observe.MiddlewareFromObserver(obs)
	publish := mw.Wrap(observe.OpMeta{Component: "staging", Name: "publish"}, func(ctx context.Context) error {
		return nil
	})

	if err := publish(ctx); err != nil {
		fmt.Println("publish failed:", err)
	}
}

func ExampleOpMeta_SpanName() {
	meta := observe.OpMeta{Component: "retry", Name: "fetch-manifest"}
	fmt.Println(meta.SpanName())
	// Output: lifecycle.retry.fetch-manifest
}
