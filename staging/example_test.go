package staging_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonwraymond/lifecycle/staging"
)

func ExampleStager_Run() {
	ctx := context.Background()
	dest := filepath.Join(os.TempDir(), "lifecycle-example", "shot_010")
	defer os.RemoveAll(filepath.Dir(dest))

	s := staging.New(staging.Config{})

	err := s.Run(ctx, dest, func(dir string) error {
		// The job writes into a private staging directory; nothing touches
		// the destination until the job has finished.
		return os.WriteFile(filepath.Join(dir, "beauty.exr"), []byte("pixels"), 0o644)
	})
	if err != nil {
		fmt.Println("publish failed:", err)
		return
	}

	if _, err := os.Stat(filepath.Join(dest, "beauty.exr")); err == nil {
		fmt.Println("published")
	}
	// Output: published
}

func ExampleStager_Prune() {
	ctx := context.Background()
	root := filepath.Join(os.TempDir(), "lifecycle-example-prune")
	defer os.RemoveAll(root)

	for _, v := range []string{"v001", "v002", "v003"} {
		os.MkdirAll(filepath.Join(root, v), 0o755)
	}

	s := staging.New(staging.Config{})
	if err := s.Prune(ctx, root, 2); err != nil {
		fmt.Println("prune failed:", err)
		return
	}

	entries, _ := os.ReadDir(root)
	fmt.Println(len(entries), "versions kept")
	// Output: 2 versions kept
}
