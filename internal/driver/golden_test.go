package driver

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"weave/internal/pretty"
	"weave/internal/testkit"
)

var update = flag.Bool("update", false, "rewrite golden files under testdata/golden")

func TestRenderPaths_Golden(t *testing.T) {
	docs, err := filepath.Glob(filepath.Join("..", "..", "testdata", "docs", "*"))
	if err != nil || len(docs) == 0 {
		t.Fatalf("no documents under testdata/docs: %v", err)
	}
	for _, width := range []int{80, 20} {
		t.Run(fmt.Sprintf("width=%d", width), func(t *testing.T) {
			results, err := RenderPaths(context.Background(), docs, RenderOptions{
				Layout: pretty.Options{Width: width},
				Jobs:   2,
			})
			if err != nil {
				t.Fatal(err)
			}
			for _, r := range results {
				if r.Err != nil {
					t.Errorf("%s: %v", r.Path, r.Err)
					continue
				}
				base := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
				golden := filepath.Join("..", "..", "testdata", "golden", fmt.Sprintf("%s.w%d.txt", base, width))
				testkit.Golden(t, golden, r.Output, *update)
			}
		})
	}
}
