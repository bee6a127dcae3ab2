package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var inlineSeeds = []string{
	``,
	`null`,
	`"plain"`,
	`[":break"]`,
	`[":group", "a", [":line"], "b"]`,
	`[":nest", -4, [":line"], "x"]`,
	`[":align", [":group", [":group", [":group", "deep", ":line"]]]]`,
	`[":escaped", "ab"]`,
}

func addCorpusSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "docs")
	if _, err := os.Stat(root); err == nil {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}
			// #nosec G304 -- path comes from the repository testdata walk
			src, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			f.Add(clampSeed(src), uint8(20))
			return nil
		})
	}
	for i, s := range inlineSeeds {
		f.Add([]byte(s), uint8(i*7))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
