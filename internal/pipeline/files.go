package pipeline

import (
	"path/filepath"
	"strings"
)

// DisplayName returns file relative to baseDir when it lies under it, in
// slash form. Other paths are cleaned and returned as is.
func DisplayName(file, baseDir string) string {
	if file == "" || file == "-" {
		return file
	}
	path := filepath.Clean(file)
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if abs, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(base, abs); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
	}
	return filepath.ToSlash(path)
}

// DisplayNames maps DisplayName over files, dropping empty entries and
// duplicates while keeping the input order.
func DisplayNames(files []string, baseDir string) []string {
	out := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		name := DisplayName(file, baseDir)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
