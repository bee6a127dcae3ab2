package testkit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Golden compares got with the file at path. With update set the file is
// rewritten instead, creating parent directories as needed.
func Golden(t testing.TB, path string, got []byte, update bool) {
	t.Helper()
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("golden: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("golden: %v", err)
		}
		return
	}
	// #nosec G304 -- golden paths come from the test tables
	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden: %v (run with -update to create it)", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("output differs from %s:\nwant:\n%s\ngot:\n%s", filepath.ToSlash(path), Visible(want), Visible(got))
	}
}

// Visible quotes control characters other than newline so diffs of
// rendered text stay readable.
func Visible(b []byte) string {
	var out bytes.Buffer
	for _, r := range string(b) {
		switch {
		case r == '\n':
			out.WriteString("⏎\n")
		case r < 0x20 || r == 0x7f:
			out.WriteString(`\x`)
			out.WriteByte("0123456789abcdef"[r>>4])
			out.WriteByte("0123456789abcdef"[r&0xf])
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
