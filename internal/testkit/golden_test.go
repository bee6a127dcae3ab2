package testkit

import (
	"path/filepath"
	"testing"
)

func TestGolden_UpdateThenCompare(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	Golden(t, path, []byte("a\n b\n"), true)
	Golden(t, path, []byte("a\n b\n"), false)
}

func TestVisible(t *testing.T) {
	if got := Visible([]byte("\x1b[1m\tx\n")); got != `\x1b[1m\x09x⏎`+"\n" {
		t.Errorf("Visible() = %q", got)
	}
}
