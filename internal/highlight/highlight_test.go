package highlight

import (
	"regexp"
	"testing"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestHighlighter_KeepsText(t *testing.T) {
	h, err := New("glsl", "", "")
	if err != nil {
		t.Fatal(err)
	}
	src := "void main() {\n  gl_FragColor = vec4(1.0);\n}\n"
	got, err := h.String(src)
	if err != nil {
		t.Fatal(err)
	}
	if got == src {
		t.Error("expected colour escapes")
	}
	if plain := ansi.ReplaceAllString(got, ""); plain != src {
		t.Errorf("stripped output = %q, want %q", plain, src)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("no-such-language-xyz", "", ""); err == nil {
		t.Error("expected unknown language error")
	}
	if _, err := New("glsl", "", "no-such-formatter"); err == nil {
		t.Error("expected unknown formatter error")
	}
}
