// Package highlight colours rendered output for terminals with chroma. It
// runs after layout, so escape codes never take part in width decisions.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is used when no style is named.
const DefaultStyle = "monokai"

// Highlighter colours text of one language.
type Highlighter struct {
	Language string
	lexer    chroma.Lexer
	style    *chroma.Style
	format   chroma.Formatter
}

// New returns a highlighter for language. An empty style selects
// DefaultStyle; formatter is a chroma formatter name such as "terminal256"
// or "terminal16m", "terminal256" when empty.
func New(language, style, formatter string) (*Highlighter, error) {
	lx := lexers.Get(language)
	if lx == nil {
		return nil, fmt.Errorf("highlight: unknown language %q", language)
	}
	if style == "" {
		style = DefaultStyle
	}
	st := styles.Get(style)
	if formatter == "" {
		formatter = "terminal256"
	}
	f, ok := formatters.Registry[formatter]
	if !ok {
		return nil, fmt.Errorf("highlight: unknown formatter %q", formatter)
	}
	return &Highlighter{
		Language: lx.Config().Name,
		lexer:    chroma.Coalesce(lx),
		style:    st,
		format:   f,
	}, nil
}

// Write writes src to w with colour escapes.
func (h *Highlighter) Write(w io.Writer, src string) error {
	it, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return h.format.Format(w, h.style, it)
}

// String returns src with colour escapes.
func (h *Highlighter) String(src string) (string, error) {
	var sb strings.Builder
	if err := h.Write(&sb, src); err != nil {
		return "", err
	}
	return sb.String(), nil
}
