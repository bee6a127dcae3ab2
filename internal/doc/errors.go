package doc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDocument reports a node shape or payload the printer cannot
// serialize. Every document failure wraps it.
var ErrInvalidDocument = errors.New("invalid document")

// Error describes an invalid node.
type Error struct {
	Path   string // location in the tree, "$" is the root
	Kind   Kind   // kind of the offending node, KindInvalid if unknown
	Reason string
}

func (e *Error) Error() string {
	if e.Kind == KindInvalid {
		return fmt.Sprintf("%v at %s: %s", ErrInvalidDocument, e.Path, e.Reason)
	}
	return fmt.Sprintf("%v at %s (%s): %s", ErrInvalidDocument, e.Path, e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return ErrInvalidDocument }

// Invalid builds an *Error for the node reached through the child indices in
// path.
func Invalid(path []int, kind Kind, format string, args ...any) error {
	return &Error{Path: FormatPath(path), Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// FormatPath renders child indices as "$[i][j]...".
func FormatPath(path []int) string {
	var sb strings.Builder
	sb.WriteByte('$')
	for _, i := range path {
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte(']')
	}
	return sb.String()
}
