package pretty

import (
	"strings"
	"unicode/utf8"

	"weave/internal/doc"
)

// Serialize flattens n into its op stream. On error no ops are returned.
func Serialize(n doc.Node) ([]Op, error) {
	var ops []Op
	s := serializer{}
	err := s.walk(n, func(op Op) error {
		ops = append(ops, op)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ops, nil
}

// serializer walks a tree depth first. path holds child indices for error
// reporting.
type serializer struct {
	path []int
}

func (s *serializer) walk(n doc.Node, emit func(Op) error) error {
	switch x := n.(type) {
	case nil:
		return nil
	case doc.Str:
		return emit(Op{Kind: OpText, Text: string(x)})
	case doc.TextNode:
		return emit(Op{Kind: OpText, Text: strings.Join(x.Parts, "")})
	case doc.PassNode:
		return emit(Op{Kind: OpPass, Text: strings.Join(x.Parts, "")})
	case doc.EscapedNode:
		if utf8.RuneCountInString(x.Char) != 1 {
			return doc.Invalid(s.path, doc.KindEscaped, "expected exactly one character, got %q", x.Char)
		}
		return emit(Op{Kind: OpEscaped, Text: x.Char})
	case doc.LineNode:
		return emit(Op{Kind: OpLine, Text: x.Inline})
	case doc.BreakNode:
		return emit(Op{Kind: OpBreak})
	case doc.SpanNode:
		return s.children(x.Children, emit)
	case doc.GroupNode:
		return s.wrap(Op{Kind: OpBegin}, x.Children, Op{Kind: OpEnd}, emit)
	case doc.NestNode:
		return s.wrap(Op{Kind: OpNest, Offset: x.Offset}, x.Children, Op{Kind: OpOutdent}, emit)
	case doc.AlignNode:
		return s.wrap(Op{Kind: OpAlign, Offset: x.Offset}, x.Children, Op{Kind: OpOutdent}, emit)
	case doc.Concat:
		return s.children(x, emit)
	default:
		return doc.Invalid(s.path, doc.KindInvalid, "unexpected node %T", n)
	}
}

func (s *serializer) wrap(open Op, children []doc.Node, close Op, emit func(Op) error) error {
	if err := emit(open); err != nil {
		return err
	}
	if err := s.children(children, emit); err != nil {
		return err
	}
	return emit(close)
}

func (s *serializer) children(children []doc.Node, emit func(Op) error) error {
	for i, c := range children {
		s.path = append(s.path, i)
		err := s.walk(c, emit)
		s.path = s.path[:len(s.path)-1]
		if err != nil {
			return err
		}
	}
	return nil
}
