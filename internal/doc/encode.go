package doc

import (
	"fmt"
	"strings"
)

// Encode converts a tree into its data form, the inverse of Decode. The
// result marshals directly with encoding/json, yaml.v3 or msgpack, which is
// how producers hand documents to the weave CLI.
func Encode(n Node) (any, error) {
	e := encoder{}
	return e.encode(n)
}

type encoder struct {
	path []int
}

func (e *encoder) encode(n Node) (any, error) {
	switch x := n.(type) {
	case nil:
		return nil, nil
	case Str:
		return textForm(string(x)), nil
	case TextNode:
		return tagged(":text", stringsToAny(x.Parts)...), nil
	case PassNode:
		return tagged(":pass", stringsToAny(x.Parts)...), nil
	case EscapedNode:
		return []any{":escaped", x.Char}, nil
	case LineNode:
		if x.Inline == DefaultInline {
			return []any{":line"}, nil
		}
		return []any{":line", x.Inline}, nil
	case BreakNode:
		// A vector, not the bare tag: a bare tag heading a sequence would
		// turn the sequence into a node.
		return []any{":break"}, nil
	case SpanNode:
		return e.vector(":span", nil, x.Children)
	case GroupNode:
		return e.vector(":group", nil, x.Children)
	case NestNode:
		return e.vector(":nest", []any{x.Offset}, x.Children)
	case AlignNode:
		return e.vector(":align", []any{x.Offset}, x.Children)
	case Concat:
		return e.seq(x, 0)
	default:
		return nil, Invalid(e.path, KindInvalid, "unexpected node type %T", n)
	}
}

func (e *encoder) vector(tag string, head []any, children []Node) (any, error) {
	out := append([]any{tag}, head...)
	rest, err := e.seq(children, len(out))
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}

func (e *encoder) seq(children []Node, base int) ([]any, error) {
	out := make([]any, 0, len(children))
	for i, c := range children {
		e.path = append(e.path, base+i)
		v, err := e.encode(c)
		e.path = e.path[:len(e.path)-1]
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// textForm keeps literal text that looks like a tag from being decoded as
// one.
func textForm(s string) any {
	if _, ok := tagOf(s); ok {
		return []any{":text", s}
	}
	return s
}

func tagged(tag string, args ...any) []any {
	return append([]any{tag}, args...)
}

func stringsToAny(parts []string) []any {
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

// Describe renders a compact, single-line description of a tree for
// diagnostics and trace output. Long trees are cut at limit runes.
func Describe(n Node, limit int) string {
	var sb strings.Builder
	describe(&sb, n)
	s := sb.String()
	if limit > 0 {
		if r := []rune(s); len(r) > limit {
			return string(r[:limit]) + "..."
		}
	}
	return s
}

func describe(sb *strings.Builder, n Node) {
	switch x := n.(type) {
	case nil:
		sb.WriteString("nil")
	case Str:
		fmt.Fprintf(sb, "%q", string(x))
	case TextNode:
		fmt.Fprintf(sb, "text(%q)", strings.Join(x.Parts, ""))
	case PassNode:
		fmt.Fprintf(sb, "pass(%q)", strings.Join(x.Parts, ""))
	case EscapedNode:
		fmt.Fprintf(sb, "escaped(%q)", x.Char)
	case LineNode:
		fmt.Fprintf(sb, "line(%q)", x.Inline)
	case BreakNode:
		sb.WriteString("break")
	case SpanNode:
		describeChildren(sb, "span(", x.Children)
	case GroupNode:
		describeChildren(sb, "group(", x.Children)
	case NestNode:
		describeChildren(sb, fmt.Sprintf("nest(%d, ", x.Offset), x.Children)
	case AlignNode:
		describeChildren(sb, fmt.Sprintf("align(%d, ", x.Offset), x.Children)
	case Concat:
		describeChildren(sb, "[", x)
	default:
		fmt.Fprintf(sb, "%T", n)
	}
}

func describeChildren(sb *strings.Builder, open string, children []Node) {
	sb.WriteString(open)
	for i, c := range children {
		if i > 0 {
			sb.WriteString(", ")
		}
		describe(sb, c)
	}
	if open == "[" {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
}
