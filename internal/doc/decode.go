package doc

import (
	"fmt"
	"math"

	"fortio.org/safecast"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// tagKinds maps data-form tags to node kinds.
var tagKinds = map[string]Kind{
	":text":    KindText,
	":pass":    KindPass,
	":escaped": KindEscaped,
	":line":    KindLine,
	":break":   KindBreak,
	":span":    KindSpan,
	":group":   KindGroup,
	":nest":    KindNest,
	":align":   KindAlign,
}

// Decode converts a data-form value into a document tree.
//
// Accepted shapes: nil (absent), string (text, or a bare ":tag"), []any
// (a node when headed by a ":tag", a sequence otherwise), []string
// (a sequence of texts) and Node values, which are taken as is. A string
// that looks like a tag but names no node kind is an error; write literal
// text such as ":x" as [":text", ":x"].
func Decode(v any) (Node, error) {
	d := decoder{}
	return d.decode(v)
}

type decoder struct {
	path []int
}

func (d *decoder) push(i int) { d.path = append(d.path, i) }
func (d *decoder) pop()       { d.path = d.path[:len(d.path)-1] }

func (d *decoder) errorf(kind Kind, format string, args ...any) error {
	return Invalid(d.path, kind, format, args...)
}

func (d *decoder) decode(v any) (Node, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Node:
		return x, nil
	case string:
		if tag, ok := tagOf(x); ok {
			kind, known := tagKinds[tag]
			if !known {
				return nil, d.unknownTag(tag)
			}
			return d.node(kind, nil)
		}
		return Str(x), nil
	case []string:
		seq := make(Concat, len(x))
		for i, s := range x {
			seq[i] = Str(s)
		}
		return seq, nil
	case []any:
		return d.vector(x)
	case map[string]any, map[any]any:
		return nil, d.errorf(KindInvalid, "maps are not document nodes")
	default:
		return nil, d.errorf(KindInvalid, "unexpected %T", v)
	}
}

func (d *decoder) vector(v []any) (Node, error) {
	if len(v) > 0 {
		if head, ok := v[0].(string); ok {
			if tag, isTag := tagOf(head); isTag {
				kind, known := tagKinds[tag]
				if !known {
					return nil, d.unknownTag(tag)
				}
				return d.node(kind, v[1:])
			}
		}
	}
	return d.children(v, 0)
}

// children decodes args as a sequence; base is the index of args[0] in the
// enclosing vector and keeps error paths aligned with the input.
func (d *decoder) children(args []any, base int) (Concat, error) {
	out := make(Concat, 0, len(args))
	for i, a := range args {
		d.push(base + i)
		n, err := d.decode(a)
		d.pop()
		if err != nil {
			return nil, err
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (d *decoder) node(kind Kind, args []any) (Node, error) {
	switch kind {
	case KindText, KindPass:
		parts, err := d.parts(kind, args)
		if err != nil {
			return nil, err
		}
		if kind == KindText {
			return TextNode{Parts: parts}, nil
		}
		return PassNode{Parts: parts}, nil

	case KindEscaped:
		if len(args) != 1 {
			return nil, d.errorf(kind, "expected one character argument, got %d arguments", len(args))
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, d.errorf(kind, "expected a string, got %T", args[0])
		}
		return EscapedNode{Char: s}, nil

	case KindLine:
		switch len(args) {
		case 0:
			return LineNode{Inline: DefaultInline}, nil
		case 1:
			if args[0] == nil {
				return LineNode{Inline: DefaultInline}, nil
			}
			s, ok := args[0].(string)
			if !ok {
				return nil, d.errorf(kind, "inline fallback must be a string, got %T", args[0])
			}
			return LineNode{Inline: s}, nil
		default:
			return nil, d.errorf(kind, "expected at most one argument, got %d", len(args))
		}

	case KindBreak:
		return BreakNode{}, nil

	case KindSpan, KindGroup:
		children, err := d.children(args, 1)
		if err != nil {
			return nil, err
		}
		if kind == KindSpan {
			return SpanNode{Children: children}, nil
		}
		return GroupNode{Children: children}, nil

	case KindNest, KindAlign:
		offset, rest, base := 0, args, 1
		if len(args) > 0 {
			n, numeric, err := toInt(args[0])
			if err != nil {
				d.push(1)
				defer d.pop()
				return nil, d.errorf(kind, "offset: %v", err)
			}
			if numeric {
				offset, rest, base = n, args[1:], 2
			}
		}
		children, err := d.children(rest, base)
		if err != nil {
			return nil, err
		}
		if kind == KindNest {
			return NestNode{Offset: offset, Children: children}, nil
		}
		return AlignNode{Offset: offset, Children: children}, nil
	}
	return nil, d.errorf(kind, "unsupported node kind")
}

// parts stringifies scalar arguments of text and pass nodes.
func (d *decoder) parts(kind Kind, args []any) ([]string, error) {
	parts := make([]string, 0, len(args))
	for i, a := range args {
		switch x := a.(type) {
		case nil:
		case string:
			parts = append(parts, x)
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			parts = append(parts, fmt.Sprint(x))
		default:
			d.push(i + 1)
			defer d.pop()
			return nil, d.errorf(kind, "part must be a scalar, got %T", a)
		}
	}
	return parts, nil
}

func (d *decoder) unknownTag(tag string) error {
	if near := suggestTag(tag); near != "" {
		return d.errorf(KindInvalid, "unknown tag %q (did you mean %q?)", tag, near)
	}
	return d.errorf(KindInvalid, "unknown tag %q", tag)
}

// suggestTag returns the known tag closest to tag, or "" when none is
// similar enough to be a likely typo.
func suggestTag(tag string) string {
	const minSimilarity = 0.6
	lev := metrics.NewLevenshtein()
	best, bestScore := "", minSimilarity
	for known := range tagKinds {
		if score := strutil.Similarity(tag, known, lev); score > bestScore ||
			(score == bestScore && best != "" && known < best) {
			best, bestScore = known, score
		}
	}
	return best
}

// tagOf reports whether s is shaped like a tag: a colon followed by lower
// case letters and dashes.
func tagOf(s string) (string, bool) {
	if len(s) < 2 || s[0] != ':' {
		return "", false
	}
	for _, r := range s[1:] {
		if (r < 'a' || r > 'z') && r != '-' {
			return "", false
		}
	}
	return s, true
}

// toInt converts a decoded number to int. numeric is false when v is not a
// number at all.
func toInt(v any) (n int, numeric bool, err error) {
	switch x := v.(type) {
	case int:
		return x, true, nil
	case int8:
		n, err = safecast.Conv[int](x)
	case int16:
		n, err = safecast.Conv[int](x)
	case int32:
		n, err = safecast.Conv[int](x)
	case int64:
		n, err = safecast.Conv[int](x)
	case uint:
		n, err = safecast.Conv[int](x)
	case uint8:
		n, err = safecast.Conv[int](x)
	case uint16:
		n, err = safecast.Conv[int](x)
	case uint32:
		n, err = safecast.Conv[int](x)
	case uint64:
		n, err = safecast.Conv[int](x)
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	default:
		return 0, false, nil
	}
	return n, true, err
}

func floatToInt(f float64) (int, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, true, fmt.Errorf("%v is not an integer", f)
	}
	n, err := safecast.Convert[int](f)
	return n, true, err
}
