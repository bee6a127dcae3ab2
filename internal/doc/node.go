package doc

// Kind identifies a node kind.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindText
	KindPass
	KindEscaped
	KindLine
	KindBreak
	KindSpan
	KindGroup
	KindNest
	KindAlign
	KindConcat
)

// String returns the tag used for the kind in the data form.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPass:
		return "pass"
	case KindEscaped:
		return "escaped"
	case KindLine:
		return "line"
	case KindBreak:
		return "break"
	case KindSpan:
		return "span"
	case KindGroup:
		return "group"
	case KindNest:
		return "nest"
	case KindAlign:
		return "align"
	case KindConcat:
		return "concat"
	default:
		return "invalid"
	}
}

// DefaultInline is the fallback a soft line renders when its group fits.
const DefaultInline = " "

// Node is a document tree node. The set of implementations is closed.
type Node interface {
	Kind() Kind
	node()
}

// Str is a bare string: literal text.
type Str string

// TextNode is literal text made of one or more parts.
type TextNode struct {
	Parts []string
}

// PassNode is verbatim text excluded from width accounting.
type PassNode struct {
	Parts []string
}

// EscapedNode holds a single character measured as width 1, whatever it
// renders as.
type EscapedNode struct {
	Char string
}

// LineNode is a soft break.
type LineNode struct {
	Inline string
}

// BreakNode is a hard newline.
type BreakNode struct{}

// SpanNode groups children without introducing a fit boundary.
type SpanNode struct {
	Children []Node
}

// GroupNode is rendered entirely on one line if it fits, otherwise every
// soft line directly inside it breaks.
type GroupNode struct {
	Children []Node
}

// NestNode indents its children by Offset relative to the current indent.
type NestNode struct {
	Offset   int
	Children []Node
}

// AlignNode indents its children to the current column plus Offset.
type AlignNode struct {
	Offset   int
	Children []Node
}

// Concat is a sequence of nodes rendered one after another.
type Concat []Node

func (Str) Kind() Kind         { return KindText }
func (TextNode) Kind() Kind    { return KindText }
func (PassNode) Kind() Kind    { return KindPass }
func (EscapedNode) Kind() Kind { return KindEscaped }
func (LineNode) Kind() Kind    { return KindLine }
func (BreakNode) Kind() Kind   { return KindBreak }
func (SpanNode) Kind() Kind    { return KindSpan }
func (GroupNode) Kind() Kind   { return KindGroup }
func (NestNode) Kind() Kind    { return KindNest }
func (AlignNode) Kind() Kind   { return KindAlign }
func (Concat) Kind() Kind      { return KindConcat }

func (Str) node()         {}
func (TextNode) node()    {}
func (PassNode) node()    {}
func (EscapedNode) node() {}
func (LineNode) node()    {}
func (BreakNode) node()   {}
func (SpanNode) node()    {}
func (GroupNode) node()   {}
func (NestNode) node()    {}
func (AlignNode) node()   {}
func (Concat) node()      {}

// Text returns a text node of the concatenated parts.
func Text(parts ...string) Node { return TextNode{Parts: parts} }

// Pass returns a verbatim node of the concatenated parts.
func Pass(parts ...string) Node { return PassNode{Parts: parts} }

// Escaped returns a width-1 node for c. c must be exactly one character;
// this is checked when the document is serialized.
func Escaped(c string) Node { return EscapedNode{Char: c} }

// Line returns a soft break whose inline fallback is a single space.
func Line() Node { return LineNode{Inline: DefaultInline} }

// LineOr returns a soft break rendering inline when its group fits.
func LineOr(inline string) Node { return LineNode{Inline: inline} }

// Break returns a hard newline.
func Break() Node { return BreakNode{} }

// Span concatenates children without a fit boundary.
func Span(children ...Node) Node { return SpanNode{Children: children} }

// Group makes children a fit-decision unit.
func Group(children ...Node) Node { return GroupNode{Children: children} }

// Nest indents children by offset relative to the enclosing indent.
func Nest(offset int, children ...Node) Node {
	return NestNode{Offset: offset, Children: children}
}

// Align indents children to the current column plus offset.
func Align(offset int, children ...Node) Node {
	return AlignNode{Offset: offset, Children: children}
}

// Seq concatenates nodes.
func Seq(children ...Node) Node { return Concat(children) }

// Join interleaves sep between nodes.
func Join(sep Node, nodes ...Node) Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make(Concat, 0, 2*len(nodes)-1)
	for i, n := range nodes {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, n)
	}
	return out
}
