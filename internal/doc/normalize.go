package doc

import "golang.org/x/text/unicode/norm"

// Normalize returns a copy of n with every text payload (text, pass,
// escaped and line fallbacks) converted to the Unicode normalization form f.
//
// Widths are rune counts, so a decomposed "é" measures 2 where the
// composed "é" measures 1; producers that assemble text from mixed sources
// normalize to NFC before rendering to keep the layout stable.
func Normalize(n Node, f norm.Form) Node {
	switch x := n.(type) {
	case nil:
		return nil
	case Str:
		return Str(f.String(string(x)))
	case TextNode:
		return TextNode{Parts: normalizeParts(x.Parts, f)}
	case PassNode:
		return PassNode{Parts: normalizeParts(x.Parts, f)}
	case EscapedNode:
		return EscapedNode{Char: f.String(x.Char)}
	case LineNode:
		return LineNode{Inline: f.String(x.Inline)}
	case SpanNode:
		return SpanNode{Children: normalizeChildren(x.Children, f)}
	case GroupNode:
		return GroupNode{Children: normalizeChildren(x.Children, f)}
	case NestNode:
		return NestNode{Offset: x.Offset, Children: normalizeChildren(x.Children, f)}
	case AlignNode:
		return AlignNode{Offset: x.Offset, Children: normalizeChildren(x.Children, f)}
	case Concat:
		return Concat(normalizeChildren(x, f))
	default:
		// Unknown values are left for the serializer to reject.
		return n
	}
}

func normalizeParts(parts []string, f norm.Form) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = f.String(p)
	}
	return out
}

func normalizeChildren(children []Node, f norm.Form) []Node {
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = Normalize(c, f)
	}
	return out
}
