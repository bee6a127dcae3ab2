// Package doc defines the document tree consumed by the pretty printer.
//
// A document describes layout intent: text interleaved with groups, soft and
// hard line breaks and indentation directives. Documents are built once by a
// producer (typically a code generator walking its IR) and are never mutated
// afterwards; internal/pretty turns them into width-aware text.
//
// # Node kinds
//
//   - Str, Text: literal text, measured by rune count.
//   - Pass: verbatim text that is never measured (control sequences).
//   - Escaped: a single character measured as width 1.
//   - Line: a soft break; renders its inline fallback when the enclosing group
//     fits, a newline otherwise.
//   - Break: a hard newline.
//   - Span: transparent grouping.
//   - Group: the unit of the fit decision.
//   - Nest, Align: indentation relative to the current indent or column.
//   - Concat: a sequence of nodes.
//
// A nil Node is absent and contributes nothing.
//
// # Data form
//
// Decode builds a tree from the loosely typed values produced by JSON, YAML and
// msgpack decoders, using hiccup-style vectors:
//
//	[":group", "[", [":nest", 2, [":line", ""], "a", ",", [":line"], "b"], [":line", ""], "]"]
//
// Strings are text, vectors headed by a ":tag" are nodes, other vectors are
// sequences.
package doc
