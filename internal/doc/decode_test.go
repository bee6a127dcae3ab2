package doc

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestDecode_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Node
	}{
		{name: "nil is absent", in: nil, want: nil},
		{name: "string is text", in: "abc", want: Str("abc")},
		{name: "bare break tag", in: ":break", want: BreakNode{}},
		{name: "bare line tag", in: ":line", want: LineNode{Inline: " "}},
		{
			name: "plain vector is a sequence",
			in:   []any{"a", nil, "b"},
			want: Concat{Str("a"), Str("b")},
		},
		{
			name: "string slice is a sequence",
			in:   []string{"x", "y"},
			want: Concat{Str("x"), Str("y")},
		},
		{
			name: "text parts",
			in:   []any{":text", "a", 1, true},
			want: TextNode{Parts: []string{"a", "1", "true"}},
		},
		{
			name: "pass parts",
			in:   []any{":pass", "\x1b[1m"},
			want: PassNode{Parts: []string{"\x1b[1m"}},
		},
		{name: "escaped", in: []any{":escaped", "\t"}, want: EscapedNode{Char: "\t"}},
		{name: "line with fallback", in: []any{":line", ""}, want: LineNode{Inline: ""}},
		{name: "line with nil fallback", in: []any{":line", nil}, want: LineNode{Inline: " "}},
		{name: "break ignores arguments", in: []any{":break", "ignored"}, want: BreakNode{}},
		{
			name: "group children",
			in:   []any{":group", "a", []any{":line"}},
			want: GroupNode{Children: Concat{Str("a"), LineNode{Inline: " "}}},
		},
		{
			name: "span children",
			in:   []any{":span", "a"},
			want: SpanNode{Children: Concat{Str("a")}},
		},
		{
			name: "nest with offset",
			in:   []any{":nest", 2, "a"},
			want: NestNode{Offset: 2, Children: Concat{Str("a")}},
		},
		{
			name: "nest without offset",
			in:   []any{":nest", "a", "b"},
			want: NestNode{Offset: 0, Children: Concat{Str("a"), Str("b")}},
		},
		{
			name: "align with float offset",
			in:   []any{":align", float64(4), "a"},
			want: AlignNode{Offset: 4, Children: Concat{Str("a")}},
		},
		{
			name: "align with unsigned offset",
			in:   []any{":align", uint8(3)},
			want: AlignNode{Offset: 3, Children: Concat{}},
		},
		{
			name: "typed nodes pass through",
			in:   []any{Group(Str("x")), "y"},
			want: Concat{Group(Str("x")), Str("y")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		wantPath string
		wantMsg  string
	}{
		{name: "unknown tag", in: []any{":frob", "x"}, wantPath: "$", wantMsg: "unknown tag"},
		{name: "unknown bare tag", in: []any{"a", ":frob"}, wantPath: "$[1]", wantMsg: "unknown tag"},
		{name: "map", in: []any{map[string]any{"a": 1}}, wantPath: "$[0]", wantMsg: "maps"},
		{name: "bool node", in: true, wantPath: "$", wantMsg: "unexpected bool"},
		{name: "escaped arity", in: []any{":escaped"}, wantPath: "$", wantMsg: "one character"},
		{name: "escaped type", in: []any{":escaped", 1}, wantPath: "$", wantMsg: "expected a string"},
		{name: "line type", in: []any{":line", 3}, wantPath: "$", wantMsg: "must be a string"},
		{name: "line arity", in: []any{":line", "a", "b"}, wantPath: "$", wantMsg: "at most one"},
		{
			name:     "fractional offset",
			in:       []any{":group", []any{":nest", 1.5, "a"}},
			wantPath: "$[1][1]",
			wantMsg:  "not an integer",
		},
		{
			name:     "nested text part",
			in:       []any{":group", "a", []any{":text", "b", []any{"c"}}},
			wantPath: "$[2][2]",
			wantMsg:  "must be a scalar",
		},
		{
			name:     "deep path",
			in:       []any{":group", []any{":nest", 2, "a", []any{":align", []any{":escaped"}}}},
			wantPath: "$[1][3][1]",
			wantMsg:  "one character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if err == nil {
				t.Fatal("Decode() expected error")
			}
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("error %v does not wrap ErrInvalidDocument", err)
			}
			var derr *Error
			if !errors.As(err, &derr) {
				t.Fatalf("error %T is not *Error", err)
			}
			if derr.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", derr.Path, tt.wantPath)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDecode_JSON(t *testing.T) {
	src := `[":group", "[", [":nest", 2, [":line", ""], "a", ",", [":line"], "b"], [":line", ""], "]"]`
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := GroupNode{Children: Concat{
		Str("["),
		NestNode{Offset: 2, Children: Concat{
			LineNode{Inline: ""}, Str("a"), Str(","), LineNode{Inline: " "}, Str("b"),
		}},
		LineNode{Inline: ""},
		Str("]"),
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %s, want %s", Describe(got, 0), Describe(want, 0))
	}
}

func TestEncode_DecodeBack(t *testing.T) {
	tree := Seq(
		Break(),
		Str("plain"),
		Text(":looks-like-a-tag"),
		Group(Text("int", " ", "x"), LineOr(""), Nest(4, Escaped("\t"), Pass("\x1b[0m"))),
		Align(1, Span(Line())),
	)
	data, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatal(err)
	}
	back, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if Describe(back, 0) != Describe(tree, 0) {
		t.Errorf("round trip changed the tree:\n got %s\nwant %s", Describe(back, 0), Describe(tree, 0))
	}
}

func TestJoin(t *testing.T) {
	got := Join(Str(", "), Str("a"), Str("b"), Str("c"))
	want := Concat{Str("a"), Str(", "), Str("b"), Str(", "), Str("c")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Join() = %#v, want %#v", got, want)
	}
	if Join(Str(",")) != nil {
		t.Error("Join() of nothing should be absent")
	}
}

func TestNormalize_NFC(t *testing.T) {
	const decomposed, composed = "e\u0301", "\u00e9"
	tree := Group(Str(decomposed), Text("x", decomposed), LineOr(decomposed), Nest(2, Escaped(decomposed)))
	got := Normalize(tree, norm.NFC)
	want := Group(Str(composed), Text("x", composed), LineOr(composed), Nest(2, Escaped(composed)))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %s, want %s", Describe(got, 0), Describe(want, 0))
	}
	// The input tree is left untouched.
	if tree.(GroupNode).Children[0] != Str(decomposed) {
		t.Error("Normalize mutated its input")
	}
}

func TestDescribe_Limit(t *testing.T) {
	tree := Group(Str("abcdef"), Line())
	if got := Describe(tree, 0); got != `group("abcdef", line(" "))` {
		t.Errorf("Describe() = %s", got)
	}
	if got := Describe(tree, 8); got != `group("a...` {
		t.Errorf("Describe(limit) = %s", got)
	}
}

func TestKind_String(t *testing.T) {
	if KindGroup.String() != "group" || Str("x").Kind() != KindText || Kind(200).String() != "invalid" {
		t.Error("unexpected kind names")
	}
}

func TestDecode_SuggestsTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: ":grup", want: `did you mean ":group"?`},
		{in: ":algin", want: `did you mean ":align"?`},
		{in: ":frob", want: ""},
	}
	for _, tt := range tests {
		_, err := Decode([]any{tt.in, "x"})
		if err == nil {
			t.Fatalf("Decode(%q) expected error", tt.in)
		}
		hasHint := strings.Contains(err.Error(), "did you mean")
		switch {
		case tt.want == "" && hasHint:
			t.Errorf("Decode(%q) = %v, want no suggestion", tt.in, err)
		case tt.want != "" && !strings.Contains(err.Error(), tt.want):
			t.Errorf("Decode(%q) = %v, want %s", tt.in, err, tt.want)
		}
	}
}

func TestDecode_FloatOffsets(t *testing.T) {
	got, err := Decode([]any{":nest", float64(2), "a"})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := NestNode{Offset: 2, Children: Concat{Str("a")}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}

	_, err = Decode([]any{":nest", 1.5})
	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("Decode() error = %v, want *Error", err)
	}
	if derr.Path != "$[1]" {
		t.Errorf("Path = %q, want %q", derr.Path, "$[1]")
	}
}
