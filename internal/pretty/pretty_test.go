package pretty

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"weave/internal/doc"
	"weave/internal/trace"
)

// list is the canonical "[a, b]" document.
func list(items ...string) doc.Node {
	nodes := make([]doc.Node, len(items))
	for i, it := range items {
		nodes[i] = doc.Str(it)
	}
	return doc.Group(
		doc.Str("["),
		doc.Nest(2, doc.LineOr(""), doc.Join(doc.Seq(doc.Str(","), doc.Line()), nodes...)),
		doc.LineOr(""),
		doc.Str("]"),
	)
}

func render(t *testing.T, n doc.Node, width int) string {
	t.Helper()
	got, err := String(n, Options{Width: width})
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	return got
}

func TestString_Layouts(t *testing.T) {
	nested := doc.Group(
		doc.Str("("),
		doc.Nest(1,
			doc.Group(doc.Str("aaaa"), doc.Line(), doc.Str("bbbb")),
			doc.Line(),
			doc.Group(doc.Str("cc"), doc.Line(), doc.Str("dd")),
		),
		doc.Str(")"),
	)

	tests := []struct {
		name  string
		in    doc.Node
		width int
		want  string
	}{
		{name: "list breaks when narrow", in: list("a", "b"), width: 3, want: "[\n  a,\n  b\n]"},
		{name: "list stays flat when wide", in: list("a", "b"), width: 80, want: "[a, b]"},
		{name: "list exactly at width", in: list("a", "b"), width: 6, want: "[a, b]"},
		{name: "list one short of width", in: list("a", "b"), width: 5, want: "[\n  a,\n  b\n]"},
		{name: "inner group fits after outer breaks", in: nested, width: 10, want: "(aaaa bbbb\n cc dd)"},
		{name: "inner groups re-evaluated per line", in: nested, width: 9, want: "(aaaa\n bbbb\n cc dd)"},
		{name: "everything flat", in: nested, width: 40, want: "(aaaa bbbb cc dd)"},
		{name: "break always breaks", in: doc.Group(doc.Str("a"), doc.Break(), doc.Str("b")), width: 80, want: "a\nb"},
		{name: "absent and empty", in: doc.Seq(nil, doc.Seq(), doc.Span(), doc.Str("x")), width: 80, want: "x"},
		{name: "text parts concatenate", in: doc.Text("in", "t", " x"), width: 80, want: "int x"},
		{name: "nest pads after break", in: doc.Seq(doc.Str("a"), doc.Nest(4, doc.Break(), doc.Str("b"))), width: 80, want: "a\n    b"},
		{name: "nest pads leading text", in: doc.Nest(4, doc.Str("a"), doc.Break(), doc.Str("b")), width: 80, want: "    a\n    b"},
		{
			name:  "align to column",
			in:    doc.Seq(doc.Str("call("), doc.Align(0, doc.Str("a,"), doc.Break(), doc.Str("b")), doc.Str(")")),
			width: 80,
			want:  "call(a,\n     b)",
		},
		{name: "negative indent pads nothing", in: doc.Nest(-3, doc.Break(), doc.Str("x")), width: 80, want: "\nx"},
		{name: "escaped is padded", in: doc.Nest(2, doc.Break(), doc.Escaped("\t")), width: 80, want: "\n  \t"},
		{name: "width zero expands soft lines", in: doc.Group(doc.Str("a"), doc.Line(), doc.Str("b")), width: 0, want: "a\nb"},
		{name: "width zero lone line", in: doc.Group(doc.Line()), width: 0, want: "\n"},
		{name: "negative width is zero", in: list("a"), width: -5, want: "[\n  a\n]"},
		{name: "empty group fits at zero", in: doc.Seq(doc.Group(), doc.Str("x")), width: 0, want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.in, tt.width); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestString_WideDocumentIsConcatenation(t *testing.T) {
	n := doc.Group(
		doc.Str("vec4"), doc.Str("("),
		doc.Nest(2, doc.Join(doc.Seq(doc.Str(","), doc.Line()), doc.Str("x"), doc.Str("y"), doc.Text("z"), doc.Escaped("w"))),
		doc.Str(")"),
	)
	if got, want := render(t, n, 1000), "vec4(x, y, z, w)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestString_NestZeroIsIdentity(t *testing.T) {
	docs := []doc.Node{
		list("alpha", "beta", "gamma"),
		doc.Seq(doc.Str("x"), doc.Break(), doc.Group(doc.Str("y"), doc.Line(), doc.Str("z"))),
		doc.Align(2, doc.Str("a"), doc.Break(), doc.Str("b")),
	}
	for i, d := range docs {
		for _, w := range []int{0, 3, 8, 80} {
			if a, b := render(t, d, w), render(t, doc.Nest(0, d), w); a != b {
				t.Errorf("doc %d width %d: nest(0) changed output %q -> %q", i, w, a, b)
			}
		}
	}
}

func TestString_Pass(t *testing.T) {
	bold := func(children ...doc.Node) doc.Node {
		return doc.Seq(doc.Pass("\x1b[1m"), doc.Seq(children...), doc.Pass("\x1b[0m"))
	}
	g := doc.Group(bold(doc.Str("ab"), doc.Line(), doc.Str("cd")))

	if got, want := render(t, g, 5), "\x1b[1mab cd\x1b[0m"; got != want {
		t.Errorf("pass counted toward width: %q, want %q", got, want)
	}
	if got, want := render(t, g, 4), "\x1b[1mab\ncd\x1b[0m"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	// Pass neither pads nor moves the column, so the text after it is padded.
	if got, want := render(t, doc.Nest(4, doc.Break(), doc.Pass("P"), doc.Str("x")), 80), "\nP    x"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := render(t, doc.Seq(doc.Pass("a\nb"), doc.Pass(""), doc.Pass("c")), 0), "a\nbc"; got != want {
		t.Errorf("pass-only document = %q, want %q", got, want)
	}
}

func TestString_CountsRunes(t *testing.T) {
	// word is three runes and five bytes.
	const word = "h\u00e9\u00e9"
	g := doc.Group(doc.Str(word), doc.Line(), doc.Str("x"))
	if got, want := render(t, g, 5), word + " x"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := render(t, g, 4), word + "\nx"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRender_TrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, list("a", "b"), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[a, b]\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRender_InvalidDocument(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, doc.Seq(doc.Str("ok"), doc.Group(doc.Str("a"), doc.Escaped("ab"))), DefaultOptions())
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("Render() error = %v, want ErrInvalidDocument", err)
	}
	var derr *doc.Error
	if !errors.As(err, &derr) || derr.Path != "$[1][1]" {
		t.Errorf("error = %v, want path $[1][1]", err)
	}
}

func TestSerialize(t *testing.T) {
	ops, err := Serialize(doc.Group(doc.Str("a"), doc.Nest(2, doc.Line()), doc.Align(1, doc.Pass("p"))))
	if err != nil {
		t.Fatal(err)
	}
	var kinds []OpKind
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}
	want := []OpKind{OpBegin, OpText, OpNest, OpLine, OpOutdent, OpAlign, OpPass, OpOutdent, OpEnd}
	if !slices.Equal(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
	if ops[3].Text != " " || ops[2].Offset != 2 || ops[5].Offset != 1 {
		t.Errorf("payloads lost: %v", ops)
	}

	ops, err = Serialize(doc.Seq(doc.Str("a"), doc.Escaped("")))
	if err == nil || ops != nil {
		t.Errorf("Serialize() = %v, %v; want no ops and an error", ops, err)
	}
}

func TestAnnotate_Fits(t *testing.T) {
	ops, err := Annotate(list("a", "b"), Options{Width: 3})
	if err != nil {
		t.Fatal(err)
	}
	if ops[0].Kind != OpBegin || !ops[0].Fit.IsTooFar() {
		t.Errorf("first op = %v, want a too-far begin", ops[0])
	}

	ops, err = Annotate(list("a", "b"), Options{Width: 80})
	if err != nil {
		t.Fatal(err)
	}
	right, ok := ops[0].Fit.Right()
	if !ok || right != 6 {
		t.Errorf("fit = %v, want fits<=6", ops[0].Fit)
	}
	if last := ops[len(ops)-1]; last.Kind != OpEnd || last.Right != 6 {
		t.Errorf("last op = %v", last)
	}
}

func deepGroups(depth int) doc.Node {
	var n doc.Node = doc.Str("x")
	for range depth {
		n = doc.Group(doc.Str("("), n, doc.Line(), doc.Str(")"))
	}
	return n
}

func TestRenderStats_BoundedLookahead(t *testing.T) {
	tests := []struct {
		name    string
		opt     Options
		maxOpen int
	}{
		{name: "coupled to width", opt: Options{Width: 10}, maxOpen: 10},
		{name: "decoupled", opt: Options{Width: 500, MaxLookahead: 4}, maxOpen: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			st, err := RenderStats(&buf, deepGroups(1000), tt.opt)
			if err != nil {
				t.Fatal(err)
			}
			if st.MaxOpen > tt.maxOpen {
				t.Errorf("MaxOpen = %d, want <= %d", st.MaxOpen, tt.maxOpen)
			}
			if st.Pruned == 0 {
				t.Error("expected groups to be pruned")
			}
			if !strings.HasSuffix(buf.String(), ")\n") {
				t.Errorf("output truncated: %q", buf.String()[max(0, buf.Len()-20):])
			}
		})
	}
}

func TestFragments_EarlyStop(t *testing.T) {
	items := make([]doc.Node, 100)
	for i := range items {
		items[i] = doc.Str("x")
	}
	var got []string
	for frag, err := range Fragments(doc.Seq(items...), DefaultOptions()) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, frag)
		if len(got) == 3 {
			break
		}
	}
	if len(got) != 3 {
		t.Errorf("got %d fragments, want 3", len(got))
	}
}

func TestFragments_ErrorIsLast(t *testing.T) {
	var frags []string
	var errs []error
	for frag, err := range Fragments(doc.Seq(doc.Str("a"), doc.Escaped("toolong")), DefaultOptions()) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		frags = append(frags, frag)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidDocument) {
		t.Fatalf("errors = %v", errs)
	}
	if strings.Join(frags, "") != "a" {
		t.Errorf("fragments before the error = %q", frags)
	}
}

func TestLayout_InvalidOps(t *testing.T) {
	tests := []struct {
		name      string
		ops       []Op
		wantIndex int
	}{
		{name: "end without begin", ops: []Op{{Kind: OpText, Text: "a"}, {Kind: OpEnd}}, wantIndex: 1},
		{name: "unclosed group", ops: []Op{{Kind: OpBegin}, {Kind: OpText, Text: "a"}}, wantIndex: 2},
		{name: "outdent below base", ops: []Op{{Kind: OpNest, Offset: 2}, {Kind: OpOutdent}, {Kind: OpOutdent}}, wantIndex: 2},
		{name: "unknown kind", ops: []Op{{Kind: OpInvalid}}, wantIndex: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			for _, e := range Layout(slices.Values(tt.ops), DefaultOptions()) {
				if e != nil {
					err = e
				}
			}
			if !errors.Is(err, ErrInvalidOp) {
				t.Fatalf("error = %v, want ErrInvalidOp", err)
			}
			var oerr *OpError
			if !errors.As(err, &oerr) || oerr.Index != tt.wantIndex {
				t.Errorf("error = %v, want index %d", err, tt.wantIndex)
			}
		})
	}
}

func TestLayout_MatchesString(t *testing.T) {
	n := list("one", "two", "three")
	ops, err := Serialize(n)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	for frag, err := range Layout(slices.Values(ops), Options{Width: 12}) {
		if err != nil {
			t.Fatal(err)
		}
		sb.WriteString(frag)
	}
	if want := render(t, n, 12); sb.String() != want {
		t.Errorf("Layout() = %q, want %q", sb.String(), want)
	}
}

func TestRender_TracesPrunes(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	if _, err := String(list("a", "b"), Options{Width: 3, Tracer: ring}); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Kind.String()+":"+ev.Name)
	}
	want := []string{"begin:render", "point:prune", "end:render"}
	if !slices.Equal(names, want) {
		t.Errorf("events = %v, want %v", names, want)
	}
}

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{op: Op{Kind: OpText, Text: "a", Right: 1}, want: `text "a" @1`},
		{op: Op{Kind: OpNest, Offset: 2}, want: "nest 2 @0"},
		{op: Op{Kind: OpBegin, Fit: FitsAt(6)}, want: "begin fits<=6 @0"},
		{op: Op{Kind: OpBegin, Fit: TooFar()}, want: "begin too-far @0"},
		{op: Op{Kind: OpEnd, Right: 6}, want: "end @6"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func BenchmarkRender_Flat(b *testing.B) {
	items := make([]string, 200)
	for i := range items {
		items[i] = "item"
	}
	n := list(items...)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := String(n, Options{Width: 80}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender_Deep(b *testing.B) {
	n := deepGroups(2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := String(n, Options{Width: 80}); err != nil {
			b.Fatal(err)
		}
	}
}
