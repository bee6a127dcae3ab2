package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "", want: LevelOff},
		{in: "off", want: LevelOff},
		{in: "Phase", want: LevelPhase},
		{in: " detail ", want: LevelDetail},
		{in: "debug", want: LevelDebug},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_ShouldEmit(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopeStage) || LevelPhase.ShouldEmit(ScopeFile) {
		t.Error("phase level should stop at stage scope")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelDetail.ShouldEmit(ScopeGroup) {
		t.Error("detail level should stop at file scope")
	}
	if !LevelDebug.ShouldEmit(ScopeGroup) {
		t.Error("debug level should emit group scope")
	}
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Error("off level should emit nothing")
	}
}

func TestStreamTracer_Text(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeFile, "render", 0)
	span.WithExtra("width", "80").End("ok")
	Point(tr, ScopeGroup, "prune", "too far", span.ID())

	out := buf.String()
	if !strings.Contains(out, "→ render") || !strings.Contains(out, "← render (ok) {width=80}") {
		t.Errorf("unexpected text output:\n%s", out)
	}
	if strings.Contains(out, "prune") {
		t.Error("group events must be filtered at detail level")
	}
}

func TestStreamTracer_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeGroup, "prune", "open=3", 7)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if ev["kind"] != "point" || ev["scope"] != "group" || ev["detail"] != "open=3" {
		t.Errorf("unexpected event %v", ev)
	}
}

func TestRingTracer_Wraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeDriver, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 || r.Len() != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Errorf("snapshot order = %v, want [c d e]", names)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump:\n%s", buf.String())
	}
}

func TestNew_BothExposesRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeStage, "load", "", 0)
	ring := RingOf(tr)
	if ring == nil || ring.Len() != 1 {
		t.Fatal("expected the ring to hold the event")
	}
	if !strings.Contains(buf.String(), "load") {
		t.Error("expected the stream to see the event")
	}

	off, err := New(Config{Level: LevelOff})
	if err != nil || off.Enabled() {
		t.Errorf("LevelOff should yield a disabled tracer, got %v, %v", off, err)
	}
}

func TestResolveFormat(t *testing.T) {
	if ResolveFormat(FormatAuto, "trace.ndjson") != FormatNDJSON {
		t.Error("ndjson extension should select NDJSON")
	}
	if ResolveFormat(FormatAuto, "-") != FormatText {
		t.Error("stderr should select text")
	}
	if ResolveFormat(FormatNDJSON, "trace.txt") != FormatNDJSON {
		t.Error("explicit format must win")
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("empty context should yield Nop")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Error("tracer not propagated")
	}
	span := Begin(r, ScopeDriver, "batch", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx).SpanID != span.ID() {
		t.Error("span not propagated")
	}
}

func TestBegin_DisabledIsInert(t *testing.T) {
	s := Begin(Nop, ScopeDriver, "x", 0)
	if s == nil || s.ID() != 0 {
		t.Fatal("expected an inert span")
	}
	if s.WithExtra("k", "v").End("") != 0 {
		t.Error("inert span should report zero duration")
	}
}
