package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimer_Report(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("config")
	tm.End(idx, "weave.toml")
	tm.End(42, "ignored")
	tm.Add("render (sum)", 5*time.Millisecond, "3 files")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Phases[1].DurationMS != 5 {
		t.Errorf("added phase = %v ms", r.Phases[1].DurationMS)
	}
	if r.TotalMS >= 5 {
		t.Errorf("total %v ms includes the added phase", r.TotalMS)
	}

	s := tm.Summary()
	for _, want := range []string{"config", "// weave.toml", "render (sum)", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary lacks %q:\n%s", want, s)
		}
	}
}

func TestTimer_Empty(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("Report() = %+v", r)
	}
}
