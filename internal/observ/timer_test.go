package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("decode")
	tm.End(idx, "3 defs")
	boom := errors.New("boom")
	if err := tm.Track("lower", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Track must return fn's error: got=%v", err)
	}
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases: got=%d want=2", len(report.Phases))
	}
	if report.Phases[0].Note != "3 defs" || report.Phases[1].Note != "failed" {
		t.Fatalf("notes: got=%+v", report.Phases)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Fatalf("total %.3f below phase %.3f", report.TotalMS, report.Phases[0].DurationMS)
	}
	summary := tm.Summary()
	for _, want := range []string{"decode", "lower", "// failed", "total"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	var tm *Timer
	if r := tm.Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("nil timer must report nothing: %+v", r)
	}
}
