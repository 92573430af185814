package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerPhases(t *testing.T) {
	timer := NewTimer()
	load := timer.Begin("load")
	time.Sleep(time.Millisecond)
	timer.End(load, 1, 2)
	check := timer.Begin("check")
	timer.End(check, 0, 0)

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(report.Phases))
	}
	if p := report.Phases[0]; p.Name != "load" || p.Analyzed != 1 || p.Cached != 2 {
		t.Errorf("phase 0 = %+v", p)
	}
	if report.Phases[0].DurationMS <= 0 {
		t.Errorf("phase 0 duration = %f", report.Phases[0].DurationMS)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Errorf("total %f below phase duration %f", report.TotalMS, report.Phases[0].DurationMS)
	}
	if report.ClassesPerSec <= 0 {
		t.Errorf("classes/s = %f", report.ClassesPerSec)
	}

	summary := timer.Summary()
	for _, want := range []string{"load", "check", "total", "3 classes", "2 cached", "classes/s"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	timer := NewTimer()
	timer.End(3, 1, 0) // must not panic
	if got := timer.Report(); len(got.Phases) != 0 {
		t.Fatalf("report = %+v", got)
	}
}
