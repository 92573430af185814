package observ

import (
	"fmt"
	"time"
)

// Phase records one pipeline stage: how long it ran and how many class
// images passed through it, split into freshly analyzed and cache hits.
type Phase struct {
	Name     string
	Start    time.Time
	Dur      time.Duration
	Analyzed int
	Cached   int
}

// Timer tracks the execution time of the check pipeline stages.
type Timer struct {
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index, recording how many classes it
// analyzed and how many it restored from cache.
func (t *Timer) End(idx, analyzed, cached int) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Analyzed = analyzed
	p.Cached = cached
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	out := "timings:\n"
	for _, p := range report.Phases {
		out += fmt.Sprintf("  %-20s %7.2f ms", p.Name, p.DurationMS)
		if total := p.Analyzed + p.Cached; total > 0 {
			out += fmt.Sprintf("  // %d classes", total)
			if p.Cached > 0 {
				out += fmt.Sprintf(", %d cached", p.Cached)
			}
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-20s %7.2f ms", "total", report.TotalMS)
	if report.ClassesPerSec > 0 {
		out += fmt.Sprintf("  // %.0f classes/s", report.ClassesPerSec)
	}
	out += "\n"
	return out
}

// PhaseReport представляет сжатую информацию о фазе для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Analyzed   int     `json:"analyzed,omitempty"`
	Cached     int     `json:"cached,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS       float64       `json:"total_ms"`
	ClassesPerSec float64       `json:"classes_per_sec,omitempty"`
	Phases        []PhaseReport `json:"phases"`
}

// Report формирует срез фаз, общую длительность и пропускную способность.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	classes := 0
	for i, phase := range t.phases {
		total += phase.Dur
		classes += phase.Analyzed + phase.Cached
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Analyzed:   phase.Analyzed,
			Cached:     phase.Cached,
		}
	}
	report.TotalMS = durationToMillis(total)
	if total > 0 && classes > 0 {
		report.ClassesPerSec = float64(classes) / total.Seconds()
	}
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
