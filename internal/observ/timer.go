package observ

import (
	"fmt"
	"time"
)

// Phase records the accumulated duration of one stage of a check run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Files int
}

// Timer tracks stage durations for a check run. Stages folded in with
// Add merge by name, so a directory check reports one line per stage no
// matter how many files it visited.
type Timer struct {
	phases []Phase
	index  map[string]int
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), index: make(map[string]int, 8)}
}

// Begin starts a new stage and returns its index.
func (t *Timer) Begin(name string) int {
	if _, ok := t.index[name]; !ok {
		t.index[name] = len(t.phases)
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now(), Files: 1})
	return len(t.phases) - 1
}

// End finishes a stage by its index.
func (t *Timer) End(idx int) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
}

// Add folds d into the stage named name, creating it on first use.
// Directory checks time each file on its own goroutine and fold the
// measurements in here after the workers finish.
func (t *Timer) Add(name string, d time.Duration) {
	if i, ok := t.index[name]; ok {
		t.phases[i].Dur += d
		t.phases[i].Files++
		return
	}
	t.index[name] = len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Dur: d, Files: 1})
}

// Summary returns a human-readable string summarizing all tracked stages.
func (t *Timer) Summary() string {
	return t.Report().Summary()
}

// PhaseReport — сжатая форма одной фазы для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Files      int     `json:"files,omitempty"`
}

// Report описывает агрегированные показания таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз и общую длительность в миллисекундах.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Files:      phase.Files,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Summary renders the report as an aligned text block for terminals.
func (r Report) Summary() string {
	out := "timings:\n"
	for _, p := range r.Phases {
		out += fmt.Sprintf("  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Files > 1 {
			out += fmt.Sprintf("  (%d files)", p.Files)
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-20s %7.2f ms\n", "total", r.TotalMS)
	return out
}
