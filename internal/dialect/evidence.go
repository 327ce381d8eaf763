package dialect

import "skarn/internal/source"

// Hint is one piece of evidence for a particular dialect. It is not a
// diagnostic; classification decides later whether any of it surfaces.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span
}

// Evidence aggregates the hints collected while tokenizing one file.
// A nil *Evidence is a valid "collection off" value everywhere.
type Evidence struct {
	hints []Hint
}

func NewEvidence() *Evidence {
	return &Evidence{hints: make([]Hint, 0, 16)}
}

func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Strongest returns the highest-scoring hint for the given dialect.
func (e *Evidence) Strongest(kind Kind) (Hint, bool) {
	if e == nil {
		return Hint{}, false
	}
	best := Hint{}
	found := false
	for _, h := range e.hints {
		if h.Dialect != kind {
			continue
		}
		if !found || h.Score > best.Score {
			best = h
			found = true
		}
	}
	return best, found
}
