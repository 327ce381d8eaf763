package dialect

// Classification is the outcome of scoring one file's evidence.
type Classification struct {
	Kind            Kind
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
}

// Classifier sums scores per dialect and picks the dominant one.
// Thresholds and dominance policy stay with the caller.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	hints := e.Hints()
	if len(hints) == 0 {
		return Classification{Kind: Unknown}
	}

	var scores [kindCount]int
	total := 0
	observed := 0
	for _, h := range hints {
		observed++
		if h.Score <= 0 {
			continue
		}
		if h.Dialect <= Unknown || h.Dialect >= kindCount {
			continue
		}
		scores[h.Dialect] += h.Score
		total += h.Score
	}

	best, bestScore := Unknown, 0
	runner, runnerScore := Unknown, 0
	for k := Rust; k < kindCount; k++ {
		score := scores[k]
		if score > bestScore {
			runner, runnerScore = best, bestScore
			best, bestScore = k, score
			continue
		}
		if score > runnerScore {
			runner, runnerScore = k, score
		}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}

	return Classification{
		Kind:            best,
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runner,
		RunnerUpScore:   runnerScore,
		ObservedSignals: observed,
	}
}
