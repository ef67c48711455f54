package apdex

// Summary is a point-in-time snapshot of an accumulator, shaped for report
// encoding. Score is nil when no samples were recorded.
type Summary struct {
	Threshold  float64  `json:"threshold" yaml:"threshold"`
	Satisfied  uint64   `json:"satisfied" yaml:"satisfied"`
	Tolerated  uint64   `json:"tolerated" yaml:"tolerated"`
	Frustrated uint64   `json:"frustrated" yaml:"frustrated"`
	Total      uint64   `json:"total" yaml:"total"`
	Score      *float64 `json:"score" yaml:"score"`
	Rating     string   `json:"rating" yaml:"rating"`
	SmallGroup bool     `json:"small_group,omitempty" yaml:"small_group,omitempty"`

	// Zone shares as percentages of total; zero-valued with no samples.
	SatisfiedPct  float64 `json:"satisfied_pct" yaml:"satisfied_pct"`
	ToleratedPct  float64 `json:"tolerated_pct" yaml:"tolerated_pct"`
	FrustratedPct float64 `json:"frustrated_pct" yaml:"frustrated_pct"`
}

// Summary captures the accumulator's current state.
func (a *Accumulator) Summary() Summary {
	s := Summary{
		Threshold:  a.threshold,
		Satisfied:  a.satisfied,
		Tolerated:  a.tolerated,
		Frustrated: a.frustrated,
		Total:      a.Total(),
		Rating:     a.Rating(),
		SmallGroup: a.SmallGroup(),
	}
	if score, ok := a.Score(); ok {
		s.Score = &score
	}
	if s.Total > 0 {
		total := float64(s.Total)
		s.SatisfiedPct = float64(a.satisfied) / total * 100
		s.ToleratedPct = float64(a.tolerated) / total * 100
		s.FrustratedPct = float64(a.frustrated) / total * 100
	}
	return s
}

// Uniform renders the summary in Apdex uniform output form, matching
// Accumulator.String.
func (s Summary) Uniform() string {
	acc := Accumulator{
		threshold:  s.Threshold,
		satisfied:  s.Satisfied,
		tolerated:  s.Tolerated,
		frustrated: s.Frustrated,
	}
	return acc.String()
}
