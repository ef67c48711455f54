package apdex

// Rating word boundaries from the Apdex specification's suggested
// interpretation scale.
const (
	ratingExcellent = 0.94
	ratingGood      = 0.85
	ratingFair      = 0.70
	ratingPoor      = 0.50
)

// Rating returns the interpretation word for the current score: Excellent,
// Good, Fair, Poor, Unacceptable, or NoSample when nothing was recorded.
func (a *Accumulator) Rating() string {
	score, ok := a.Score()
	if !ok {
		return "NoSample"
	}
	return RatingFromScore(score)
}

// RatingFromScore maps a score to its interpretation word.
func RatingFromScore(score float64) string {
	switch {
	case score >= ratingExcellent:
		return "Excellent"
	case score >= ratingGood:
		return "Good"
	case score >= ratingFair:
		return "Fair"
	case score >= ratingPoor:
		return "Poor"
	default:
		return "Unacceptable"
	}
}
