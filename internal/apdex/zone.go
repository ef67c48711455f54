package apdex

// Zone identifies the satisfaction tier a sample falls into relative to the
// threshold T and the tolerable ceiling 4T.
type Zone int

const (
	ZoneSatisfied Zone = iota
	ZoneTolerated
	ZoneFrustrated
)

// String returns the full zone name.
func (z Zone) String() string {
	switch z {
	case ZoneSatisfied:
		return "satisfied"
	case ZoneTolerated:
		return "tolerated"
	case ZoneFrustrated:
		return "frustrated"
	default:
		return "unknown"
	}
}

// Label returns the one-letter zone label used in compact output.
func (z Zone) Label() string {
	switch z {
	case ZoneSatisfied:
		return "S"
	case ZoneTolerated:
		return "T"
	case ZoneFrustrated:
		return "F"
	default:
		return ""
	}
}

// classify maps a validated sample to its zone. Boundaries are inclusive on
// the lower comparison: a sample equal to T is satisfied, equal to 4T is
// tolerated.
func classify(threshold, sample float64) Zone {
	if sample <= threshold {
		return ZoneSatisfied
	}
	if sample <= 4*threshold {
		return ZoneTolerated
	}
	return ZoneFrustrated
}
