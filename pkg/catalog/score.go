package catalog

// Scores appear in one of three scales (0–100, 0–10, 0–5). When a malformed
// row populates more than one, the fixed priority is 100 > 10 > 5, applied
// uniformly by every consumer. Absence is reported explicitly and is never
// treated as zero.

// Bounds of the unified comparison scale.
const (
	ScoreScaleMin = 0.0
	ScoreScaleMax = 10.0
)

// Score bands for the unified 0–10 scale.
const (
	BandExcellent = "excellent" // >= 8
	BandGood      = "good"      // >= 6.5
	BandAverage   = "average"   // >= 5
	BandPoor      = "poor"
	BandNone      = "none"
)

// NormalizedScore maps a record's score onto the unified 0–10 scale:
// the 100-point scale divided by 10, the 10-point scale unchanged, the
// 5-point scale doubled. ok is false when the record has no score.
func NormalizedScore(r Record) (score float64, ok bool) {
	switch {
	case r.ScoreIn100 != nil:
		return *r.ScoreIn100 / 10, true
	case r.ScoreIn10 != nil:
		return *r.ScoreIn10, true
	case r.ScoreIn5 != nil:
		return *r.ScoreIn5 * 2, true
	}
	return 0, false
}

// DisplayScore returns the first-available score at its raw value, with no
// scale unification. Same priority as NormalizedScore.
func DisplayScore(r Record) (score float64, ok bool) {
	switch {
	case r.ScoreIn100 != nil:
		return *r.ScoreIn100, true
	case r.ScoreIn10 != nil:
		return *r.ScoreIn10, true
	case r.ScoreIn5 != nil:
		return *r.ScoreIn5, true
	}
	return 0, false
}

// HasScore reports whether any of the three score fields is populated.
func HasScore(r Record) bool {
	return r.ScoreIn100 != nil || r.ScoreIn10 != nil || r.ScoreIn5 != nil
}

// ScoreBand buckets a record's normalized score for display.
func ScoreBand(r Record) string {
	s, ok := NormalizedScore(r)
	if !ok {
		return BandNone
	}
	switch {
	case s >= 8:
		return BandExcellent
	case s >= 6.5:
		return BandGood
	case s >= 5:
		return BandAverage
	default:
		return BandPoor
	}
}
