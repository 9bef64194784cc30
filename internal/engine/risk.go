package engine

// EngineVersion tags every result and assessment snapshot. The weights,
// amplifiers, and thresholds below are versioned constants: changing any of
// them requires bumping this version so historical snapshots remain
// interpretable under the rules they were computed with.
const EngineVersion = "v1.1.0"

// Amplifier bonuses for compounding risk combinations. These raise the score
// beyond the sum of individual obligation weights: a foreign owner without an
// EIN cannot file at all, and one with no filing history carries accumulated
// §6038A exposure.
const (
	amplifierForeignNoEIN   = 15
	amplifierNoPriorFilings = 25
)

// Risk level thresholds (inclusive floors).
const (
	riskModerateFloor = 40
	riskHighFloor     = 80
)

// RiskAssessment pairs a score with its bucketed level.
type RiskAssessment struct {
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}

// CalculateRisk computes the weighted risk aggregate for a profile given its
// triggered obligations. Deterministic and additive: adding a triggered
// obligation never lowers the score, so the level bucketing is monotonic in
// the triggered weight sum.
func CalculateRisk(profile EntityProfile, triggered []Obligation) RiskAssessment {
	score := 0
	for _, o := range triggered {
		score += o.RiskWeight
	}

	if profile.ForeignOwner && !profile.HasEIN {
		score += amplifierForeignNoEIN
	}
	if profile.ForeignOwner && !profile.Prior5472Filed {
		score += amplifierNoPriorFilings
	}

	return RiskAssessment{Score: score, Level: BucketRisk(score)}
}

// BucketRisk maps a score to its level. Monotonic: a higher score never maps
// to a lower bucket.
func BucketRisk(score int) RiskLevel {
	switch {
	case score >= riskHighFloor:
		return RiskHigh
	case score >= riskModerateFloor:
		return RiskModerate
	default:
		return RiskLow
	}
}
