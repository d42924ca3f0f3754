package analysis

import (
	"math"

	"pawprint/api/models"
)

// Sub-score caps. The three terms are independent and individually
// capped, so their sum cannot exceed 1.0; the final clamp is a safety
// invariant, not a correctness requirement.
const (
	eventVolumeCap       = 0.4
	eventVolumeFullCount = 20.0

	durationCap         = 0.3
	durationFullMinutes = 30.0

	outcomeClear   = 0.3
	outcomePartial = 0.2
)

// ConfidenceEstimator computes how certain the engine is about its
// derived classification, as the sum of three capped sub-signals: event
// volume, session duration, and outcome clarity. Pure function of
// already-derived session facts; no external state.
type ConfidenceEstimator struct{}

func NewConfidenceEstimator() *ConfidenceEstimator {
	return &ConfidenceEstimator{}
}

// Estimate returns a confidence score in [0,1].
func (e *ConfidenceEstimator) Estimate(sess *models.Session) float64 {
	if len(sess.Events) == 0 {
		return 0.1
	}

	confidence := math.Min(float64(len(sess.Events))/eventVolumeFullCount, eventVolumeCap)
	confidence += math.Min(sess.DurationMinutes/durationFullMinutes, durationCap)

	switch {
	case hasPurchase(sess):
		confidence += outcomeClear
	case hasClearGoal(sess):
		confidence += outcomePartial
	}

	return math.Min(confidence, 1.0)
}
