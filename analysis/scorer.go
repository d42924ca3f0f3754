package analysis

import (
	"math"

	"pawprint/api/models"
)

// ImportanceScorer computes a session's additive importance score and
// maps it to a level through the configured thresholds. The algorithm is
// fixed for reproducibility: per-event-name weights summed over all
// events, then behavioral bonuses, then descending threshold selection
// with ties breaking toward the higher level.
type ImportanceScorer struct {
	cfg *Config
}

func NewImportanceScorer(cfg *Config) *ImportanceScorer {
	return &ImportanceScorer{cfg: cfg}
}

// Score returns the raw importance score for a classified session.
// Revenue contributes exactly once, through the capped session-level
// bonus; event-name weights never re-count it.
func (s *ImportanceScorer) Score(sess *models.Session) int {
	cfg := s.cfg
	score := 0
	revenue := 0.0
	vetActivity := false

	for _, event := range sess.Events {
		if weight, ok := cfg.EventWeights[event.EventName]; ok {
			score += weight
		} else {
			score += cfg.DefaultEventWeight
		}
		if event.Revenue > 0 {
			revenue += event.Revenue
		}
		if event.Category == models.CategoryVeterinary {
			vetActivity = true
		}
	}

	switch {
	case cfg.HighEngagementEvents > 0 && len(sess.Events) >= cfg.HighEngagementEvents:
		score += cfg.HighEngagementBonus
	case cfg.MediumEngagementEvents > 0 && len(sess.Events) > cfg.MediumEngagementEvents:
		score += cfg.MediumEngagementBonus
	}

	switch {
	case cfg.LongSessionMinutes > 0 && sess.DurationMinutes >= cfg.LongSessionMinutes:
		score += cfg.LongSessionBonus
	case cfg.MediumSessionMinutes > 0 && sess.DurationMinutes >= cfg.MediumSessionMinutes:
		score += cfg.MediumSessionBonus
	}

	if revenue > 0 {
		score += int(math.Min(revenue, cfg.RevenueBonusCap))
	}
	if vetActivity {
		score += cfg.VetCareBonus
	}

	return score
}

// Level maps a score to its importance level by testing thresholds in
// descending order and selecting the first one the score meets or
// exceeds.
func (s *ImportanceScorer) Level(score int) models.ImportanceLevel {
	t := s.cfg.Thresholds
	switch {
	case score >= t.Critical:
		return models.ImportanceCritical
	case score >= t.Significant:
		return models.ImportanceSignificant
	case score >= t.Moderate:
		return models.ImportanceModerate
	default:
		return models.ImportanceLow
	}
}
