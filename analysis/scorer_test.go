package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawprint/api/models"
)

func sessionWithEvents(durationMinutes float64, names ...string) *models.Session {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sess := &models.Session{
		SessionID:       "S1",
		CustomerID:      "42",
		Start:           start,
		End:             start.Add(time.Duration(durationMinutes * float64(time.Minute))),
		DurationMinutes: durationMinutes,
	}
	for _, name := range names {
		sess.Events = append(sess.Events, models.SessionEvent{EventName: name, HasTimestamp: true})
	}
	return sess
}

func TestScoreOrderCompletedSession(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())

	// One Order Completed (50) plus three Page Viewed (1 each), 5 minute
	// duration: no bonuses apply, score is exactly 53, critical.
	sess := sessionWithEvents(5, "Order Completed", "Page Viewed", "Page Viewed", "Page Viewed")

	score := scorer.Score(sess)
	assert.Equal(t, 53, score)
	assert.Equal(t, models.ImportanceCritical, scorer.Level(score))
}

func TestScoreUnrecognizedEventsStayLow(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())

	sess := sessionWithEvents(2, "Quantum Flux", "Warp Drive Engaged")
	score := scorer.Score(sess)

	// Unknown names contribute only the default weight.
	assert.Equal(t, 2, score)
	assert.Equal(t, models.ImportanceLow, scorer.Level(score))
}

func TestScoreEngagementBonuses(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())

	names := make([]string, 20)
	for i := range names {
		names[i] = "Page Viewed"
	}
	sess := sessionWithEvents(5, names...)
	// 20 events at weight 1 plus the high engagement bonus.
	assert.Equal(t, 35, scorer.Score(sess))

	sess = sessionWithEvents(5, names[:12]...)
	// 12 events at weight 1 plus the medium engagement bonus.
	assert.Equal(t, 20, scorer.Score(sess))
}

func TestScoreDurationBonuses(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())

	sess := sessionWithEvents(35, "Page Viewed")
	assert.Equal(t, 11, scorer.Score(sess))

	sess = sessionWithEvents(15, "Page Viewed")
	assert.Equal(t, 6, scorer.Score(sess))

	sess = sessionWithEvents(5, "Page Viewed")
	assert.Equal(t, 1, scorer.Score(sess))
}

func TestScoreRevenueBonusCapped(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())

	sess := sessionWithEvents(5, "Page Viewed")
	sess.Events[0].Revenue = 500.0

	// Revenue contributes once, capped at 50: 1 + 50.
	assert.Equal(t, 51, scorer.Score(sess))

	sess.Events[0].Revenue = 12.5
	assert.Equal(t, 13, scorer.Score(sess))
}

func TestScoreVetCareBonus(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())

	sess := sessionWithEvents(5, "Page Viewed", "Page Viewed")
	sess.Events[1].Category = models.CategoryVeterinary

	// 2 name weights + the one-time vet care bonus.
	assert.Equal(t, 22, scorer.Score(sess))
}

func TestLevelThresholdEdges(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())

	tests := []struct {
		score    int
		expected models.ImportanceLevel
	}{
		{0, models.ImportanceLow},
		{7, models.ImportanceLow},
		{8, models.ImportanceModerate},
		{19, models.ImportanceModerate},
		{20, models.ImportanceSignificant},
		{39, models.ImportanceSignificant},
		{40, models.ImportanceCritical},
		{400, models.ImportanceCritical},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, scorer.Level(tc.score), "score %d", tc.score)
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewImportanceScorer(DefaultConfig())
	sess := sessionWithEvents(45, "Order Completed", "Search Performed", "Page Viewed")

	first := scorer.Score(sess)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, scorer.Score(sess))
		assert.Equal(t, scorer.Level(first), scorer.Level(scorer.Score(sess)))
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Thresholds.Significant = cfg.Thresholds.Critical + 10
	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Thresholds.Critical", cfgErr.Field)

	cfg = DefaultConfig()
	cfg.Thresholds.Moderate = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.RevenueBonusCap = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DefaultEventWeight = -5
	assert.Error(t, cfg.Validate())
}
