package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawprint/api/models"
)

func analyzedSession(id string) *models.SessionAnalysisResult {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.SessionAnalysisResult{
		Session: &models.Session{
			SessionID:          id,
			CustomerID:         "42",
			Start:              start,
			End:                start.Add(20 * time.Minute),
			DurationMinutes:    20,
			Channel:            "Direct",
			Importance:         models.ImportanceSignificant,
			Confidence:         0.8,
			AdventureChronicle: "chronicle",
			DepartureMystery:   "mystery",
			Events: []models.SessionEvent{
				{EventID: "e1", EventName: "Page Viewed", Timestamp: start, HasTimestamp: true, Category: models.CategoryNavigation},
				{EventName: "Order Completed", Timestamp: start.Add(20 * time.Minute), HasTimestamp: true, Category: models.CategoryCommerce, Revenue: 59.99},
			},
		},
		ProcessingTimeMs: 1.5,
		EventsProcessed:  2,
		QualityScore:     1.0,
	}
}

func TestBuildSessionTemplate(t *testing.T) {
	builder := NewTemplateBuilder()

	template := builder.Build(analyzedSession("S1"), "")

	assert.Equal(t, "42", template.CustomerID)
	assert.Equal(t, "S1", template.SessionID)
	assert.Empty(t, template.NextSessionID)

	props := template.Properties
	assert.Equal(t, "S1", props["session_id"])
	assert.Equal(t, "significant", props["importance_level"])
	assert.Equal(t, 0.8, props["confidence_score"])
	assert.Equal(t, "chronicle", props["adventure_chronicle"])
	assert.Equal(t, "mystery", props["departure_mystery"])
	assert.Equal(t, 2, props["event_count"])
	assert.Equal(t, "2024-03-01T10:00:00Z", props["session_start"])
	assert.Equal(t, "2024-03-01T10:20:00Z", props["session_end"])

	require.Len(t, template.Events, 2)
	assert.Equal(t, "Page Viewed", template.Events[0].EventName)
	assert.Equal(t, "commerce", template.Events[1].Category)
	assert.InDelta(t, 59.99, template.Events[1].Revenue, 0.0001)

	// One customer->session edge plus one session->event edge per event.
	require.Len(t, template.Edges, 3)
	assert.Equal(t, Edge{From: "42", To: "S1", Type: EdgeHasSession}, template.Edges[0])
	assert.Equal(t, EdgeHasEvent, template.Edges[1].Type)
	assert.Equal(t, "e1", template.Edges[1].To)
	// Events without an ID get a session-scoped reference.
	assert.Equal(t, "S1/events/1", template.Edges[2].To)
}

func TestBuildWithNextSession(t *testing.T) {
	builder := NewTemplateBuilder()

	template := builder.Build(analyzedSession("S1"), "S2")
	assert.Equal(t, "S2", template.NextSessionID)

	last := template.Edges[len(template.Edges)-1]
	assert.Equal(t, Edge{From: "S1", To: "S2", Type: EdgeNextSession}, last)
}

func TestBuildChainWiresSuccessors(t *testing.T) {
	builder := NewTemplateBuilder()

	results := []*models.SessionAnalysisResult{
		analyzedSession("S1"),
		analyzedSession("S2"),
		analyzedSession("S3"),
	}

	templates := builder.BuildChain(results)
	require.Len(t, templates, 3)
	assert.Equal(t, "S2", templates[0].NextSessionID)
	assert.Equal(t, "S3", templates[1].NextSessionID)
	assert.Empty(t, templates[2].NextSessionID)
}

func TestBuildSessionWithoutTimestamps(t *testing.T) {
	builder := NewTemplateBuilder()

	result := analyzedSession("S1")
	result.Session.Start = time.Time{}
	result.Session.End = time.Time{}

	template := builder.Build(result, "")
	_, hasStart := template.Properties["session_start"]
	assert.False(t, hasStart)
}
