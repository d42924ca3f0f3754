package analysis

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawprint/api/models"
)

// checkoutScenario builds 23 events for session S1, customer 42: one
// completed order, two searches, and twenty page views spread across
// 45.2 minutes, arriving via Organic Search.
func checkoutScenario() []models.RawEvent {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(45*time.Minute + 12*time.Second)

	var records []models.RawEvent
	add := func(name string, ts time.Time, attrs map[string]string) {
		records = append(records, models.RawEvent{
			EventName:  name,
			Timestamp:  ts.Format(time.RFC3339),
			SessionKey: "S1",
			CustomerID: "42",
			Attributes: attrs,
		})
	}

	add("Page Viewed", start, map[string]string{"channel_grouping": "Organic Search"})
	add("Search Performed", start.Add(1*time.Minute), nil)
	add("Search Performed", start.Add(3*time.Minute), nil)
	for i := 0; i < 19; i++ {
		add("Page Viewed", start.Add(time.Duration(4+i*2)*time.Minute), nil)
	}
	add("Order Completed", end, nil)

	return records
}

func TestProcessEndToEndCheckoutScenario(t *testing.T) {
	pipeline, err := NewAnalysisPipeline(DefaultConfig())
	require.NoError(t, err)

	batch := pipeline.Process(checkoutScenario(), 0)

	require.Len(t, batch.Sessions, 1)
	record := batch.Sessions[0]

	assert.Equal(t, "S1", record.SessionID)
	assert.Equal(t, "42", record.CustomerID)
	assert.Equal(t, models.ImportanceCritical, record.ImportanceLevel)
	assert.GreaterOrEqual(t, record.ConfidenceScore, 0.7)
	assert.LessOrEqual(t, record.ConfidenceScore, 1.0)
	assert.Contains(t, record.DepartureMystery, "Mission accomplished")
	assert.NotContains(t, record.DepartureMystery, "Hesitation")
	assert.Contains(t, record.AdventureChronicle, "Organic Search")
	assert.Contains(t, record.AdventureChronicle, "2 search expeditions")
	assert.Equal(t, 23, record.Metadata.EventsProcessed)
	assert.InDelta(t, 1.0, record.Metadata.QualityScore, 0.20)

	require.Len(t, batch.Results, 1)
	sess := batch.Results[0].Session
	assert.InDelta(t, 45.2, sess.DurationMinutes, 0.001)

	meta := batch.Metadata
	assert.Equal(t, "42", meta.CustomerID)
	assert.Equal(t, 1, meta.TotalSessionsAnalyzed)
	assert.Equal(t, 1, meta.ImportantSessions)
	assert.Equal(t, 0, meta.RecordsSkipped)
	assert.InDelta(t, record.ConfidenceScore, meta.AvgConfidenceScore, 0.0001)
	assert.NotEmpty(t, meta.AnalysisTimestamp)
}

func TestProcessIdempotent(t *testing.T) {
	pipeline, err := NewAnalysisPipeline(DefaultConfig())
	require.NoError(t, err)

	records := checkoutScenario()
	first := pipeline.Process(records, 0)
	second := pipeline.Process(records, 0)

	// Byte-identical serialized output except for the run timestamp.
	firstJSON, err := json.Marshal(first.Sessions)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Sessions)
	require.NoError(t, err)

	// Processing time is measured wall clock; zero it for comparison.
	var a, b []models.SessionRecord
	require.NoError(t, json.Unmarshal(firstJSON, &a))
	require.NoError(t, json.Unmarshal(secondJSON, &b))
	for i := range a {
		a[i].Metadata.ProcessingTimeMs = 0
		b[i].Metadata.ProcessingTimeMs = 0
	}
	assert.Equal(t, a, b)

	first.Metadata.AnalysisTimestamp = ""
	second.Metadata.AnalysisTimestamp = ""
	assert.Equal(t, first.Metadata, second.Metadata)
}

func TestProcessMalformedRecordTally(t *testing.T) {
	pipeline, err := NewAnalysisPipeline(DefaultConfig())
	require.NoError(t, err)

	records := []models.RawEvent{
		{EventName: "Page Viewed", Timestamp: "2024-03-01T10:00:00Z", SessionKey: "S1", CustomerID: "42"},
		{EventName: "Broken Clock", Timestamp: "garbage", SessionKey: "S1", CustomerID: "42"},
		{EventName: "Page Viewed", Timestamp: "2024-03-01T10:10:00Z", SessionKey: "S1", CustomerID: "42"},
		{EventName: "Orphan", Timestamp: "2024-03-01T10:11:00Z", SessionKey: "", CustomerID: "42"},
	}

	batch := pipeline.Process(records, 0)

	// The batch completes; both the keyless record and the bad timestamp
	// show up in the skip tally, never as a failure.
	require.Len(t, batch.Sessions, 1)
	assert.Equal(t, 2, batch.Metadata.RecordsSkipped)
	assert.Equal(t, 3, batch.Sessions[0].Metadata.EventsProcessed)
	assert.Less(t, batch.Sessions[0].Metadata.QualityScore, 1.0)

	sess := batch.Results[0].Session
	assert.InDelta(t, 10.0, sess.DurationMinutes, 0.001)
}

func TestProcessMaxRowsCap(t *testing.T) {
	pipeline, err := NewAnalysisPipeline(DefaultConfig())
	require.NoError(t, err)

	var records []models.RawEvent
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		records = append(records, models.RawEvent{
			EventName:  "Page Viewed",
			Timestamp:  start.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			SessionKey: fmt.Sprintf("S%d", i),
			CustomerID: "42",
		})
	}

	batch := pipeline.Process(records, 4)
	assert.Equal(t, 4, batch.Metadata.TotalSessionsAnalyzed)
}

func TestProcessSessionOrderMatchesFirstEncounter(t *testing.T) {
	pipeline, err := NewAnalysisPipeline(DefaultConfig())
	require.NoError(t, err)

	records := []models.RawEvent{
		{EventName: "Order Completed", Timestamp: "2024-03-01T12:00:00Z", SessionKey: "S2", CustomerID: "42"},
		{EventName: "Page Viewed", Timestamp: "2024-03-01T09:00:00Z", SessionKey: "S1", CustomerID: "42"},
		{EventName: "Page Viewed", Timestamp: "2024-03-01T12:05:00Z", SessionKey: "S2", CustomerID: "42"},
	}

	batch := pipeline.Process(records, 0)
	require.Len(t, batch.Sessions, 2)

	// Output order is first-encounter order, never re-sorted by score or
	// timestamp.
	assert.Equal(t, "S2", batch.Sessions[0].SessionID)
	assert.Equal(t, "S1", batch.Sessions[1].SessionID)
}

func TestProcessEmptyInput(t *testing.T) {
	pipeline, err := NewAnalysisPipeline(DefaultConfig())
	require.NoError(t, err)

	batch := pipeline.Process(nil, 0)
	assert.Empty(t, batch.Sessions)
	assert.Equal(t, 0, batch.Metadata.TotalSessionsAnalyzed)
	assert.Equal(t, 0.0, batch.Metadata.AvgConfidenceScore)
	assert.NotEmpty(t, batch.Metadata.AnalysisTimestamp)
}

func TestNewAnalysisPipelineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.Critical = cfg.Thresholds.Moderate

	pipeline, err := NewAnalysisPipeline(cfg)
	assert.Nil(t, pipeline)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewAnalysisPipelineDefaultsConfig(t *testing.T) {
	pipeline, err := NewAnalysisPipeline(nil)
	require.NoError(t, err)
	require.NotNil(t, pipeline)
}
