package models

import "time"

// ImportanceLevel is the discrete business-value classification of a
// session. Levels are totally ordered by severity and derived purely from
// the numeric importance score via ascending thresholds.
type ImportanceLevel string

const (
	ImportanceLow         ImportanceLevel = "low"
	ImportanceModerate    ImportanceLevel = "moderate"
	ImportanceSignificant ImportanceLevel = "significant"
	ImportanceCritical    ImportanceLevel = "critical"
)

var importanceRanks = map[ImportanceLevel]int{
	ImportanceLow:         0,
	ImportanceModerate:    1,
	ImportanceSignificant: 2,
	ImportanceCritical:    3,
}

// Rank returns the ordinal position of the level, low first.
func (l ImportanceLevel) Rank() int {
	return importanceRanks[l]
}

// AtLeast reports whether l is as severe as other or more so.
func (l ImportanceLevel) AtLeast(other ImportanceLevel) bool {
	return l.Rank() >= other.Rank()
}

// Session is a customer's bounded sequence of events sharing one session
// key, together with everything the analysis pipeline derives from it.
// It is created by the aggregator and mutated only by the pipeline stages
// in a fixed order (classify, score, confidence, narrate); once the
// pipeline finishes it is treated as immutable.
type Session struct {
	SessionID          string         `json:"session_id"`
	CustomerID         string         `json:"customer_id"`
	Events             []SessionEvent `json:"events,omitempty"`
	Start              time.Time      `json:"session_start"`
	End                time.Time      `json:"session_end"`
	DurationMinutes    float64        `json:"duration_minutes"`
	Channel            string         `json:"channel_grouping,omitempty"`
	DigitalFootprint   []string       `json:"digital_footprint,omitempty"`
	CuriositySignals   []string       `json:"curiosity_signals,omitempty"`
	Importance         ImportanceLevel `json:"importance_level"`
	Confidence         float64        `json:"confidence_score"`
	AdventureChronicle string         `json:"adventure_chronicle"`
	DepartureMystery   string         `json:"departure_mystery"`

	// Warnings collected while deriving the session (e.g. events with
	// unparsable timestamps). Feeds the per-session quality score and the
	// batch skip tally.
	Warnings []string `json:"-"`
}

// HasTimes reports whether the session has usable start/end timestamps,
// i.e. at least one event carried a parsable timestamp.
func (s *Session) HasTimes() bool {
	return !s.Start.IsZero()
}

// SessionAnalysisResult wraps one analyzed session with processing
// metadata: how long analysis took, how many events went in, and a [0,1]
// quality score reflecting how completely the derived fields could be
// populated.
type SessionAnalysisResult struct {
	Session          *Session
	ProcessingTimeMs float64
	EventsProcessed  int
	QualityScore     float64
}

// SessionRecord is the serialized form of one analyzed session, matching
// the output contract consumed by downstream collaborators.
type SessionRecord struct {
	SessionID          string          `json:"session_id"`
	CustomerID         string          `json:"customer_id"`
	SessionStart       string          `json:"session_start"`
	SessionEnd         string          `json:"session_end"`
	ImportanceLevel    ImportanceLevel `json:"importance_level"`
	ConfidenceScore    float64         `json:"confidence_score"`
	AdventureChronicle string          `json:"adventure_chronicle"`
	DepartureMystery   string          `json:"departure_mystery"`
	Metadata           RecordMetadata  `json:"analysis_metadata"`
}

// RecordMetadata is the per-session processing metadata block of the
// output contract.
type RecordMetadata struct {
	ProcessingTimeMs float64 `json:"processing_time_ms"`
	EventsProcessed  int     `json:"events_processed"`
	QualityScore     float64 `json:"quality_score"`
}

// Record converts the analysis result into its serialized form.
// Timestamps are rendered as RFC3339; sessions without usable timestamps
// render empty strings rather than the zero time.
func (r *SessionAnalysisResult) Record() SessionRecord {
	rec := SessionRecord{
		SessionID:          r.Session.SessionID,
		CustomerID:         r.Session.CustomerID,
		ImportanceLevel:    r.Session.Importance,
		ConfidenceScore:    r.Session.Confidence,
		AdventureChronicle: r.Session.AdventureChronicle,
		DepartureMystery:   r.Session.DepartureMystery,
		Metadata: RecordMetadata{
			ProcessingTimeMs: r.ProcessingTimeMs,
			EventsProcessed:  r.EventsProcessed,
			QualityScore:     r.QualityScore,
		},
	}
	if r.Session.HasTimes() {
		rec.SessionStart = r.Session.Start.UTC().Format(time.RFC3339)
		rec.SessionEnd = r.Session.End.UTC().Format(time.RFC3339)
	}
	return rec
}

// BatchMetadata is the aggregate metadata block of a batch run. It is
// always populated, even for degraded input, so skipped records are
// observable rather than silently hidden.
type BatchMetadata struct {
	CustomerID            string  `json:"customer_id"`
	TotalSessionsAnalyzed int     `json:"total_sessions_analyzed"`
	ImportantSessions     int     `json:"important_sessions"`
	AnalysisTimestamp     string  `json:"analysis_timestamp"`
	AvgConfidenceScore    float64 `json:"avg_confidence_score"`
	RecordsSkipped        int     `json:"records_skipped"`
}

// AnalysisBatchResult is the pipeline's output for one invocation:
// serialized session records in first-encounter order plus aggregate
// metadata. Results keeps the full per-session analysis for callers that
// go on to build persistence templates.
type AnalysisBatchResult struct {
	Metadata BatchMetadata   `json:"analysis_metadata"`
	Sessions []SessionRecord `json:"sessions"`

	Results []*SessionAnalysisResult `json:"-"`
}
