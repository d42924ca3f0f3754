package analysis

import (
	"log"
	"time"

	"pawprint/api/models"
)

// AnalysisPipeline orchestrates the engine over a batch of raw records:
// aggregate into sessions, then for each session classify, score,
// estimate confidence, and narrate, in that fixed order. The pipeline is
// stateless across invocations; all tuning lives in the injected Config,
// which is treated as immutable for the duration of a run. Sessions are
// independent units of work, so the loop could be fanned out across
// workers, but the canonical form is synchronous.
type AnalysisPipeline struct {
	cfg        *Config
	classifier *EventClassifier
	aggregator *SessionAggregator
	scorer     *ImportanceScorer
	estimator  *ConfidenceEstimator
	narrator   *NarrativeGenerator
}

// NewAnalysisPipeline validates the configuration and wires the stages.
// Invalid overrides are rejected here, before any processing begins.
func NewAnalysisPipeline(cfg *Config) (*AnalysisPipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AnalysisPipeline{
		cfg:        cfg,
		classifier: NewEventClassifier(cfg),
		aggregator: NewSessionAggregator(),
		scorer:     NewImportanceScorer(cfg),
		estimator:  NewConfidenceEstimator(),
		narrator:   NewNarrativeGenerator(),
	}, nil
}

// Process runs the full analysis over the records. maxRows > 0 caps how
// many records are consumed; it is the only interruption mechanism.
// Malformed individual records are skipped and tallied, never fatal; the
// returned metadata always reports how many sessions were produced and
// how many records were skipped, so degraded input stays observable.
func (p *AnalysisPipeline) Process(records []models.RawEvent, maxRows int) *models.AnalysisBatchResult {
	if maxRows > 0 && len(records) > maxRows {
		records = records[:maxRows]
	}

	aggregated := p.aggregator.Aggregate(records)
	skipped := aggregated.SkippedRecords

	batch := &models.AnalysisBatchResult{}
	totalConfidence := 0.0

	for _, sess := range aggregated.Sessions {
		started := time.Now()

		for i := range sess.Events {
			sess.Events[i].Category = p.classifier.Classify(&sess.Events[i])
		}
		score := p.scorer.Score(sess)
		sess.Importance = p.scorer.Level(score)
		sess.Confidence = p.estimator.Estimate(sess)
		sess.AdventureChronicle = p.narrator.AdventureChronicle(sess)
		sess.DepartureMystery = p.narrator.DepartureMystery(sess)

		result := &models.SessionAnalysisResult{
			Session:          sess,
			ProcessingTimeMs: float64(time.Since(started).Microseconds()) / 1000.0,
			EventsProcessed:  len(sess.Events),
			QualityScore:     qualityScore(sess),
		}
		batch.Results = append(batch.Results, result)
		batch.Sessions = append(batch.Sessions, result.Record())

		totalConfidence += sess.Confidence
		skipped += len(sess.Warnings)

		if batch.Metadata.CustomerID == "" {
			batch.Metadata.CustomerID = sess.CustomerID
		}
	}

	batch.Metadata.TotalSessionsAnalyzed = len(batch.Results)
	batch.Metadata.ImportantSessions = countImportant(batch.Results)
	batch.Metadata.AnalysisTimestamp = time.Now().UTC().Format(time.RFC3339)
	batch.Metadata.RecordsSkipped = skipped
	if len(batch.Results) > 0 {
		batch.Metadata.AvgConfidenceScore = totalConfidence / float64(len(batch.Results))
	}

	if skipped > 0 {
		log.Printf("Analysis batch completed with %d degraded records (%d sessions produced)",
			skipped, len(batch.Results))
	}

	return batch
}

// countImportant counts sessions meeting the "important" cutoff:
// significant or above.
func countImportant(results []*models.SessionAnalysisResult) int {
	n := 0
	for _, r := range results {
		if r.Session.Importance.AtLeast(models.ImportanceSignificant) {
			n++
		}
	}
	return n
}

// qualityScore measures how completely the expected derived fields could
// be populated for one session: full marks when every event carried a
// usable timestamp and a recognizable category, penalized for each
// processing warning, for missing duration data, and in proportion to
// uncategorizable events.
func qualityScore(sess *models.Session) float64 {
	q := 1.0
	q -= 0.05 * float64(len(sess.Warnings))
	if !sess.HasTimes() {
		q -= 0.25
	}
	if n := len(sess.Events); n > 0 {
		uncategorized := 0
		for i := range sess.Events {
			if sess.Events[i].Category == models.CategoryOther {
				uncategorized++
			}
		}
		q -= 0.15 * float64(uncategorized) / float64(n)
	}
	if q < 0 {
		return 0
	}
	return q
}
