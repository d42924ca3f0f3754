// Package analysis implements the session scoring-and-narrative engine:
// it groups raw interaction events into sessions, classifies and scores
// them, estimates analysis confidence, and renders deterministic
// behavioral narratives. The engine performs no I/O; record reading and
// persistence belong to the surrounding packages.
package analysis

import (
	"fmt"

	"pawprint/api/models"
)

// ConfigError reports an invalid engine configuration override. It is
// returned at construction time, before any records are processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid analysis config: %s: %s", e.Field, e.Reason)
}

// ImportanceThresholds are the ascending score cut points used to map a
// numeric importance score to a level. A score meeting or exceeding
// Critical is critical, then Significant, then Moderate; anything below
// Moderate is low.
type ImportanceThresholds struct {
	Moderate    int
	Significant int
	Critical    int
}

// Config carries every tunable the engine uses: per-event-name weights,
// behavioral bonuses, level thresholds, and the classifier keyword sets.
// A Config is injected at construction and must be treated as immutable
// for the duration of a batch run, so concurrent batches with different
// tuning never interfere.
type Config struct {
	// EventWeights maps exact event names to importance points. Names not
	// present contribute DefaultEventWeight.
	EventWeights       map[string]int
	DefaultEventWeight int

	// Engagement bonuses by event count.
	HighEngagementEvents   int
	HighEngagementBonus    int
	MediumEngagementEvents int
	MediumEngagementBonus  int

	// Duration bonuses by session length in minutes.
	LongSessionMinutes   float64
	LongSessionBonus     int
	MediumSessionMinutes float64
	MediumSessionBonus   int

	// RevenueBonusCap caps the session-level bonus derived from summed
	// event revenue. Revenue contributes once, here, never again through
	// event names or categories.
	RevenueBonusCap float64

	// VetCareBonus is added once when any veterinary event is present.
	VetCareBonus int

	Thresholds ImportanceThresholds

	// Keywords drive the lexical classifier. Categories are checked in
	// the fixed priority order the classifier defines; callers may extend
	// the per-category sets but not the matching algorithm.
	Keywords map[models.EventCategory][]string
}

// DefaultConfig returns the engine's stock tuning: the event weight table
// and bonus values the production scoring rules were calibrated with.
func DefaultConfig() *Config {
	return &Config{
		EventWeights: map[string]int{
			// High business value
			"Order Completed":        50,
			"Purchase":               50,
			"Payment Processed":      50,
			"Vet Appointment Booked": 45,
			"Prescription Ordered":   40,
			"Autoship Created":       35,

			// Medium business value
			"Account Created":  30,
			"Product Added":    25,
			"Checkout Started": 25,
			"Cart Updated":     20,
			"Profile Updated":  20,
			"Review Submitted": 15,

			// Engagement indicators
			"Video Watched":    10,
			"Search Performed": 8,
			"Content Engaged":  7,
			"Product Viewed":   5,
			"Category Browsed": 3,

			// Basic navigation
			"Button Clicked": 2,
			"Link Clicked":   2,
			"Page Viewed":    1,
			"Scroll Reached": 1,
		},
		DefaultEventWeight: 1,

		HighEngagementEvents:   20,
		HighEngagementBonus:    15,
		MediumEngagementEvents: 10,
		MediumEngagementBonus:  8,

		LongSessionMinutes:   30,
		LongSessionBonus:     10,
		MediumSessionMinutes: 10,
		MediumSessionBonus:   5,

		RevenueBonusCap: 50,
		VetCareBonus:    20,

		Thresholds: ImportanceThresholds{
			Moderate:    8,
			Significant: 20,
			Critical:    40,
		},

		Keywords: map[models.EventCategory][]string{
			models.CategoryVeterinary: {
				"vet", "veterinary", "appointment", "health", "medical",
				"prescription", "medication", "treatment", "exam", "checkup",
			},
			models.CategoryCommerce: {
				"purchase", "order", "cart", "checkout", "payment",
				"autoship", "buy", "revenue",
			},
			models.CategoryAccount: {
				"login", "register", "account", "profile", "signup",
			},
			models.CategorySearch: {
				"search", "filter", "compare",
			},
			models.CategoryContent: {
				"video", "content", "article", "guide", "tutorial", "review",
			},
			models.CategoryNavigation: {
				"page", "viewed", "click", "scroll", "browse", "link", "navigate",
			},
		},
	}
}

// Validate rejects configurations that would make scoring ambiguous or
// unbounded. It is called by NewAnalysisPipeline before any processing.
func (c *Config) Validate() error {
	if c.DefaultEventWeight < 0 {
		return &ConfigError{Field: "DefaultEventWeight", Reason: "must not be negative"}
	}
	t := c.Thresholds
	if t.Moderate <= 0 {
		return &ConfigError{Field: "Thresholds.Moderate", Reason: "must be positive"}
	}
	if t.Significant <= t.Moderate {
		return &ConfigError{
			Field:  "Thresholds.Significant",
			Reason: fmt.Sprintf("must exceed moderate threshold %d", t.Moderate),
		}
	}
	if t.Critical <= t.Significant {
		return &ConfigError{
			Field:  "Thresholds.Critical",
			Reason: fmt.Sprintf("must exceed significant threshold %d", t.Significant),
		}
	}
	if c.RevenueBonusCap < 0 {
		return &ConfigError{Field: "RevenueBonusCap", Reason: "must not be negative"}
	}
	if c.HighEngagementEvents > 0 && c.MediumEngagementEvents >= c.HighEngagementEvents {
		return &ConfigError{
			Field:  "MediumEngagementEvents",
			Reason: "must be below the high engagement threshold",
		}
	}
	if c.LongSessionMinutes > 0 && c.MediumSessionMinutes >= c.LongSessionMinutes {
		return &ConfigError{
			Field:  "MediumSessionMinutes",
			Reason: "must be below the long session threshold",
		}
	}
	return nil
}
