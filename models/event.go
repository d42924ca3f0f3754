package models

import "time"

// RawEvent represents a single interaction event as it arrives from the
// tracking endpoint or a CSV export. The timestamp is kept as the original
// ISO-8601 string; parsing (and the handling of unparsable values) is the
// aggregator's job. Unknown extra fields are preserved in Attributes but
// ignored by scoring.
type RawEvent struct {
	EventID    string            `json:"event_id,omitempty"`
	EventName  string            `json:"event_name"`
	Timestamp  string            `json:"timestamp"`
	SessionKey string            `json:"session_key"`
	CustomerID string            `json:"customer_id"`
	Page       string            `json:"page,omitempty"`
	SearchTerm string            `json:"search_term,omitempty"`
	ProductID  string            `json:"product_id,omitempty"`
	Revenue    float64           `json:"revenue,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// EventCategory is the semantic category assigned to an event by the
// classifier. Many events map to one category; unclassifiable events
// fall back to CategoryOther.
type EventCategory string

const (
	CategoryCommerce   EventCategory = "commerce"
	CategorySearch     EventCategory = "search"
	CategoryVeterinary EventCategory = "veterinary"
	CategoryNavigation EventCategory = "navigation"
	CategoryContent    EventCategory = "content"
	CategoryAccount    EventCategory = "account"
	CategoryOther      EventCategory = "other"
)

// SessionEvent is an event after aggregation: timestamp parsed (when
// possible) and category assigned by the classifier. Events whose
// timestamp could not be parsed keep HasTimestamp false and are excluded
// from ordering computations but retained in event counts.
type SessionEvent struct {
	EventID      string            `json:"event_id,omitempty"`
	EventName    string            `json:"event_name"`
	Timestamp    time.Time         `json:"timestamp"`
	HasTimestamp bool              `json:"-"`
	Category     EventCategory     `json:"category,omitempty"`
	Page         string            `json:"page,omitempty"`
	SearchTerm   string            `json:"search_term,omitempty"`
	ProductID    string            `json:"product_id,omitempty"`
	Revenue      float64           `json:"revenue,omitempty"`
	Attributes   map[string]string `json:"-"`
}
