package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pawprint/api/models"
)

// SessionAggregator groups an ordered-by-arrival stream of raw events
// into sessions keyed by session key. Grouping is by key, not contiguity:
// a key seen in two non-contiguous parts of the stream still yields one
// session. Output order matches the order keys were first encountered.
type SessionAggregator struct{}

func NewSessionAggregator() *SessionAggregator {
	return &SessionAggregator{}
}

// AggregateResult carries the grouped sessions plus the count of records
// that could not be attributed to any session (missing session key).
// Per-event problems such as unparsable timestamps are recorded as
// warnings on the owning session, not here.
type AggregateResult struct {
	Sessions       []*models.Session
	SkippedRecords int
}

// Aggregate consumes the raw records and produces derived sessions:
// events sorted ascending by timestamp, start/end/duration computed, and
// distinct pages and search terms collected. A record with an unparsable
// timestamp is retained in the event list and raw count but excluded from
// ordering computations, with a warning recorded on its session.
func (a *SessionAggregator) Aggregate(records []models.RawEvent) *AggregateResult {
	result := &AggregateResult{}
	byKey := make(map[string]*models.Session)

	for _, record := range records {
		if record.SessionKey == "" {
			result.SkippedRecords++
			continue
		}

		sess, ok := byKey[record.SessionKey]
		if !ok {
			sess = &models.Session{
				SessionID:  record.SessionKey,
				CustomerID: record.CustomerID,
			}
			byKey[record.SessionKey] = sess
			result.Sessions = append(result.Sessions, sess)
		}
		if sess.CustomerID == "" {
			sess.CustomerID = record.CustomerID
		}

		event := models.SessionEvent{
			EventID:    record.EventID,
			EventName:  record.EventName,
			Page:       record.Page,
			SearchTerm: record.SearchTerm,
			ProductID:  record.ProductID,
			Revenue:    record.Revenue,
			Attributes: record.Attributes,
		}
		ts, err := parseTimestamp(record.Timestamp)
		if err != nil {
			sess.Warnings = append(sess.Warnings,
				fmt.Sprintf("event %q: unparsable timestamp %q", record.EventName, record.Timestamp))
		} else {
			event.Timestamp = ts
			event.HasTimestamp = true
		}
		sess.Events = append(sess.Events, event)
	}

	for _, sess := range result.Sessions {
		deriveSession(sess)
	}

	return result
}

// parseTimestamp accepts RFC3339 with or without fractional seconds, plus
// the bare "2006-01-02 15:04:05" form some exports use.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", value)
}

func deriveSession(sess *models.Session) {
	// Timed events sort ascending; events without a usable timestamp keep
	// their arrival order after all timed events.
	sort.SliceStable(sess.Events, func(i, j int) bool {
		a, b := sess.Events[i], sess.Events[j]
		if a.HasTimestamp != b.HasTimestamp {
			return a.HasTimestamp
		}
		if !a.HasTimestamp {
			return false
		}
		return a.Timestamp.Before(b.Timestamp)
	})

	seenPages := make(map[string]bool)
	seenTerms := make(map[string]bool)
	for _, event := range sess.Events {
		if event.HasTimestamp {
			if sess.Start.IsZero() || event.Timestamp.Before(sess.Start) {
				sess.Start = event.Timestamp
			}
			if event.Timestamp.After(sess.End) {
				sess.End = event.Timestamp
			}
		}
		if event.Page != "" && !seenPages[event.Page] {
			seenPages[event.Page] = true
			sess.DigitalFootprint = append(sess.DigitalFootprint, event.Page)
		}
		if event.SearchTerm != "" && !seenTerms[event.SearchTerm] {
			seenTerms[event.SearchTerm] = true
			sess.CuriositySignals = append(sess.CuriositySignals, event.SearchTerm)
		}
		if sess.Channel == "" {
			sess.Channel = channelOf(event.Attributes)
		}
	}

	if sess.HasTimes() && sess.End.After(sess.Start) {
		sess.DurationMinutes = sess.End.Sub(sess.Start).Minutes()
	}
	if sess.Channel == "" {
		sess.Channel = "Direct"
	}
}

func channelOf(attrs map[string]string) string {
	if attrs == nil {
		return ""
	}
	for _, key := range []string{"channel_grouping", "channel"} {
		if v := strings.TrimSpace(attrs[key]); v != "" {
			return v
		}
	}
	return ""
}
