// Package graph converts analysis results into persistence-ready
// templates describing the nodes and edges an external graph writer
// should create. Building templates is pure computation; query
// construction and execution belong to the store layer.
package graph

import (
	"fmt"
	"time"

	"pawprint/api/models"
)

// Relationship types used when templates are materialized.
const (
	EdgeHasSession  = "HAS_SESSION"
	EdgeHasEvent    = "HAS_EVENT"
	EdgeNextSession = "NEXT_SESSION"
)

// EventNode describes one event node nested under a session.
type EventNode struct {
	EventID   string  `json:"event_id,omitempty"`
	EventName string  `json:"event_name"`
	Timestamp string  `json:"timestamp,omitempty"`
	Category  string  `json:"category,omitempty"`
	Page      string  `json:"page,omitempty"`
	ProductID string  `json:"product_id,omitempty"`
	Revenue   float64 `json:"revenue,omitempty"`
}

// Edge describes one relationship the graph writer should create.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// SessionTemplate is the persistence template for one analyzed session:
// the session node's scalar properties, its nested event nodes, and the
// edges connecting customer to session, session to events, and session to
// the customer's next session when temporal chaining applies.
type SessionTemplate struct {
	CustomerID    string                 `json:"customer_id"`
	SessionID     string                 `json:"session_id"`
	Properties    map[string]interface{} `json:"properties"`
	Events        []EventNode            `json:"events"`
	NextSessionID string                 `json:"next_session_id,omitempty"`
	Edges         []Edge                 `json:"edges"`
}

// TemplateBuilder converts analysis results into session templates. It
// performs no I/O.
type TemplateBuilder struct{}

func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{}
}

// Build produces the template for one result. nextSessionID may be empty
// when the session is the customer's latest or ordering is unknown.
func (b *TemplateBuilder) Build(result *models.SessionAnalysisResult, nextSessionID string) *SessionTemplate {
	sess := result.Session

	template := &SessionTemplate{
		CustomerID:    sess.CustomerID,
		SessionID:     sess.SessionID,
		NextSessionID: nextSessionID,
		Properties: map[string]interface{}{
			"session_id":          sess.SessionID,
			"customer_id":         sess.CustomerID,
			"duration_minutes":    sess.DurationMinutes,
			"event_count":         len(sess.Events),
			"channel_grouping":    sess.Channel,
			"importance_level":    string(sess.Importance),
			"confidence_score":    sess.Confidence,
			"adventure_chronicle": sess.AdventureChronicle,
			"departure_mystery":   sess.DepartureMystery,
			"quality_score":       result.QualityScore,
		},
	}
	if sess.HasTimes() {
		template.Properties["session_start"] = sess.Start.UTC().Format(time.RFC3339)
		template.Properties["session_end"] = sess.End.UTC().Format(time.RFC3339)
	}

	template.Edges = append(template.Edges, Edge{
		From: sess.CustomerID,
		To:   sess.SessionID,
		Type: EdgeHasSession,
	})

	for i := range sess.Events {
		event := &sess.Events[i]
		node := EventNode{
			EventID:   event.EventID,
			EventName: event.EventName,
			Category:  string(event.Category),
			Page:      event.Page,
			ProductID: event.ProductID,
			Revenue:   event.Revenue,
		}
		if event.HasTimestamp {
			node.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
		}
		template.Events = append(template.Events, node)
		template.Edges = append(template.Edges, Edge{
			From: sess.SessionID,
			To:   eventRef(sess.SessionID, i, event.EventID),
			Type: EdgeHasEvent,
		})
	}

	if nextSessionID != "" {
		template.Edges = append(template.Edges, Edge{
			From: sess.SessionID,
			To:   nextSessionID,
			Type: EdgeNextSession,
		})
	}

	return template
}

// BuildChain builds templates for an ordered list of one customer's
// sessions, wiring each session to its successor.
func (b *TemplateBuilder) BuildChain(results []*models.SessionAnalysisResult) []*SessionTemplate {
	templates := make([]*SessionTemplate, 0, len(results))
	for i, result := range results {
		next := ""
		if i+1 < len(results) {
			next = results[i+1].Session.SessionID
		}
		templates = append(templates, b.Build(result, next))
	}
	return templates
}

// eventRef returns a stable identifier for an event node that lacks its
// own event ID, scoped to the owning session.
func eventRef(sessionID string, index int, eventID string) string {
	if eventID != "" {
		return eventID
	}
	return fmt.Sprintf("%s/events/%d", sessionID, index)
}
