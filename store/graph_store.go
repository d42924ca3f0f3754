package store

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"pawprint/api/database"
	"pawprint/api/graph"
)

// GraphStore materializes session templates into the customer graph. It
// is the external graph-writing collaborator the analysis engine hands
// its templates to; the engine itself never issues queries.
type GraphStore struct {
	DB *database.Neo4jClient
}

func NewGraphStore(client *database.Neo4jClient) *GraphStore {
	return &GraphStore{DB: client}
}

const createSessionQuery = `
MERGE (c:Customer {customer_id: $customer_id})
CREATE (s:Session)
SET s = $props
CREATE (c)-[:HAS_SESSION]->(s)
WITH s
UNWIND $events AS event
CREATE (e:SessionEvent)
SET e = event
CREATE (s)-[:HAS_EVENT]->(e)
RETURN s.session_id AS created_session_id
`

const chainSessionQuery = `
MATCH (s:Session {session_id: $session_id})
MATCH (next:Session {session_id: $next_session_id})
MERGE (s)-[:NEXT_SESSION]->(next)
`

// PersistSessionTemplates writes each template as a Session node under
// its Customer, with nested SessionEvent nodes, then wires NEXT_SESSION
// edges in a second pass so chains resolve regardless of template order.
func (s *GraphStore) PersistSessionTemplates(ctx context.Context, templates []*graph.SessionTemplate) error {
	if len(templates) == 0 {
		return nil
	}

	session := s.DB.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		for _, template := range templates {
			events := make([]map[string]interface{}, 0, len(template.Events))
			for _, event := range template.Events {
				events = append(events, map[string]interface{}{
					"event_id":   event.EventID,
					"event_name": event.EventName,
					"timestamp":  event.Timestamp,
					"category":   event.Category,
					"page":       event.Page,
					"product_id": event.ProductID,
					"revenue":    event.Revenue,
				})
			}

			_, err := tx.Run(ctx, createSessionQuery, map[string]interface{}{
				"customer_id": template.CustomerID,
				"props":       template.Properties,
				"events":      events,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create session node %s: %w", template.SessionID, err)
			}
		}

		for _, template := range templates {
			if template.NextSessionID == "" {
				continue
			}
			_, err := tx.Run(ctx, chainSessionQuery, map[string]interface{}{
				"session_id":      template.SessionID,
				"next_session_id": template.NextSessionID,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to chain session %s: %w", template.SessionID, err)
			}
		}

		return nil, nil
	})
	if err != nil {
		return err
	}

	log.Printf("Persisted %d session templates to the customer graph.", len(templates))
	return nil
}
