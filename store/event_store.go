package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"pawprint/api/database"
	"pawprint/api/models"
	"pawprint/api/utils"
)

// EventStore persists tracked raw events in ClickHouse and serves them
// back in arrival order for analysis runs. Timestamps are stored as the
// original strings the client sent; judging their validity is the
// analysis engine's job, so malformed values survive the round trip and
// show up in the warning tally instead of being silently repaired here.
type EventStore struct {
	DB *database.ClickHouseClient
}

type EventCountByTime struct {
	Time      time.Time `json:"time"`
	EventName *string   `json:"eventName,omitempty"`
	Count     uint64    `json:"count"`
}

type TopPageResult struct {
	Page  string `json:"page"`
	Count uint64 `json:"count"`
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{DB: chClient}
}

func (s *EventStore) InsertRawEvents(ctx context.Context, events []models.RawEvent) error {
	if len(events) == 0 {
		return nil
	}

	// Column order must exactly match the raw_events table schema.
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO raw_events (
			event_id, event_name, event_timestamp, session_key, customer_id,
			page, search_term, product_id, revenue, attributes, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	ingestedAt := time.Now().UTC()
	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.EventName,
			event.Timestamp,
			event.SessionKey,
			event.CustomerID,
			event.Page,
			event.SearchTerm,
			event.ProductID,
			event.Revenue,
			event.Attributes,
			ingestedAt,
		)
		if err != nil {
			log.Printf("Error appending event to batch (EventID: %s): %v", event.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Successfully inserted %d raw events.", len(events))
	return nil
}

// GetCustomerEvents returns a customer's events in ingestion order, which
// is the arrival order the analysis pipeline's session ordering guarantee
// is defined over. limit of 0 means no limit.
func (s *EventStore) GetCustomerEvents(ctx context.Context, customerID string, limit uint64) ([]models.RawEvent, error) {
	if customerID == "" {
		return nil, fmt.Errorf("customer ID cannot be empty")
	}

	query := `
		SELECT event_id, event_name, event_timestamp, session_key, customer_id,
		       page, search_term, product_id, revenue, attributes
		FROM raw_events
		WHERE customer_id = ?
		ORDER BY ingested_at ASC
	`
	args := []interface{}{customerID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer events: %w", err)
	}
	defer rows.Close()

	var events []models.RawEvent
	for rows.Next() {
		var event models.RawEvent
		if err := rows.Scan(
			&event.EventID,
			&event.EventName,
			&event.Timestamp,
			&event.SessionKey,
			&event.CustomerID,
			&event.Page,
			&event.SearchTerm,
			&event.ProductID,
			&event.Revenue,
			&event.Attributes,
		); err != nil {
			log.Printf("Error scanning raw event row: %v", err)
			continue
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during customer events query: %w", err)
	}

	return events, nil
}

func (s *EventStore) GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventNameFilter string) ([]EventCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	args := []interface{}{start, end}
	selectCols := fmt.Sprintf("toStartOf%s(ingested_at) as time_bucket, count() as total_events", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE ingested_at >= ? AND ingested_at <= ?"
	orderByCols := "time_bucket ASC"
	isFiltering := eventNameFilter != ""

	if isFiltering {
		selectCols += ", event_name"
		groupByCols += ", event_name"
		whereClause += " AND event_name = ?"
		args = append(args, eventNameFilter)
		orderByCols += ", event_name ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM raw_events
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts over time: %w", err)
	}
	defer rows.Close()

	var results []EventCountByTime
	for rows.Next() {
		var (
			timeBucket time.Time
			count      uint64
			eventName  string
			current    EventCountByTime
		)

		if isFiltering {
			if err := rows.Scan(&timeBucket, &count, &eventName); err != nil {
				log.Printf("Error scanning row for event counts over time (with name filter): %v", err)
				continue
			}
			current.EventName = &eventName
		} else {
			if err := rows.Scan(&timeBucket, &count); err != nil {
				log.Printf("Error scanning row for event counts over time (no name filter): %v", err)
				continue
			}
		}

		current.Time = timeBucket
		current.Count = count
		results = append(results, current)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event counts over time query: %w", err)
	}

	return results, nil
}

func (s *EventStore) GetTopNPages(ctx context.Context, start, end time.Time, limit uint64) ([]TopPageResult, error) {
	if limit == 0 {
		limit = 10
	}

	query := `
		SELECT page, count() as view_count
		FROM raw_events
		WHERE page != '' AND ingested_at >= ? AND ingested_at <= ?
		GROUP BY page
		ORDER BY view_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top pages: %w", err)
	}
	defer rows.Close()

	var results []TopPageResult
	for rows.Next() {
		var page string
		var count uint64
		if err := rows.Scan(&page, &count); err != nil {
			log.Printf("Error scanning row for top pages: %v", err)
			continue
		}
		results = append(results, TopPageResult{Page: page, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top pages: %w", err)
	}

	return results, nil
}
