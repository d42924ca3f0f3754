// Package ingest reads raw interaction-event exports into the record
// format the analysis engine consumes. It owns the structural validation
// of an input source; per-record problems (bad timestamps, missing
// session keys) are deliberately left for the engine to tally as
// warnings, so the skip accounting lives in one place.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pawprint/api/models"
)

// Required columns of an event export. Matching is case-insensitive.
var requiredColumns = []string{"EVENT_NAME", "EVENT_TIMESTAMP", "SESSION_ID", "CUSTOMER_ID"}

// Optional columns mapped onto dedicated RawEvent fields. Anything else
// is preserved in the attribute map, lowercased, and ignored by scoring.
var optionalColumns = map[string]bool{
	"EVENT_ID":         true,
	"PAGE_TYPE":        true,
	"SEARCH_TERM":      true,
	"PAGE_PRODUCT_SKU": true,
	"REVENUE":          true,
}

// SourceError reports a structurally invalid input source, e.g. a CSV
// missing required columns entirely. It fails the whole read; it is never
// used for individual malformed rows.
type SourceError struct {
	MissingColumns []string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("invalid event source: missing required columns: %s",
		strings.Join(e.MissingColumns, ", "))
}

// Options tune one read. A zero Options reads every row for every
// customer.
type Options struct {
	// CustomerID, when set, keeps only that customer's rows.
	CustomerID string
	// MaxRows, when positive, stops reading after that many data rows.
	MaxRows int
}

// ReadEvents parses a CSV event export into raw records. The header row
// is validated up front: missing required columns return a SourceError
// and no records. Individual rows are never rejected here beyond CSV
// framing; field-level problems flow through to the analysis engine.
func ReadEvents(r io.Reader, opts Options) ([]models.RawEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &SourceError{MissingColumns: requiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SourceError{MissingColumns: missing}
	}

	var events []models.RawEvent
	rows := 0
	for {
		if opts.MaxRows > 0 && rows >= opts.MaxRows {
			break
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", rows+1, err)
		}
		rows++

		event := parseRow(columns, row)
		if opts.CustomerID != "" && event.CustomerID != opts.CustomerID {
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

func parseRow(columns map[string]int, row []string) models.RawEvent {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	event := models.RawEvent{
		EventID:    field("EVENT_ID"),
		EventName:  field("EVENT_NAME"),
		Timestamp:  field("EVENT_TIMESTAMP"),
		SessionKey: field("SESSION_ID"),
		CustomerID: field("CUSTOMER_ID"),
		Page:       field("PAGE_TYPE"),
		SearchTerm: field("SEARCH_TERM"),
		ProductID:  field("PAGE_PRODUCT_SKU"),
	}
	if raw := field("REVENUE"); raw != "" {
		if revenue, err := strconv.ParseFloat(raw, 64); err == nil {
			event.Revenue = revenue
		}
	}

	for name, i := range columns {
		if i >= len(row) || requiredColumn(name) || optionalColumns[name] {
			continue
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			continue
		}
		if event.Attributes == nil {
			event.Attributes = make(map[string]string)
		}
		event.Attributes[strings.ToLower(name)] = value
	}

	return event
}

func requiredColumn(name string) bool {
	for _, required := range requiredColumns {
		if name == required {
			return true
		}
	}
	return false
}
