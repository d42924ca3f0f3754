package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"pawprint/api/analysis"
	"pawprint/api/graph"
	"pawprint/api/ingest"
	"pawprint/api/models"
	"pawprint/api/store"

	"github.com/gin-gonic/gin"
)

// AnalysisHandlers expose the session scoring-and-narrative engine over
// HTTP: analyze a customer's stored events, or analyze an uploaded CSV
// export directly. The graph store is optional; when it is configured,
// callers can ask for results to be persisted to the customer graph.
type AnalysisHandlers struct {
	Pipeline   *analysis.AnalysisPipeline
	EventStore *store.EventStore
	GraphStore *store.GraphStore
	Builder    *graph.TemplateBuilder
}

func NewAnalysisHandlers(pipeline *analysis.AnalysisPipeline, eventStore *store.EventStore, graphStore *store.GraphStore) *AnalysisHandlers {
	return &AnalysisHandlers{
		Pipeline:   pipeline,
		EventStore: eventStore,
		GraphStore: graphStore,
		Builder:    graph.NewTemplateBuilder(),
	}
}

// AnalyzeCustomer runs the pipeline over a customer's stored events.
// Query parameters: customer_id (required), max_rows (optional cap),
// persist=true to write session templates to the customer graph.
func (h *AnalysisHandlers) AnalyzeCustomer(c *gin.Context) {
	customerID := c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id query parameter is required"})
		return
	}

	maxRows, ok := parseMaxRows(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	records, err := h.EventStore.GetCustomerEvents(ctx, customerID, 0)
	if err != nil {
		log.Printf("Error fetching events for customer %s: %v", customerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer events"})
		return
	}

	batch := h.Pipeline.Process(records, maxRows)

	if c.Query("persist") == "true" {
		if !h.persistBatch(ctx, c, batch.Results) {
			return
		}
	}

	c.JSON(http.StatusOK, batch)
}

// AnalyzeUpload runs the pipeline over a CSV export sent as the request
// body. A structurally invalid source (missing required columns) fails
// the whole call with a descriptive message; individual malformed rows
// only show up in the batch metadata's skip tally.
func (h *AnalysisHandlers) AnalyzeUpload(c *gin.Context) {
	maxRows, ok := parseMaxRows(c)
	if !ok {
		return
	}

	records, err := ingest.ReadEvents(c.Request.Body, ingest.Options{
		CustomerID: c.Query("customer_id"),
		MaxRows:    maxRows,
	})
	if err != nil {
		var sourceErr *ingest.SourceError
		if errors.As(err, &sourceErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": sourceErr.Error()})
			return
		}
		log.Printf("Error reading uploaded event CSV: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse uploaded CSV"})
		return
	}

	batch := h.Pipeline.Process(records, 0)

	if c.Query("persist") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if !h.persistBatch(ctx, c, batch.Results) {
			return
		}
	}

	c.JSON(http.StatusOK, batch)
}

func (h *AnalysisHandlers) persistBatch(ctx context.Context, c *gin.Context, results []*models.SessionAnalysisResult) bool {
	if h.GraphStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Graph persistence is not configured"})
		return false
	}

	templates := h.Builder.BuildChain(results)
	if err := h.GraphStore.PersistSessionTemplates(ctx, templates); err != nil {
		log.Printf("Error persisting session templates: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist analysis results"})
		return false
	}
	return true
}

func parseMaxRows(c *gin.Context) (int, bool) {
	maxRowsParam := c.Query("max_rows")
	if maxRowsParam == "" {
		return 0, true
	}
	maxRows, err := strconv.Atoi(maxRowsParam)
	if err != nil || maxRows < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'max_rows' parameter. Must be a non-negative integer."})
		return 0, false
	}
	return maxRows, true
}
