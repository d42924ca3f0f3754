package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"pawprint/api/models"
	"pawprint/api/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TrackHandlers struct {
	EventStore *store.EventStore
}

func NewTrackHandlers(s *store.EventStore) *TrackHandlers {
	return &TrackHandlers{EventStore: s}
}

// TrackEvents accepts a batch of raw interaction events and stores them
// for later analysis. Events are stored exactly as received (including
// whatever timestamp string the client sent); validation happens at
// analysis time so degraded input stays observable there.
func (h *TrackHandlers) TrackEvents(c *gin.Context) {
	var incomingEvents []models.RawEvent
	if err := c.ShouldBindJSON(&incomingEvents); err != nil {
		log.Printf("Error binding incoming event JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(incomingEvents) == 0 {
		c.Status(http.StatusOK)
		return
	}

	eventsToInsert := make([]models.RawEvent, 0, len(incomingEvents))
	for _, event := range incomingEvents {
		if event.EventID == "" {
			event.EventID = uuid.New().String()
		}
		eventsToInsert = append(eventsToInsert, event)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.EventStore.InsertRawEvents(ctx, eventsToInsert); err != nil {
		log.Printf("Error inserting raw events into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record events"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *TrackHandlers) GetEventCountsOverTime(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	eventNameFilter := c.Query("eventName")

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.EventStore.GetEventCountsOverTime(ctx, interval, start, end, eventNameFilter)
	if err != nil {
		log.Printf("Error getting event counts over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *TrackHandlers) GetTopNPages(c *gin.Context) {
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	var limit uint64 = 10
	if limitParam := c.Query("limit"); limitParam != "" {
		parsedLimit, err := strconv.ParseUint(limitParam, 10, 64)
		if err != nil || parsedLimit == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsedLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.EventStore.GetTopNPages(ctx, start, end, limit)
	if err != nil {
		log.Printf("Error getting top pages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top page statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// parseTimeRange reads optional 'start'/'end' RFC3339 query parameters,
// defaulting to the last 7 days. On a malformed value it writes the 400
// response itself and reports false.
func parseTimeRange(c *gin.Context) (start, end time.Time, ok bool) {
	var err error

	if startParam := c.Query("start"); startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	} else {
		start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	}

	if endParam := c.Query("end"); endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	} else {
		end = time.Now().UTC()
	}

	return start, end, true
}
