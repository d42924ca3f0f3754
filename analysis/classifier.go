package analysis

import (
	"strings"

	"pawprint/api/models"
)

// classifyOrder is the fixed priority in which categories are tested.
// Veterinary and commerce come first because they are the signal-bearing
// categories for the scorer; generic navigation matches last so "Product
// Page Viewed" reads as commerce-adjacent content rather than navigation.
var classifyOrder = []models.EventCategory{
	models.CategoryVeterinary,
	models.CategoryCommerce,
	models.CategoryAccount,
	models.CategorySearch,
	models.CategoryContent,
	models.CategoryNavigation,
}

// EventClassifier assigns exactly one semantic category to each event by
// matching the lowercased event name against configurable keyword sets in
// a fixed priority order. There is no error path: events matching no
// keyword fall back to CategoryOther.
type EventClassifier struct {
	keywords map[models.EventCategory][]string
}

func NewEventClassifier(cfg *Config) *EventClassifier {
	return &EventClassifier{keywords: cfg.Keywords}
}

// Classify returns the category for one event. A populated search term
// counts as a search signal even when the event name carries no search
// keyword, as long as no higher-priority category matched.
func (c *EventClassifier) Classify(event *models.SessionEvent) models.EventCategory {
	name := strings.ToLower(event.EventName)

	for _, category := range classifyOrder {
		if category == models.CategorySearch && event.SearchTerm != "" {
			return models.CategorySearch
		}
		for _, keyword := range c.keywords[category] {
			if strings.Contains(name, keyword) {
				return category
			}
		}
	}

	return models.CategoryOther
}
