package analysis

import (
	"strings"

	"pawprint/api/models"
)

// Terminal-signal helpers shared by the confidence estimator and the
// narrative generator. All operate on event names only, so both stages
// read the same facts and stay byte-for-byte reproducible.

func isPurchaseEvent(event *models.SessionEvent) bool {
	name := strings.ToLower(event.EventName)
	return strings.Contains(name, "purchase") ||
		strings.Contains(name, "order") ||
		strings.Contains(name, "payment")
}

func isCartEvent(event *models.SessionEvent) bool {
	name := strings.ToLower(event.EventName)
	return strings.Contains(name, "cart") ||
		strings.Contains(name, "checkout") ||
		strings.Contains(name, "add")
}

func isProductEvent(event *models.SessionEvent) bool {
	return strings.Contains(strings.ToLower(event.EventName), "product") ||
		event.ProductID != ""
}

func isSearchEvent(event *models.SessionEvent) bool {
	return strings.Contains(strings.ToLower(event.EventName), "search") ||
		event.SearchTerm != ""
}

func isPageEvent(event *models.SessionEvent) bool {
	name := strings.ToLower(event.EventName)
	return strings.Contains(name, "page") || strings.Contains(name, "viewed")
}

func hasPurchase(sess *models.Session) bool {
	for i := range sess.Events {
		if isPurchaseEvent(&sess.Events[i]) {
			return true
		}
	}
	return false
}

// hasClearGoal reports directed activity short of a purchase: cart,
// product, or search signals.
func hasClearGoal(sess *models.Session) bool {
	for i := range sess.Events {
		e := &sess.Events[i]
		if isCartEvent(e) || isProductEvent(e) || isSearchEvent(e) {
			return true
		}
	}
	return false
}
