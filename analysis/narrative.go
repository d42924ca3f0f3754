package analysis

import (
	"fmt"
	"strings"

	"pawprint/api/models"
)

// NarrativeGenerator renders the two behavioral strings for a session:
// the adventure chronicle (what happened) and the departure mystery (why
// the session likely ended the way it did). Both are deterministic:
// the chronicle is a fixed-order clause assembly and the mystery a closed
// decision table, so identical session facts always produce identical
// bytes. No generative model is involved.
type NarrativeGenerator struct{}

func NewNarrativeGenerator() *NarrativeGenerator {
	return &NarrativeGenerator{}
}

// AdventureChronicle assembles the session narrative from templated
// clauses in fixed order: channel, search, browsing, cart, purchase,
// duration. Clauses whose backing count is zero are omitted.
func (g *NarrativeGenerator) AdventureChronicle(sess *models.Session) string {
	if len(sess.Events) == 0 {
		return "A brief encounter with our digital realm - no significant activity detected."
	}

	var searches, products, cartAdds, purchases int
	for i := range sess.Events {
		e := &sess.Events[i]
		switch {
		case isPurchaseEvent(e):
			purchases++
		case isCartEvent(e):
			cartAdds++
		case isSearchEvent(e):
			searches++
		case isProductEvent(e):
			products++
		}
	}

	channel := sess.Channel
	if channel == "" {
		channel = "unknown means"
	}
	clauses := []string{fmt.Sprintf("User embarked on a digital journey via %s", channel)}

	if searches > 0 {
		clauses = append(clauses, fmt.Sprintf("conducted %d search expeditions", searches))
	}
	if products > 0 {
		clauses = append(clauses, fmt.Sprintf("explored %d product territories", products))
	}
	if cartAdds > 0 {
		clauses = append(clauses, fmt.Sprintf("gathered %d items for potential acquisition", cartAdds))
	}
	if purchases > 0 {
		clauses = append(clauses, fmt.Sprintf("successfully completed %d purchase missions", purchases))
	}

	switch {
	case sess.DurationMinutes > 30:
		clauses = append(clauses, fmt.Sprintf("spending %.1f minutes in deep exploration", sess.DurationMinutes))
	case sess.DurationMinutes > 5:
		clauses = append(clauses, fmt.Sprintf("browsing for %.1f focused minutes", sess.DurationMinutes))
	default:
		clauses = append(clauses, "making a swift reconnaissance")
	}

	return strings.Join(clauses, " - ") + "."
}

// DepartureMystery selects the session-ending hypothesis from a closed
// decision table keyed by terminal signal. A completed purchase anywhere
// in the session wins outright, so trailing cart activity after a
// purchase never reads as hesitation; the remaining rows inspect the last
// three events.
func (g *NarrativeGenerator) DepartureMystery(sess *models.Session) string {
	if len(sess.Events) == 0 {
		return "Departed as quickly as they arrived - perhaps lost or disinterested."
	}

	if hasPurchase(sess) {
		return "Mission accomplished! Successfully completed their purchase and departed satisfied."
	}

	last := sess.Events
	if len(last) > 3 {
		last = last[len(last)-3:]
	}

	var cart, product, search, page bool
	for i := range last {
		e := &last[i]
		cart = cart || isCartEvent(e)
		product = product || isProductEvent(e)
		search = search || isSearchEvent(e)
		page = page || isPageEvent(e)
	}

	switch {
	case cart:
		return "Hesitation at the final frontier - left with items in cart, perhaps to return later."
	case product:
		return "Gathering intelligence on products - likely comparing options before making a decision."
	case search:
		return "Still seeking the perfect solution - departed mid-quest, possibly to continue elsewhere."
	case page:
		return "Casual exploration concluded - either found what they needed or lost interest."
	default:
		return "Mysterious departure - their digital footsteps fade without clear resolution."
	}
}
