package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pawprint/api/models"
)

func TestAdventureChronicleClauseAssembly(t *testing.T) {
	narrator := NewNarrativeGenerator()

	sess := sessionWithEvents(12,
		"Search Performed", "Search Performed",
		"Product Viewed", "Product Viewed", "Product Viewed",
		"Product Added",
		"Order Completed",
	)
	sess.Channel = "Organic Search"

	chronicle := narrator.AdventureChronicle(sess)

	// Fixed clause order: channel, search, browsing, cart, purchase,
	// duration.
	assert.Equal(t,
		"User embarked on a digital journey via Organic Search - "+
			"conducted 2 search expeditions - "+
			"explored 3 product territories - "+
			"gathered 1 items for potential acquisition - "+
			"successfully completed 1 purchase missions - "+
			"browsing for 12.0 focused minutes.",
		chronicle)
}

func TestAdventureChronicleOmitsZeroClauses(t *testing.T) {
	narrator := NewNarrativeGenerator()

	sess := sessionWithEvents(2, "Page Viewed", "Page Viewed")
	sess.Channel = "Direct"

	chronicle := narrator.AdventureChronicle(sess)
	assert.Equal(t,
		"User embarked on a digital journey via Direct - making a swift reconnaissance.",
		chronicle)
	assert.NotContains(t, chronicle, "search expeditions")
	assert.NotContains(t, chronicle, "purchase missions")
}

func TestAdventureChronicleDurationTiers(t *testing.T) {
	narrator := NewNarrativeGenerator()

	sess := sessionWithEvents(45, "Page Viewed")
	assert.Contains(t, narrator.AdventureChronicle(sess), "spending 45.0 minutes in deep exploration")

	sess = sessionWithEvents(10, "Page Viewed")
	assert.Contains(t, narrator.AdventureChronicle(sess), "browsing for 10.0 focused minutes")

	sess = sessionWithEvents(2, "Page Viewed")
	assert.Contains(t, narrator.AdventureChronicle(sess), "making a swift reconnaissance")
}

func TestAdventureChronicleEmptySession(t *testing.T) {
	narrator := NewNarrativeGenerator()
	assert.Equal(t,
		"A brief encounter with our digital realm - no significant activity detected.",
		narrator.AdventureChronicle(&models.Session{SessionID: "S1"}))
}

func TestDepartureMysteryDecisionTable(t *testing.T) {
	narrator := NewNarrativeGenerator()

	tests := []struct {
		name     string
		events   []string
		expected string
	}{
		{
			"completed purchase",
			[]string{"Search Performed", "Product Viewed", "Order Completed"},
			"Mission accomplished! Successfully completed their purchase and departed satisfied.",
		},
		{
			"cart without checkout",
			[]string{"Product Viewed", "Product Added", "Cart Updated"},
			"Hesitation at the final frontier - left with items in cart, perhaps to return later.",
		},
		{
			"product research",
			[]string{"Page Viewed", "Product Viewed"},
			"Gathering intelligence on products - likely comparing options before making a decision.",
		},
		{
			"still searching",
			[]string{"Page Viewed", "Search Performed"},
			"Still seeking the perfect solution - departed mid-quest, possibly to continue elsewhere.",
		},
		{
			"casual browsing",
			[]string{"Page Viewed", "Page Viewed"},
			"Casual exploration concluded - either found what they needed or lost interest.",
		},
		{
			"no clear signal",
			[]string{"Quantum Flux"},
			"Mysterious departure - their digital footsteps fade without clear resolution.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sess := sessionWithEvents(5, tc.events...)
			assert.Equal(t, tc.expected, narrator.DepartureMystery(sess))
		})
	}
}

func TestDepartureMysteryPurchaseBeatsTrailingCart(t *testing.T) {
	narrator := NewNarrativeGenerator()

	// A purchase anywhere in the session wins even when the last events
	// are cart activity.
	sess := sessionWithEvents(5, "Order Completed", "Cart Updated", "Cart Updated", "Cart Updated")
	assert.Equal(t,
		"Mission accomplished! Successfully completed their purchase and departed satisfied.",
		narrator.DepartureMystery(sess))
}

func TestNarrativesDeterministic(t *testing.T) {
	narrator := NewNarrativeGenerator()
	sess := sessionWithEvents(45, "Search Performed", "Product Viewed", "Cart Updated")
	sess.Channel = "Email"

	chronicle := narrator.AdventureChronicle(sess)
	mystery := narrator.DepartureMystery(sess)
	for i := 0; i < 5; i++ {
		assert.Equal(t, chronicle, narrator.AdventureChronicle(sess))
		assert.Equal(t, mystery, narrator.DepartureMystery(sess))
	}
}
