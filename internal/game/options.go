package game

import "github.com/cardstream/holdem/poker"

// DefaultStartChips is the stack each seat starts with unless configured
const DefaultStartChips = 1000

// HandOption configures a Hand during creation
type HandOption func(*handConfig)

type handConfig struct {
	startChips int
	chips      []int
	deck       *poker.Deck
}

// WithUniformChips gives every seat the same starting stack
func WithUniformChips(chips int) HandOption {
	return func(c *handConfig) {
		c.startChips = chips
		c.chips = nil
	}
}

// WithChips sets individual stacks per seat, matching the seat order. Used by
// the table layer to carry stacks across hands.
func WithChips(chips []int) HandOption {
	return func(c *handConfig) {
		c.chips = chips
	}
}

// WithDeck sets a pre-built deck, overriding the RNG shuffle. Intended for
// deterministic tests that need known cards.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}
