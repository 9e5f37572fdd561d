package poker

import (
	"fmt"
	rand "math/rand/v2"
)

// NumCards is the size of a standard deck
const NumCards = 52

// ErrDeckExhausted is returned when a deal requests more cards than remain.
// It should never be reachable with 2-5 seats and five community cards; a
// caller seeing it has hit an engine invariant violation.
var ErrDeckExhausted = fmt.Errorf("deck exhausted")

// Deck represents a standard 52-card deck. It is shuffled exactly once at
// construction and dealing consumes cards from the front.
type Deck struct {
	cards [NumCards]Card
	next  int
}

// NewDeck creates a new deck shuffled with the provided RNG. The RNG is
// required so deals are reproducible from a seed.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{}

	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	// Fisher-Yates
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}

	return d
}

// Deal removes and returns the next n cards from the deck
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}
	if d.next+n > len(d.cards) {
		return nil, fmt.Errorf("%w: %d requested, %d remain", ErrDeckExhausted, n, d.Remaining())
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Remaining returns the number of undealt cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
