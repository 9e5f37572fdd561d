package game

import "github.com/cardstream/holdem/poker"

// Seat represents one seat in a hand. Bet holds the chips committed on the
// current street; they are swept into the pot when the street closes.
type Seat struct {
	ID        string
	Index     int
	Chips     int
	Bet       int
	TotalBet  int
	HoleCards []poker.Card
	Folded    bool
	AllIn     bool
}

// Active reports whether the seat can still act: not folded and not all-in.
// An all-in seat stays eligible for showdown but takes no further actions.
func (s *Seat) Active() bool {
	return !s.Folded && !s.AllIn
}

// commit moves up to amount chips from the stack into the seat's street bet,
// capped at the remaining stack. Returns the amount actually committed.
func (s *Seat) commit(amount int) int {
	if amount > s.Chips {
		amount = s.Chips
	}
	s.Chips -= amount
	s.Bet += amount
	s.TotalBet += amount
	if s.Chips == 0 {
		s.AllIn = true
	}
	return amount
}
