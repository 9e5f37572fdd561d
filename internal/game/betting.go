package game

import "fmt"

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action. Going all-in is expressed as a call for
// the remaining stack or a raise to the seat's maximum, not a separate kind.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction parses the wire name of an action
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// ActionRecord is one entry in the hand's action history
type ActionRecord struct {
	Seat   string
	Street Street
	Action Action
	Amount int // street-bet total after the action for call/raise, 0 otherwise
}

// BettingRound encapsulates the state for one betting street
type BettingRound struct {
	CurrentBet int
	MinRaise   int
	BigBlind   int // kept to reset the min raise on new streets
	LastRaiser int // seat index of the last full raise, -1 if none
	BBActed    bool
	Acted      []bool // acted since the last full raise, by seat index
}

// NewBettingRound creates betting state for a fresh hand
func NewBettingRound(numSeats, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:   bigBlind,
		BigBlind:   bigBlind,
		LastRaiser: -1,
		Acted:      make([]bool, numSeats),
	}
}

// ResetForStreet clears per-street state when a new street begins
func (br *BettingRound) ResetForStreet() {
	br.CurrentBet = 0
	br.MinRaise = br.BigBlind
	br.LastRaiser = -1
	for i := range br.Acted {
		br.Acted[i] = false
	}
	// BBActed is deliberately kept: the big-blind option only exists preflop.
}

// MarkActed marks a seat as having acted since the last full raise
func (br *BettingRound) MarkActed(seat int) {
	if seat >= 0 && seat < len(br.Acted) {
		br.Acted[seat] = true
	}
}

// markRaise records a full raise: every other seat must act again
func (br *BettingRound) markRaise(seat int) {
	for i := range br.Acted {
		br.Acted[i] = false
	}
	br.Acted[seat] = true
	br.LastRaiser = seat
}

// ToCall returns the amount the seat must add to match the current bet
func (br *BettingRound) ToCall(s *Seat) int {
	if d := br.CurrentBet - s.Bet; d > 0 {
		return d
	}
	return 0
}

// MinRaiseTo returns the smallest legal raise-to total for the street
func (br *BettingRound) MinRaiseTo() int {
	if br.CurrentBet == 0 {
		return br.MinRaise
	}
	return br.CurrentBet + br.MinRaise
}

// MaxRaiseTo returns the seat's all-in raise-to total
func (br *BettingRound) MaxRaiseTo(s *Seat) int {
	return s.Bet + s.Chips
}

// LegalActions computes the legal action set for a seat from current state.
// Only meaningful for the seat whose turn it is.
func (br *BettingRound) LegalActions(s *Seat) []Action {
	if !s.Active() {
		return nil
	}

	actions := []Action{Fold}
	toCall := br.ToCall(s)

	if toCall == 0 {
		actions = append(actions, Check)
	} else if s.Chips > 0 {
		actions = append(actions, Call)
	}

	// A raise requires chips strictly beyond the call amount. A short all-in
	// raise below the minimum increment is legal; amount validation happens
	// in ApplyAction.
	if s.Chips > toCall {
		actions = append(actions, Raise)
	}

	return actions
}

// Complete reports whether the betting round is finished: every seat that can
// still act has matched the current bet and has acted since the last full
// raise. The acted flags are tracked explicitly so the big blind keeps its
// preflop option after limp calls even though its bet already matches.
func (br *BettingRound) Complete(seats []*Seat, street Street, button int) bool {
	active := 0
	for _, s := range seats {
		if s.Active() {
			active++
		}
	}
	if active == 0 {
		return true
	}

	for _, s := range seats {
		if s.Active() && s.Bet != br.CurrentBet {
			return false
		}
	}
	for i, s := range seats {
		if s.Active() && !br.Acted[i] {
			return false
		}
	}

	if street == Preflop {
		bbPos := bigBlindIndex(len(seats), button)
		bb := seats[bbPos]
		if br.LastRaiser == -1 && bb.Active() && !br.BBActed {
			return false
		}
	}

	return true
}

// smallBlindIndex returns the small blind seat index. Heads-up the button
// posts the small blind.
func smallBlindIndex(numSeats, button int) int {
	if numSeats == 2 {
		return button
	}
	return (button + 1) % numSeats
}

// bigBlindIndex returns the big blind seat index
func bigBlindIndex(numSeats, button int) int {
	if numSeats == 2 {
		return (button + 1) % numSeats
	}
	return (button + 2) % numSeats
}
