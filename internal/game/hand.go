package game

import (
	rand "math/rand/v2"

	"github.com/cardstream/holdem/poker"
)

// Outcome describes how a hand ended
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeFoldWin
	OutcomeShowdown
)

// Hand is the authoritative state machine for one poker hand. It owns every
// piece of mutable state; callers hold exactly one reference and feed it one
// action at a time. All methods are synchronous and perform no I/O, so the
// transport layer is responsible for serialising concurrent submissions.
type Hand struct {
	seats   []*Seat
	button  int
	street  Street
	board   []poker.Card
	pot     int // chips swept from completed streets
	deck    *poker.Deck
	betting *BettingRound
	oracle  Oracle
	turn    int // seat index on turn, -1 when none

	history []ActionRecord
	events  []Event

	complete bool
	outcome  Outcome
	winners  []string
	payouts  map[string]int

	smallBlind    int
	bigBlind      int
	startingTotal int
}

// NewHand starts a hand for the given seats. Every seat must be funded; the
// table layer filters broke seats out before starting. Randomness comes only
// from the provided RNG so identical seeds reproduce identical deals.
func NewHand(rng *rand.Rand, oracle Oracle, seatIDs []string, button, smallBlind, bigBlind int, opts ...HandOption) (*Hand, error) {
	cfg := &handConfig{startChips: DefaultStartChips}
	for _, opt := range opts {
		opt(cfg)
	}

	if rng == nil && cfg.deck == nil {
		return nil, setupErrorf("an RNG is required")
	}
	if oracle == nil {
		return nil, setupErrorf("a hand rank oracle is required")
	}
	if len(seatIDs) < 2 || len(seatIDs) > 5 {
		return nil, setupErrorf("need 2-5 seats, got %d", len(seatIDs))
	}
	if button < 0 || button >= len(seatIDs) {
		return nil, setupErrorf("button %d out of range", button)
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, setupErrorf("invalid blinds %d/%d", smallBlind, bigBlind)
	}
	if cfg.chips != nil && len(cfg.chips) != len(seatIDs) {
		return nil, setupErrorf("chip counts must match seats")
	}

	seats := make([]*Seat, len(seatIDs))
	total := 0
	for i, id := range seatIDs {
		chips := cfg.startChips
		if cfg.chips != nil {
			chips = cfg.chips[i]
		}
		if chips <= 0 {
			return nil, setupErrorf("seat %s has no chips", id)
		}
		seats[i] = &Seat{ID: id, Index: i, Chips: chips}
		total += chips
	}

	deck := cfg.deck
	if deck == nil {
		deck = poker.NewDeck(rng)
	}

	h := &Hand{
		seats:         seats,
		button:        button,
		street:        Preflop,
		deck:          deck,
		betting:       NewBettingRound(len(seats), bigBlind),
		oracle:        oracle,
		turn:          -1,
		payouts:       make(map[string]int),
		smallBlind:    smallBlind,
		bigBlind:      bigBlind,
		startingTotal: total,
	}

	for _, s := range h.seats {
		cards, err := h.deck.Deal(2)
		if err != nil {
			return nil, invariantErrorf(err, "dealing hole cards")
		}
		s.HoleCards = cards
	}

	h.postBlinds()
	h.events = append(h.events, DealEvent{Street: Preflop})

	first := h.firstToActPreflop()
	h.turn = h.nextActive(first)

	// Blinds can put every seat all-in; run the board out immediately.
	if err := h.maybeAdvance(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hand) postBlinds() {
	n := len(h.seats)
	sb := h.seats[smallBlindIndex(n, h.button)]
	bb := h.seats[bigBlindIndex(n, h.button)]
	sb.commit(h.smallBlind)
	bb.commit(h.bigBlind)
	h.betting.CurrentBet = h.bigBlind
}

func (h *Hand) firstToActPreflop() int {
	n := len(h.seats)
	if n == 2 {
		return h.button // heads-up: button posts SB and acts first
	}
	return (bigBlindIndex(n, h.button) + 1) % n
}

// nextActive returns the index of the first seat at or after from (wrapping)
// that can still act, or -1 if none remain.
func (h *Hand) nextActive(from int) int {
	n := len(h.seats)
	for i := 0; i < n; i++ {
		pos := (from + i) % n
		if h.seats[pos].Active() {
			return pos
		}
	}
	return -1
}

// LegalActions returns the legal action set for a seat. It is computed from
// current state, never cached, and is empty for any seat not on turn.
func (h *Hand) LegalActions(seatID string) []Action {
	if h.complete {
		return nil
	}
	idx := h.seatIndex(seatID)
	if idx < 0 || idx != h.turn {
		return nil
	}
	return h.betting.LegalActions(h.seats[idx])
}

// ApplyAction applies one action for the seat on turn. A rejected action
// returns a *ValidationError and leaves the state untouched; the same seat
// remains on turn. A returned *InvariantError means the hand is corrupt and
// has been terminated.
func (h *Hand) ApplyAction(seatID string, action Action, amount int) error {
	if h.complete {
		return validationErrorf(CodeHandComplete, "hand is over")
	}
	idx := h.seatIndex(seatID)
	if idx < 0 {
		return validationErrorf(CodeUnknownSeat, "no seat %q in this hand", seatID)
	}
	if idx != h.turn {
		return validationErrorf(CodeOutOfTurn, "it is not seat %s's turn", seatID)
	}

	seat := h.seats[idx]
	if !legalContains(h.betting.LegalActions(seat), action) {
		return validationErrorf(CodeIllegalAction, "%s is not legal for seat %s", action, seatID)
	}

	// Validate raise bounds before any mutation.
	if action == Raise {
		if amount <= 0 {
			return validationErrorf(CodeAmountRequired, "raise requires a raise-to amount")
		}
		if amount <= h.betting.CurrentBet {
			return validationErrorf(CodeRaiseTooSmall, "raise-to %d must exceed current bet %d", amount, h.betting.CurrentBet)
		}
		required := amount - seat.Bet
		if required > seat.Chips {
			return validationErrorf(CodeRaiseTooLarge, "raise-to %d exceeds stack", amount)
		}
		if amount < h.betting.MinRaiseTo() && required != seat.Chips {
			return validationErrorf(CodeRaiseTooSmall, "raise-to %d below minimum %d", amount, h.betting.MinRaiseTo())
		}
	}

	if h.street == Preflop && idx == bigBlindIndex(len(h.seats), h.button) {
		h.betting.BBActed = true
	}

	switch action {
	case Fold:
		seat.Folded = true
		h.record(seat, action, 0)
		if h.remainingCount() == 1 {
			return h.resolveFoldWin()
		}

	case Check:
		h.betting.MarkActed(idx)
		h.record(seat, action, 0)

	case Call:
		seat.commit(h.betting.ToCall(seat))
		h.betting.MarkActed(idx)
		h.record(seat, action, seat.Bet)

	case Raise:
		// A short all-in below the minimum increment raises the bet but does
		// not move the increment or reopen action to seats that already
		// matched the previous bet.
		if amount >= h.betting.MinRaiseTo() {
			h.betting.MinRaise = amount - h.betting.CurrentBet
			h.betting.markRaise(idx)
		} else {
			h.betting.MarkActed(idx)
		}
		h.betting.CurrentBet = amount
		seat.commit(amount - seat.Bet)
		h.record(seat, action, seat.Bet)
	}

	h.turn = h.nextActive(idx + 1)

	if err := h.maybeAdvance(); err != nil {
		return err
	}
	return h.checkInvariants()
}

func (h *Hand) record(seat *Seat, action Action, amount int) {
	h.history = append(h.history, ActionRecord{
		Seat:   seat.ID,
		Street: h.street,
		Action: action,
		Amount: amount,
	})
}

func legalContains(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

func (h *Hand) remainingCount() int {
	n := 0
	for _, s := range h.seats {
		if !s.Folded {
			n++
		}
	}
	return n
}

// maybeAdvance moves the hand forward while the current betting round is
// complete: dealing streets, running the board out when everyone left is
// all-in, and resolving showdown after the river.
func (h *Hand) maybeAdvance() error {
	for !h.complete && h.betting.Complete(h.seats, h.street, h.button) {
		if err := h.advanceStreet(); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hand) advanceStreet() error {
	h.sweepBets()

	if h.street == River {
		h.street = Showdown
		h.turn = -1
		return h.resolveShowdown()
	}

	var deal int
	switch h.street {
	case Preflop:
		h.street = Flop
		deal = 3
	case Flop:
		h.street = Turn
		deal = 1
	case Turn:
		h.street = River
		deal = 1
	}

	cards, err := h.deck.Deal(deal)
	if err != nil {
		h.complete = true
		return invariantErrorf(err, "dealing %s", h.street)
	}
	h.board = append(h.board, cards...)
	h.events = append(h.events, DealEvent{Street: h.street, Cards: cards})

	h.betting.ResetForStreet()
	h.turn = h.nextActive((h.button + 1) % len(h.seats))
	return nil
}

func (h *Hand) sweepBets() {
	for _, s := range h.seats {
		h.pot += s.Bet
		s.Bet = 0
	}
}

// resolveFoldWin awards the whole pot to the last unfolded seat. No cards are
// revealed.
func (h *Hand) resolveFoldWin() error {
	h.sweepBets()

	var winner *Seat
	for _, s := range h.seats {
		if !s.Folded {
			winner = s
			break
		}
	}
	if winner == nil {
		h.complete = true
		return invariantErrorf(nil, "fold win with no seats remaining")
	}

	pot := h.pot
	winner.Chips += pot
	h.pot = 0
	h.turn = -1
	h.complete = true
	h.outcome = OutcomeFoldWin
	h.winners = []string{winner.ID}
	h.payouts = map[string]int{winner.ID: pot}

	h.events = append(h.events, HandEndEvent{
		Winners: h.winners,
		Payouts: h.payouts,
		Pot:     pot,
		FoldWin: true,
	})
	return h.checkInvariants()
}

// resolveShowdown ranks every unfolded seat's best 5-of-7 hand and splits the
// single pot between the best rank(s). Odd chips are handed out one at a time
// in seat order starting immediately after the button, which makes tie splits
// deterministic.
func (h *Hand) resolveShowdown() error {
	var results []ShowdownResult
	best := HandRank(-1)
	bestCategory := ""

	for _, s := range h.seats {
		if s.Folded {
			continue
		}
		rr, err := h.oracle.Rank(s.HoleCards, h.board)
		if err != nil {
			h.complete = true
			return invariantErrorf(err, "ranking seat %s", s.ID)
		}
		results = append(results, ShowdownResult{
			Seat:     s.ID,
			Hole:     s.HoleCards,
			Rank:     rr.Rank,
			Category: rr.Category,
		})
		if rr.Rank > best {
			best = rr.Rank
			bestCategory = rr.Category
		}
	}

	winnerSet := make(map[string]bool)
	var winners []string
	for _, r := range results {
		if r.Rank == best {
			winnerSet[r.Seat] = true
			winners = append(winners, r.Seat)
		}
	}
	if len(winners) == 0 {
		h.complete = true
		return invariantErrorf(nil, "showdown with no winners")
	}

	pot := h.pot
	share := pot / len(winners)
	remainder := pot % len(winners)

	payouts := make(map[string]int, len(winners))
	for _, id := range winners {
		payouts[id] = share
	}
	for offset := 1; remainder > 0; offset++ {
		s := h.seats[(h.button+offset)%len(h.seats)]
		if winnerSet[s.ID] {
			payouts[s.ID]++
			remainder--
		}
	}

	for _, s := range h.seats {
		if amt, ok := payouts[s.ID]; ok {
			s.Chips += amt
		}
	}
	h.pot = 0
	h.complete = true
	h.outcome = OutcomeShowdown
	h.winners = winners
	h.payouts = payouts

	h.events = append(h.events,
		ShowdownEvent{Results: results},
		HandEndEvent{
			Winners:  winners,
			Payouts:  payouts,
			Pot:      pot,
			Category: bestCategory,
		},
	)
	return h.checkInvariants()
}

// checkInvariants verifies chip conservation and turn validity after every
// mutation. A failure terminates the hand; it indicates an engine bug, never
// bad client input.
func (h *Hand) checkInvariants() error {
	total := h.pot
	for _, s := range h.seats {
		total += s.Chips + s.Bet
	}
	if total != h.startingTotal {
		h.complete = true
		return invariantErrorf(nil, "chip conservation broken: have %d, want %d", total, h.startingTotal)
	}
	if !h.complete && h.turn >= 0 && !h.seats[h.turn].Active() {
		h.complete = true
		return invariantErrorf(nil, "turn points at ineligible seat %s", h.seats[h.turn].ID)
	}
	return nil
}

func (h *Hand) seatIndex(seatID string) int {
	for i, s := range h.seats {
		if s.ID == seatID {
			return i
		}
	}
	return -1
}

// Accessors

// Seats returns the hand's seats in table order
func (h *Hand) Seats() []*Seat { return h.seats }

// Seat returns the seat with the given id, or nil
func (h *Hand) Seat(seatID string) *Seat {
	if i := h.seatIndex(seatID); i >= 0 {
		return h.seats[i]
	}
	return nil
}

// Street returns the current street
func (h *Hand) Street() Street { return h.street }

// Board returns the community cards dealt so far
func (h *Hand) Board() []poker.Card { return h.board }

// Pot returns all chips committed to the hand, including bets not yet swept
// from the current street
func (h *Hand) Pot() int {
	pot := h.pot
	for _, s := range h.seats {
		pot += s.Bet
	}
	return pot
}

// Turn returns the id of the seat on turn, or "" when no action is pending
func (h *Hand) Turn() string {
	if h.turn < 0 || h.complete {
		return ""
	}
	return h.seats[h.turn].ID
}

// Button returns the id of the dealer-button seat
func (h *Hand) Button() string { return h.seats[h.button].ID }

// SmallBlindSeat returns the id of the small blind seat
func (h *Hand) SmallBlindSeat() string {
	return h.seats[smallBlindIndex(len(h.seats), h.button)].ID
}

// BigBlindSeat returns the id of the big blind seat
func (h *Hand) BigBlindSeat() string {
	return h.seats[bigBlindIndex(len(h.seats), h.button)].ID
}

// Complete reports whether the hand reached a terminal state
func (h *Hand) Complete() bool { return h.complete }

// Outcome returns how the hand ended
func (h *Hand) Outcome() Outcome { return h.outcome }

// Winners returns the winning seat ids of a completed hand
func (h *Hand) Winners() []string { return h.winners }

// Payouts returns the chips awarded per seat for a completed hand
func (h *Hand) Payouts() map[string]int { return h.payouts }

// History returns the full ordered action history for the hand
func (h *Hand) History() []ActionRecord { return h.history }

// Betting exposes the current betting round state
func (h *Hand) Betting() *BettingRound { return h.betting }

// DrainEvents returns and clears the pending event queue
func (h *Hand) DrainEvents() []Event {
	events := h.events
	h.events = nil
	return events
}
