package game

import (
	"fmt"

	"github.com/cardstream/holdem/internal/randutil"
)

// TableConfig holds the stakes for a table
type TableConfig struct {
	SmallBlind int
	BigBlind   int
	StartChips int
}

// Table carries seats and stacks from hand to hand. Each hand is a fresh
// Hand value; the table filters out broke seats, rotates the button to the
// next funded seat and copies stacks back when a hand completes.
type Table struct {
	cfg     TableConfig
	oracle  Oracle
	seatIDs []string
	stacks  map[string]int
	button  int // index into seatIDs
	hand    *Hand
	handNum int
	events  []Event
	ended   bool
}

// NewTable creates a table with every seat at the configured starting stack
func NewTable(oracle Oracle, seatIDs []string, cfg TableConfig) (*Table, error) {
	if len(seatIDs) < 2 || len(seatIDs) > 5 {
		return nil, setupErrorf("need 2-5 seats, got %d", len(seatIDs))
	}
	if cfg.StartChips <= 0 {
		cfg.StartChips = DefaultStartChips
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind < cfg.SmallBlind {
		return nil, setupErrorf("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}

	stacks := make(map[string]int, len(seatIDs))
	for _, id := range seatIDs {
		stacks[id] = cfg.StartChips
	}

	return &Table{
		cfg:     cfg,
		oracle:  oracle,
		seatIDs: seatIDs,
		stacks:  stacks,
	}, nil
}

// FundedSeats returns the seats that can be dealt in, in table order
func (t *Table) FundedSeats() []string {
	var funded []string
	for _, id := range t.seatIDs {
		if t.stacks[id] > 0 {
			funded = append(funded, id)
		}
	}
	return funded
}

// StartHand deals a new hand seeded by seed. The button rotates to the next
// funded seat after the first hand. If fewer than two seats remain funded the
// table ends instead and a TABLE_END event is queued.
func (t *Table) StartHand(seed int64) error {
	if t.ended {
		return setupErrorf("table has ended")
	}
	if t.hand != nil && !t.hand.Complete() {
		return setupErrorf("a hand is already in progress")
	}

	funded := t.FundedSeats()
	if len(funded) < 2 {
		t.ended = true
		t.events = append(t.events, TableEndEvent{Winners: funded})
		return nil
	}

	if t.handNum > 0 {
		t.button = (t.button + 1) % len(t.seatIDs)
	}
	// Snap the button to a funded seat.
	for t.stacks[t.seatIDs[t.button]] <= 0 {
		t.button = (t.button + 1) % len(t.seatIDs)
	}

	chips := make([]int, len(funded))
	button := 0
	for i, id := range funded {
		chips[i] = t.stacks[id]
		if id == t.seatIDs[t.button] {
			button = i
		}
	}

	hand, err := NewHand(randutil.New(seed), t.oracle, funded, button, t.cfg.SmallBlind, t.cfg.BigBlind, WithChips(chips))
	if err != nil {
		return fmt.Errorf("starting hand %d: %w", t.handNum+1, err)
	}
	t.hand = hand
	t.handNum++
	t.events = append(t.events, NewHandEvent{
		HandNum:    t.handNum,
		Seats:      funded,
		Button:     t.seatIDs[t.button],
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
	})

	// Blinds can run the whole board out before anyone acts.
	if hand.Complete() {
		t.syncStacks()
	}
	return nil
}

// Apply forwards one action to the current hand and harvests stacks when the
// hand completes.
func (t *Table) Apply(seatID string, action Action, amount int) error {
	if t.hand == nil {
		return validationErrorf(CodeHandComplete, "no hand in progress")
	}
	err := t.hand.ApplyAction(seatID, action, amount)
	if t.hand.Complete() {
		t.syncStacks()
	}
	return err
}

func (t *Table) syncStacks() {
	for _, s := range t.hand.Seats() {
		t.stacks[s.ID] = s.Chips
	}
}

// Hand returns the current hand, or nil before the first deal
func (t *Table) Hand() *Hand { return t.hand }

// Stacks returns the table's view of each seat's chips
func (t *Table) Stacks() map[string]int { return t.stacks }

// SeatIDs returns the fixed seating order
func (t *Table) SeatIDs() []string { return t.seatIDs }

// HandNum returns the number of hands started
func (t *Table) HandNum() int { return t.handNum }

// Ended reports whether the table is over (fewer than two funded seats)
func (t *Table) Ended() bool { return t.ended }

// DrainEvents returns and clears pending table and hand events in order
func (t *Table) DrainEvents() []Event {
	events := t.events
	t.events = nil
	if t.hand != nil {
		events = append(events, t.hand.DrainEvents()...)
	}
	return events
}
