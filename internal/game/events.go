package game

import "github.com/cardstream/holdem/poker"

// EventType identifies a game event on the wire
type EventType string

const (
	EventDealHole  EventType = "DEAL_HOLE"
	EventDealFlop  EventType = "DEAL_FLOP"
	EventDealTurn  EventType = "DEAL_TURN"
	EventDealRiver EventType = "DEAL_RIVER"
	EventShowdown  EventType = "SHOWDOWN"
	EventHandEnd   EventType = "HAND_END"
	EventNewHand   EventType = "NEW_HAND"
	EventTableEnd  EventType = "TABLE_END"
)

// Event is a typed record of one orchestrator transition. Events accumulate
// on the hand and are drained by the transport layer after each mutation.
type Event interface {
	EventType() EventType
}

// DealEvent is emitted when cards are dealt. For the hole-card deal Cards is
// empty: hole cards are private and only appear in per-viewer snapshots.
type DealEvent struct {
	Street Street
	Cards  []poker.Card
}

func (e DealEvent) EventType() EventType {
	switch e.Street {
	case Flop:
		return EventDealFlop
	case Turn:
		return EventDealTurn
	case River:
		return EventDealRiver
	default:
		return EventDealHole
	}
}

// ShowdownResult is one seat's revealed hand at showdown
type ShowdownResult struct {
	Seat     string
	Hole     []poker.Card
	Rank     HandRank
	Category string
}

// ShowdownEvent is emitted when remaining seats reveal and are ranked
type ShowdownEvent struct {
	Results []ShowdownResult
}

func (e ShowdownEvent) EventType() EventType { return EventShowdown }

// HandEndEvent carries the payout breakdown for a completed hand. Category is
// empty for fold wins: no cards are revealed.
type HandEndEvent struct {
	Winners  []string
	Payouts  map[string]int
	Pot      int
	Category string
	FoldWin  bool
}

func (e HandEndEvent) EventType() EventType { return EventHandEnd }

// NewHandEvent is emitted by the table layer when a fresh hand starts
type NewHandEvent struct {
	HandNum    int
	Seats      []string
	Button     string
	SmallBlind int
	BigBlind   int
}

func (e NewHandEvent) EventType() EventType { return EventNewHand }

// TableEndEvent is emitted when fewer than two seats remain funded
type TableEndEvent struct {
	Winners []string
}

func (e TableEndEvent) EventType() EventType { return EventTableEnd }
