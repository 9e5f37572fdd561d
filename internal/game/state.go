package game

import "github.com/cardstream/holdem/poker"

// DefaultHistoryLimit bounds the action history included in snapshots
const DefaultHistoryLimit = 10

// HistoryEntry is one serialized action in a snapshot's bounded history
type HistoryEntry struct {
	Seat   string `json:"player_id"`
	Street string `json:"street"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// PublicState is a viewer-scoped snapshot of the hand. Other seats' hole
// cards never appear; the viewer's own cards do, and every hand still in at
// showdown is revealed to everyone. It is plain data, safe to serialize.
type PublicState struct {
	SessionID     string              `json:"session_id,omitempty"`
	Street        string              `json:"street"`
	Pot           int                 `json:"pot"`
	Board         []string            `json:"community_cards"`
	HoleCards     []string            `json:"player_hand,omitempty"`
	RevealedHands map[string][]string `json:"revealed_hands,omitempty"`
	FoldedSeats   []string            `json:"folded_players"`
	Stacks        map[string]int      `json:"stacks"`
	Bets          map[string]int      `json:"bets"`
	Button        string              `json:"button_player"`
	SmallBlind    string              `json:"small_blind_player"`
	BigBlindSeat  string              `json:"big_blind_player"`
	BigBlind      int                 `json:"big_blind"`
	CurrentSeat   string              `json:"current_player,omitempty"`
	LegalActions  []string            `json:"legal_actions"`
	ToCall        *int                `json:"to_call,omitempty"`
	MinRaiseTo    *int                `json:"min_raise_to,omitempty"`
	MaxRaiseTo    *int                `json:"max_raise_to,omitempty"`
	History       []HistoryEntry      `json:"history"`
	Complete      bool                `json:"hand_complete"`
	Winners       []string            `json:"winners,omitempty"`
}

// PublicState builds a snapshot of the hand as seen by viewerSeat. Legal
// actions and raise bounds are filled only when it is the viewer's turn.
func (h *Hand) PublicState(viewerSeat string) PublicState {
	ps := PublicState{
		Street:       h.street.String(),
		Pot:          h.Pot(),
		Board:        poker.CardStrings(h.board),
		FoldedSeats:  []string{},
		Stacks:       make(map[string]int, len(h.seats)),
		Bets:         make(map[string]int, len(h.seats)),
		Button:       h.Button(),
		SmallBlind:   h.SmallBlindSeat(),
		BigBlindSeat: h.BigBlindSeat(),
		BigBlind:     h.bigBlind,
		CurrentSeat:  h.Turn(),
		LegalActions: []string{},
		Complete:     h.complete,
		Winners:      h.winners,
	}

	for _, s := range h.seats {
		ps.Stacks[s.ID] = s.Chips
		ps.Bets[s.ID] = s.Bet
		if s.Folded {
			ps.FoldedSeats = append(ps.FoldedSeats, s.ID)
		}
		if s.ID == viewerSeat {
			ps.HoleCards = poker.CardStrings(s.HoleCards)
		}
	}

	if !h.complete && h.turn >= 0 && h.seats[h.turn].ID == viewerSeat {
		seat := h.seats[h.turn]
		for _, a := range h.betting.LegalActions(seat) {
			ps.LegalActions = append(ps.LegalActions, a.String())
		}
		toCall := h.betting.ToCall(seat)
		minTo := h.betting.MinRaiseTo()
		maxTo := h.betting.MaxRaiseTo(seat)
		ps.ToCall = &toCall
		ps.MinRaiseTo = &minTo
		ps.MaxRaiseTo = &maxTo
	}

	// Showdown reveals every hand still in.
	if h.complete && h.outcome == OutcomeShowdown {
		ps.RevealedHands = make(map[string][]string)
		for _, s := range h.seats {
			if !s.Folded {
				ps.RevealedHands[s.ID] = poker.CardStrings(s.HoleCards)
			}
		}
	}

	history := h.history
	if len(history) > DefaultHistoryLimit {
		history = history[len(history)-DefaultHistoryLimit:]
	}
	ps.History = make([]HistoryEntry, len(history))
	for i, rec := range history {
		ps.History[i] = HistoryEntry{
			Seat:   rec.Seat,
			Street: rec.Street.String(),
			Action: rec.Action.String(),
			Amount: rec.Amount,
		}
	}

	return ps
}
