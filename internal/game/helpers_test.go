package game

import (
	"testing"

	"github.com/cardstream/holdem/internal/randutil"
	"github.com/cardstream/holdem/poker"
)

// sumOracle ranks a hand by the sum of hole card ranks. It ignores the board
// entirely, which makes the winner computable from the dealt cards in tests.
type sumOracle struct{}

func (sumOracle) Rank(hole, board []poker.Card) (RankResult, error) {
	total := 0
	for _, c := range hole {
		total += int(c.Rank)
	}
	return RankResult{Rank: HandRank(total), Category: "High Card"}, nil
}

// tieOracle ranks every hand equally, forcing split pots
type tieOracle struct{}

func (tieOracle) Rank(hole, board []poker.Card) (RankResult, error) {
	return RankResult{Rank: 1, Category: "High Card"}, nil
}

func newTestHand(t *testing.T, seats int, button int, opts ...HandOption) *Hand {
	t.Helper()
	ids := []string{"p1", "p2", "p3", "p4", "p5"}[:seats]
	h, err := NewHand(randutil.New(42), sumOracle{}, ids, button, 5, 10, opts...)
	if err != nil {
		t.Fatalf("NewHand failed: %v", err)
	}
	return h
}

func mustApply(t *testing.T, h *Hand, seat string, action Action, amount int) {
	t.Helper()
	if err := h.ApplyAction(seat, action, amount); err != nil {
		t.Fatalf("%s %s %d failed: %v", seat, action, amount, err)
	}
}

func chipTotal(h *Hand) int {
	total := h.Pot()
	for _, s := range h.Seats() {
		total += s.Chips
	}
	return total
}

func wantValidation(t *testing.T, err error, code string) {
	t.Helper()
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError %s, got %v", code, err)
	}
	if verr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, verr.Code, verr.Message)
	}
}
