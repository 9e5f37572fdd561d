package evaluator

import (
	"testing"

	"github.com/cardstream/holdem/poker"
)

func cards(t *testing.T, codes ...string) []poker.Card {
	t.Helper()
	parsed, err := poker.ParseCards(codes...)
	if err != nil {
		t.Fatalf("bad test cards %v: %v", codes, err)
	}
	return parsed
}

func rank(t *testing.T, hole, board []poker.Card) int {
	t.Helper()
	rr, err := New().Rank(hole, board)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	return int(rr.Rank)
}

func TestStrongerHandRanksHigher(t *testing.T) {
	t.Parallel()
	board := cards(t, "2h", "7d", "9c", "Js", "3h")

	aces := rank(t, cards(t, "As", "Ad"), board)
	kings := rank(t, cards(t, "Ks", "Kd"), board)
	junk := rank(t, cards(t, "4s", "6d"), board)

	if aces <= kings {
		t.Errorf("aces (%d) should beat kings (%d)", aces, kings)
	}
	if kings <= junk {
		t.Errorf("kings (%d) should beat unpaired junk (%d)", kings, junk)
	}
}

func TestIdenticalStrengthTies(t *testing.T) {
	t.Parallel()
	// Both seats play the board with equal-rank kickers in different suits.
	board := cards(t, "2h", "7d", "9c", "Js", "Qh")

	a := rank(t, cards(t, "As", "Kd"), board)
	b := rank(t, cards(t, "Ad", "Ks"), board)
	if a != b {
		t.Errorf("suit-mirrored hands should tie: %d vs %d", a, b)
	}
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()
	board := cards(t, "5h", "6h", "7h", "Kd", "2c")

	straightFlush := rank(t, cards(t, "8h", "9h"), board)
	straight := rank(t, cards(t, "8c", "9d"), board)
	flush := rank(t, cards(t, "Ah", "2h"), board)

	if straightFlush <= flush {
		t.Errorf("straight flush (%d) should beat flush (%d)", straightFlush, flush)
	}
	if flush <= straight {
		t.Errorf("flush (%d) should beat straight (%d)", flush, straight)
	}
}

func TestRankPartialBoard(t *testing.T) {
	t.Parallel()
	hole := cards(t, "As", "Ad")

	// Flop only (5 cards) and turn (6 cards) must evaluate too; the board
	// runs out early when everyone is all-in preflop.
	flop := rank(t, hole, cards(t, "2h", "7d", "9c"))
	turn := rank(t, hole, cards(t, "2h", "7d", "9c", "Js"))
	if flop <= 0 || turn <= 0 {
		t.Errorf("partial board evaluation failed: flop=%d turn=%d", flop, turn)
	}

	junkTurn := rank(t, cards(t, "3s", "4d"), cards(t, "2h", "7d", "9c", "Js"))
	if turn <= junkTurn {
		t.Errorf("aces (%d) should beat junk (%d) on a turn board", turn, junkTurn)
	}
}

func TestRankRejectsBadCardCounts(t *testing.T) {
	t.Parallel()
	if _, err := New().Rank(cards(t, "As", "Ad"), nil); err == nil {
		t.Error("2 cards should be rejected")
	}
	if _, err := New().Rank(cards(t, "As", "Ad"), cards(t, "2h", "3h", "4h", "5h", "6h", "7h")); err == nil {
		t.Error("8 cards should be rejected")
	}
}

func TestCategorize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		cards []string
		want  string
	}{
		{"high card", []string{"As", "Kd", "9c", "7h", "2s", "3d", "Jh"}, CategoryHighCard},
		{"pair", []string{"As", "Ad", "9c", "7h", "2s", "3d", "Jh"}, CategoryPair},
		{"two pair", []string{"As", "Ad", "9c", "9h", "2s", "3d", "Jh"}, CategoryTwoPair},
		{"trips", []string{"As", "Ad", "Ac", "7h", "2s", "3d", "Jh"}, CategoryThreeOfAKind},
		{"straight", []string{"5s", "6d", "7c", "8h", "9s", "Kd", "2h"}, CategoryStraight},
		{"wheel", []string{"As", "2d", "3c", "4h", "5s", "Kd", "9h"}, CategoryStraight},
		{"flush", []string{"2h", "5h", "9h", "Jh", "Kh", "3d", "7c"}, CategoryFlush},
		{"full house", []string{"As", "Ad", "Ac", "9h", "9s", "3d", "Jh"}, CategoryFullHouse},
		{"double trips is a full house", []string{"As", "Ad", "Ac", "9h", "9s", "9d", "Jh"}, CategoryFullHouse},
		{"quads", []string{"As", "Ad", "Ac", "Ah", "2s", "3d", "Jh"}, CategoryFourOfAKind},
		{"straight flush", []string{"5h", "6h", "7h", "8h", "9h", "Kd", "2c"}, CategoryStraightFlush},
		{"steel wheel", []string{"Ah", "2h", "3h", "4h", "5h", "Kd", "9c"}, CategoryStraightFlush},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := categorize(cards(t, tc.cards...)); got != tc.want {
				t.Errorf("categorize = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCategoryMatchesRankOrdering(t *testing.T) {
	t.Parallel()
	board := cards(t, "2h", "7d", "9c", "Js", "3h")

	rr, err := New().Rank(cards(t, "As", "Ad"), board)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if rr.Category != CategoryPair {
		t.Errorf("category = %q, want %q", rr.Category, CategoryPair)
	}
}
