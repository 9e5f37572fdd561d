package game

import (
	"errors"
	"slices"
	"testing"

	"github.com/cardstream/holdem/internal/randutil"
)

func TestHandCreation(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 3, 0)

	if len(h.Seats()) != 3 {
		t.Fatalf("expected 3 seats, got %d", len(h.Seats()))
	}
	for _, s := range h.Seats() {
		if len(s.HoleCards) != 2 {
			t.Errorf("seat %s has %d hole cards, want 2", s.ID, len(s.HoleCards))
		}
	}
	if h.Street() != Preflop {
		t.Errorf("street = %s, want preflop", h.Street())
	}
	if chipTotal(h) != 3000 {
		t.Errorf("chip total = %d, want 3000", chipTotal(h))
	}
}

func TestHandCreationValidation(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1)
	oracle := sumOracle{}

	cases := []struct {
		name   string
		seats  []string
		button int
		sb, bb int
	}{
		{"one seat", []string{"p1"}, 0, 5, 10},
		{"six seats", []string{"a", "b", "c", "d", "e", "f"}, 0, 5, 10},
		{"button out of range", []string{"p1", "p2"}, 2, 5, 10},
		{"zero small blind", []string{"p1", "p2"}, 0, 0, 10},
		{"big blind below small", []string{"p1", "p2"}, 0, 10, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHand(rng, oracle, tc.seats, tc.button, tc.sb, tc.bb)
			var serr *SetupError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SetupError, got %v", err)
			}
		})
	}
}

func TestHandRequiresOracle(t *testing.T) {
	t.Parallel()
	_, err := NewHand(randutil.New(1), nil, []string{"p1", "p2"}, 0, 5, 10)
	var serr *SetupError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SetupError, got %v", err)
	}
}

func TestSameSeedSameDeal(t *testing.T) {
	t.Parallel()
	a := newTestHand(t, 3, 0)
	b := newTestHand(t, 3, 0)

	for i := range a.Seats() {
		for j := range a.Seats()[i].HoleCards {
			if a.Seats()[i].HoleCards[j] != b.Seats()[i].HoleCards[j] {
				t.Fatalf("seat %d card %d differs between identical seeds", i, j)
			}
		}
	}
}

func TestOutOfTurnRejected(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 3, 0)

	err := h.ApplyAction("p2", Fold, 0)
	wantValidation(t, err, CodeOutOfTurn)
}

func TestUnknownSeatRejected(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 3, 0)

	err := h.ApplyAction("p9", Fold, 0)
	wantValidation(t, err, CodeUnknownSeat)
}

func TestActionAfterHandCompleteRejected(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 2, 0)

	mustApply(t, h, "p1", Fold, 0)
	if !h.Complete() {
		t.Fatal("hand should be complete after the fold")
	}

	err := h.ApplyAction("p2", Check, 0)
	wantValidation(t, err, CodeHandComplete)
	if h.Turn() != "" {
		t.Errorf("completed hand still has a turn: %s", h.Turn())
	}
}

func TestHeadsUpPreflopFold(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 2, 0)

	// Button folds its small blind; big blind collects both blinds.
	mustApply(t, h, "p1", Fold, 0)

	if h.Outcome() != OutcomeFoldWin {
		t.Fatalf("outcome = %v, want fold win", h.Outcome())
	}
	if h.Seat("p1").Chips != 995 {
		t.Errorf("p1 chips = %d, want 995", h.Seat("p1").Chips)
	}
	if h.Seat("p2").Chips != 1005 {
		t.Errorf("p2 chips = %d, want 1005", h.Seat("p2").Chips)
	}
	if h.Pot() != 0 {
		t.Errorf("pot = %d after payout, want 0", h.Pot())
	}
	if chipTotal(h) != 2000 {
		t.Errorf("chip total = %d, want 2000", chipTotal(h))
	}
}

func TestHeadsUpFlopBetFold(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 2, 0)

	mustApply(t, h, "p1", Call, 0)
	mustApply(t, h, "p2", Check, 0)
	if h.Street() != Flop {
		t.Fatalf("street = %s, want flop", h.Street())
	}

	// Big blind leads the flop for 20, button folds.
	if h.Turn() != "p2" {
		t.Fatalf("flop turn = %s, want p2", h.Turn())
	}
	mustApply(t, h, "p2", Raise, 20)
	mustApply(t, h, "p1", Fold, 0)

	if h.Seat("p2").Chips != 1010 {
		t.Errorf("p2 chips = %d, want 1010", h.Seat("p2").Chips)
	}
	if h.Seat("p1").Chips != 990 {
		t.Errorf("p1 chips = %d, want 990", h.Seat("p1").Chips)
	}
	if chipTotal(h) != 2000 {
		t.Errorf("chip total = %d, want 2000", chipTotal(h))
	}
}

func TestFoldWinRevealsNothing(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 3, 0)

	mustApply(t, h, "p1", Fold, 0)
	mustApply(t, h, "p2", Fold, 0)

	if h.Outcome() != OutcomeFoldWin {
		t.Fatalf("outcome = %v, want fold win", h.Outcome())
	}
	if got := h.Winners(); len(got) != 1 || got[0] != "p3" {
		t.Fatalf("winners = %v, want [p3]", got)
	}

	for _, ev := range h.DrainEvents() {
		end, ok := ev.(HandEndEvent)
		if !ok {
			continue
		}
		if !end.FoldWin {
			t.Error("hand end should be marked as a fold win")
		}
		if end.Category != "" {
			t.Errorf("fold win leaked a hand category %q", end.Category)
		}
	}
}

func TestScriptedHandToShowdown(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 3, 0)

	mustApply(t, h, "p1", Call, 0)
	mustApply(t, h, "p2", Call, 0)
	mustApply(t, h, "p3", Check, 0)

	for _, street := range []Street{Flop, Turn, River} {
		if h.Street() != street {
			t.Fatalf("street = %s, want %s", h.Street(), street)
		}
		mustApply(t, h, "p2", Check, 0)
		mustApply(t, h, "p3", Check, 0)
		mustApply(t, h, "p1", Check, 0)
	}

	if !h.Complete() || h.Outcome() != OutcomeShowdown {
		t.Fatalf("expected showdown completion, got outcome %v", h.Outcome())
	}
	if len(h.Board()) != 5 {
		t.Errorf("board has %d cards, want 5", len(h.Board()))
	}

	// The sum oracle makes the winners computable from the dealt cards.
	best := 0
	for _, s := range h.Seats() {
		if total := int(s.HoleCards[0].Rank) + int(s.HoleCards[1].Rank); total > best {
			best = total
		}
	}
	var want []string
	for _, s := range h.Seats() {
		if int(s.HoleCards[0].Rank)+int(s.HoleCards[1].Rank) == best {
			want = append(want, s.ID)
		}
	}
	if got := h.Winners(); !slices.Equal(got, want) {
		t.Errorf("winners = %v, want %v", got, want)
	}

	paid := 0
	for _, amt := range h.Payouts() {
		paid += amt
	}
	if paid != 30 {
		t.Errorf("payouts total %d, want 30", paid)
	}
	if chipTotal(h) != 3000 {
		t.Errorf("chip total = %d, want 3000", chipTotal(h))
	}
}

func TestHistoryRecordsStreetTotals(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, 3, 0)

	mustApply(t, h, "p1", Raise, 30)
	mustApply(t, h, "p2", Call, 0)

	hist := h.History()
	if len(hist) != 2 {
		t.Fatalf("history has %d entries, want 2", len(hist))
	}
	if hist[0].Action != Raise || hist[0].Amount != 30 {
		t.Errorf("first entry = %v %d, want raise 30", hist[0].Action, hist[0].Amount)
	}
	// Call amounts record the street-bet total, not the increment.
	if hist[1].Action != Call || hist[1].Amount != 30 {
		t.Errorf("second entry = %v %d, want call 30", hist[1].Action, hist[1].Amount)
	}
}

func TestConservationAcrossRandomSeeds(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 20; seed++ {
		h, err := NewHand(randutil.New(seed), sumOracle{}, []string{"p1", "p2", "p3", "p4"}, int(seed)%4, 5, 10)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		// Call every bet until showdown.
		for !h.Complete() {
			turn := h.Turn()
			actions := h.LegalActions(turn)
			var act Action
			switch {
			case legalContains(actions, Check):
				act = Check
			case legalContains(actions, Call):
				act = Call
			default:
				act = Fold
			}
			if err := h.ApplyAction(turn, act, 0); err != nil {
				t.Fatalf("seed %d: %s %s: %v", seed, turn, act, err)
			}
		}
		if chipTotal(h) != 4000 {
			t.Errorf("seed %d: chip total = %d, want 4000", seed, chipTotal(h))
		}
	}
}
