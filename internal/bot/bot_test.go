package bot

import (
	"testing"

	"github.com/cardstream/holdem/internal/evaluator"
	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/internal/randutil"
)

func newHand(t *testing.T, seed int64) *game.Hand {
	t.Helper()
	h, err := game.NewHand(randutil.New(seed), evaluator.New(), []string{"p1", "p2", "p3"}, 0, 5, 10)
	if err != nil {
		t.Fatalf("NewHand failed: %v", err)
	}
	return h
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	t.Parallel()
	if _, err := New("gto", 1); err == nil {
		t.Error("unknown strategy should fail")
	}
	for _, s := range []string{"call", "fold", "random"} {
		if _, err := New(s, 1); err != nil {
			t.Errorf("strategy %q failed: %v", s, err)
		}
	}
}

func TestCallBotFacingBet(t *testing.T) {
	t.Parallel()
	h := newHand(t, 1)

	action, amount := (&CallBot{}).Act(h.PublicState(h.Turn()))
	if action != game.Call || amount != 0 {
		t.Errorf("callbot chose %v %d, want call 0", action, amount)
	}
}

func TestFoldBotChecksWhenFree(t *testing.T) {
	t.Parallel()
	h := newHand(t, 1)

	// Limp to the big blind, whose option is a free check.
	if err := h.ApplyAction("p1", game.Call, 0); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyAction("p2", game.Call, 0); err != nil {
		t.Fatal(err)
	}

	action, _ := (&FoldBot{}).Act(h.PublicState("p3"))
	if action != game.Check {
		t.Errorf("foldbot chose %v with no bet to face, want check", action)
	}
}

func TestFoldBotFoldsFacingBet(t *testing.T) {
	t.Parallel()
	h := newHand(t, 1)

	action, _ := (&FoldBot{}).Act(h.PublicState(h.Turn()))
	if action != game.Fold {
		t.Errorf("foldbot chose %v facing the blind, want fold", action)
	}
}

func TestRandBotPlaysLegalMovesToCompletion(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 30; seed++ {
		h := newHand(t, seed)
		agent := NewRandBot(seed)

		for steps := 0; !h.Complete(); steps++ {
			if steps > 500 {
				t.Fatalf("seed %d: hand did not terminate", seed)
			}
			turn := h.Turn()
			action, amount := agent.Act(h.PublicState(turn))
			if err := h.ApplyAction(turn, action, amount); err != nil {
				t.Fatalf("seed %d: randbot proposed illegal %v %d: %v", seed, action, amount, err)
			}
		}
	}
}

func TestRandBotDeterministicWithSeed(t *testing.T) {
	t.Parallel()
	state := newHand(t, 5).PublicState("p1")

	a1, n1 := NewRandBot(99).Act(state)
	a2, n2 := NewRandBot(99).Act(state)
	if a1 != a2 || n1 != n2 {
		t.Errorf("same seed diverged: %v %d vs %v %d", a1, n1, a2, n2)
	}
}
