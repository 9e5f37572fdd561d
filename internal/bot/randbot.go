package bot

import (
	rand "math/rand/v2"

	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/internal/randutil"
)

// RandBot picks uniformly from the legal actions. Raises go to a uniform
// raise-to between the minimum and the bot's all-in, so seeded games stay
// reproducible.
type RandBot struct {
	rng *rand.Rand
}

// NewRandBot creates a random bot with a deterministic seed
func NewRandBot(seed int64) *RandBot {
	return &RandBot{rng: randutil.New(seed)}
}

func (b *RandBot) Name() string { return "randbot" }

func (b *RandBot) Act(state game.PublicState) (game.Action, int) {
	var actions []game.Action
	for _, name := range state.LegalActions {
		if a, err := game.ParseAction(name); err == nil {
			actions = append(actions, a)
		}
	}
	if len(actions) == 0 {
		return game.Fold, 0
	}

	choice := actions[b.rng.IntN(len(actions))]
	if choice != game.Raise {
		return choice, 0
	}

	minTo, maxTo := 0, 0
	if state.MinRaiseTo != nil {
		minTo = *state.MinRaiseTo
	}
	if state.MaxRaiseTo != nil {
		maxTo = *state.MaxRaiseTo
	}
	if maxTo < minTo {
		// Short stack: the only raise is all-in.
		return game.Raise, maxTo
	}
	return game.Raise, minTo + b.rng.IntN(maxTo-minTo+1)
}
