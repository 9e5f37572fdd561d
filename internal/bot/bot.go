// Package bot contains simple baseline policies used to drive non-human
// seats. Bots decide from the same viewer-scoped snapshot a remote client
// sees; they never touch engine internals.
package bot

import (
	"fmt"

	"github.com/cardstream/holdem/internal/game"
)

// Agent selects an action from a public snapshot. The snapshot is always for
// the agent's own seat while it is on turn, so the legal action set and raise
// bounds are populated.
type Agent interface {
	Name() string
	Act(state game.PublicState) (game.Action, int)
}

// New builds an agent by strategy name
func New(strategy string, seed int64) (Agent, error) {
	switch strategy {
	case "call":
		return &CallBot{}, nil
	case "fold":
		return &FoldBot{}, nil
	case "random":
		return NewRandBot(seed), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy %q", strategy)
	}
}

func legalSet(state game.PublicState) map[game.Action]bool {
	set := make(map[game.Action]bool, len(state.LegalActions))
	for _, name := range state.LegalActions {
		if a, err := game.ParseAction(name); err == nil {
			set[a] = true
		}
	}
	return set
}

// CallBot checks when free and calls any bet; the calling station baseline
type CallBot struct{}

func (b *CallBot) Name() string { return "callbot" }

func (b *CallBot) Act(state game.PublicState) (game.Action, int) {
	legal := legalSet(state)
	if legal[game.Check] {
		return game.Check, 0
	}
	if legal[game.Call] {
		return game.Call, 0
	}
	return game.Fold, 0
}

// FoldBot checks when free and folds to any bet
type FoldBot struct{}

func (b *FoldBot) Name() string { return "foldbot" }

func (b *FoldBot) Act(state game.PublicState) (game.Action, int) {
	if legalSet(state)[game.Check] {
		return game.Check, 0
	}
	return game.Fold, 0
}
