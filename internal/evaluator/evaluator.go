// Package evaluator provides the default hand rank oracle, backed by the
// paulhankin/poker lookup evaluator. Scores are ordinal: higher is stronger,
// equal scores tie exactly.
package evaluator

import (
	"fmt"

	ph "github.com/paulhankin/poker"

	"github.com/cardstream/holdem/internal/game"
	"github.com/cardstream/holdem/poker"
)

// Evaluator implements game.Oracle
type Evaluator struct{}

var _ game.Oracle = (*Evaluator)(nil)

// New returns the default oracle
func New() *Evaluator {
	return &Evaluator{}
}

// Rank evaluates the best five-card hand from the seat's two hole cards plus
// the board (5-7 cards total).
func (e *Evaluator) Rank(hole, board []poker.Card) (game.RankResult, error) {
	cards := make([]poker.Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	if len(cards) < 5 || len(cards) > 7 {
		return game.RankResult{}, fmt.Errorf("evaluate needs 5-7 cards, got %d", len(cards))
	}

	pcs := make([]ph.Card, len(cards))
	for i, c := range cards {
		pc, err := toLibCard(c)
		if err != nil {
			return game.RankResult{}, err
		}
		pcs[i] = pc
	}

	var score int16
	switch len(pcs) {
	case 7:
		var a [7]ph.Card
		copy(a[:], pcs)
		score = ph.Eval7(&a)
	case 5:
		var a [5]ph.Card
		copy(a[:], pcs)
		score = ph.Eval5(&a)
	default: // 6 cards: best of the five-card subsets
		score = bestFiveOfSix(pcs)
	}

	return game.RankResult{
		Rank:     game.HandRank(score),
		Category: categorize(cards),
	}, nil
}

// Describe returns the library's human-readable description of the best hand
func (e *Evaluator) Describe(cards []poker.Card) (string, error) {
	pcs := make([]ph.Card, len(cards))
	for i, c := range cards {
		pc, err := toLibCard(c)
		if err != nil {
			return "", err
		}
		pcs[i] = pc
	}
	return ph.Describe(pcs)
}

func bestFiveOfSix(pcs []ph.Card) int16 {
	var five [5]ph.Card
	best := int16(-32768)
	for skip := 0; skip < len(pcs); skip++ {
		k := 0
		for i, c := range pcs {
			if i == skip {
				continue
			}
			five[k] = c
			k++
		}
		if score := ph.Eval5(&five); score > best {
			best = score
		}
	}
	return best
}

// toLibCard converts our 2..14 ace-high ranks to the library's 1..13 ace-low
func toLibCard(c poker.Card) (ph.Card, error) {
	var suit ph.Suit
	switch c.Suit {
	case poker.Spades:
		suit = ph.Spade
	case poker.Hearts:
		suit = ph.Heart
	case poker.Diamonds:
		suit = ph.Diamond
	case poker.Clubs:
		suit = ph.Club
	default:
		return 0, fmt.Errorf("invalid suit %d", c.Suit)
	}

	rank := ph.Rank(c.Rank)
	if c.Rank == poker.Ace {
		rank = ph.Rank(1)
	}

	card, err := ph.MakeCard(suit, rank)
	if err != nil {
		return 0, fmt.Errorf("invalid card %s: %w", c, err)
	}
	return card, nil
}
