package game

import "github.com/cardstream/holdem/poker"

// HandRank is an ordinal hand strength. Higher is stronger; equal ranks tie.
type HandRank int

// RankResult pairs the ordinal rank with a human-readable category label
// such as "Pair" or "Full House".
type RankResult struct {
	Rank     HandRank
	Category string
}

// Oracle ranks the best five-card hand out of 5-7 cards. The engine only
// consults it at showdown; any conforming evaluator is substitutable.
type Oracle interface {
	Rank(hole, board []poker.Card) (RankResult, error)
}
