package evaluator

import (
	"sort"

	"github.com/cardstream/holdem/poker"
)

// Category labels, weakest to strongest. These match the SHOWDOWN event and
// snapshot vocabulary.
const (
	CategoryHighCard      = "High Card"
	CategoryPair          = "Pair"
	CategoryTwoPair       = "Two Pair"
	CategoryThreeOfAKind  = "Three of a Kind"
	CategoryStraight      = "Straight"
	CategoryFlush         = "Flush"
	CategoryFullHouse     = "Full House"
	CategoryFourOfAKind   = "Four of a Kind"
	CategoryStraightFlush = "Straight Flush"
)

// categorize names the best five-card category available in 5-7 cards. The
// checks run strongest-first, so the first hit is the best hand's category.
func categorize(cards []poker.Card) string {
	rankCounts := make(map[poker.Rank]int)
	suitRanks := make(map[poker.Suit][]poker.Rank)
	for _, c := range cards {
		rankCounts[c.Rank]++
		suitRanks[c.Suit] = append(suitRanks[c.Suit], c.Rank)
	}

	var flushRanks []poker.Rank
	for _, ranks := range suitRanks {
		if len(ranks) >= 5 {
			flushRanks = ranks
			break
		}
	}

	if flushRanks != nil && hasStraight(flushRanks) {
		return CategoryStraightFlush
	}

	pairs, trips, quads := 0, 0, 0
	for _, n := range rankCounts {
		switch {
		case n >= 4:
			quads++
		case n == 3:
			trips++
		case n == 2:
			pairs++
		}
	}

	switch {
	case quads > 0:
		return CategoryFourOfAKind
	case trips > 0 && (pairs > 0 || trips > 1):
		return CategoryFullHouse
	case flushRanks != nil:
		return CategoryFlush
	}

	allRanks := make([]poker.Rank, 0, len(rankCounts))
	for r := range rankCounts {
		allRanks = append(allRanks, r)
	}
	if hasStraight(allRanks) {
		return CategoryStraight
	}

	switch {
	case trips > 0:
		return CategoryThreeOfAKind
	case pairs > 1:
		return CategoryTwoPair
	case pairs == 1:
		return CategoryPair
	default:
		return CategoryHighCard
	}
}

// hasStraight reports whether five consecutive ranks exist, counting the
// ace-low wheel (A-2-3-4-5)
func hasStraight(ranks []poker.Rank) bool {
	uniq := make(map[poker.Rank]bool, len(ranks))
	for _, r := range ranks {
		uniq[r] = true
	}
	sorted := make([]int, 0, len(uniq)+1)
	for r := range uniq {
		sorted = append(sorted, int(r))
	}
	if uniq[poker.Ace] {
		sorted = append(sorted, 1) // wheel
	}
	sort.Ints(sorted)

	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1]+1 {
			run++
			if run >= 5 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
