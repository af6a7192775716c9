package tuner

import (
	"sort"

	"github.com/edhtools/manatuner/internal/cards"
	"github.com/edhtools/manatuner/internal/deck"
)

// swapCandidatesPerCard is how many similar main-deck slots each
// maybeboard card is tested against.
const swapCandidatesPerCard = 3

// SwapCandidate proposes replacing the main-deck entry at SlotIndex with a
// maybeboard card. It is a read-only view: applying it always clones the
// source deck.
type SwapCandidate struct {
	SlotIndex   int
	Replacement cards.Entry
}

// SimScore is the hand-crafted distance between two cards: 0 for identical
// roles, growing with kind mismatch, total-cost distance, and color
// disagreement. Lower means more similar.
func SimScore(a, b cards.Entry) int {
	score := 0
	if a.Kind != b.Kind {
		score += 10
	}

	costA := a.Generic + len(a.Pips)
	costB := b.Generic + len(b.Pips)
	score += 2 * absInt(costA-costB)

	score += symmetricDiffSize(a.Pips, b.Pips)
	return score
}

// Swaps proposes, for each maybeboard card, the three most similar
// replaceable main-deck slots. Commander and land slots are never
// replaceable. An empty maybeboard yields no candidates.
func Swaps(d *deck.Deck) []SwapCandidate {
	if len(d.Maybe) == 0 {
		return nil
	}

	var candidates []SwapCandidate
	for _, m := range d.Maybe {
		type scoredSlot struct {
			score int
			index int
		}

		var slots []scoredSlot
		for i, c := range d.Cards {
			if c.Kind == cards.KindCommander || c.Kind == cards.KindLand {
				continue
			}
			slots = append(slots, scoredSlot{score: SimScore(m, c), index: i})
		}

		sort.Slice(slots, func(i, j int) bool {
			if slots[i].score != slots[j].score {
				return slots[i].score < slots[j].score
			}
			return slots[i].index < slots[j].index
		})

		for i := 0; i < len(slots) && i < swapCandidatesPerCard; i++ {
			candidates = append(candidates, SwapCandidate{
				SlotIndex:   slots[i].index,
				Replacement: m.Clone(),
			})
		}
	}
	return candidates
}

// symmetricDiffSize counts the colors present in exactly one of the two
// pip lists.
func symmetricDiffSize(a, b []string) int {
	setA := toSet(a)
	setB := toSet(b)

	size := 0
	for c := range setA {
		if !setB[c] {
			size++
		}
	}
	for c := range setB {
		if !setA[c] {
			size++
		}
	}
	return size
}

func toSet(symbols []string) map[string]bool {
	set := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		set[s] = true
	}
	return set
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
