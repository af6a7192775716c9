// Package tuner generates and ranks alternative deck configurations:
// land count/color variants and single-card swaps.
package tuner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edhtools/manatuner/internal/cards"
	"github.com/edhtools/manatuner/internal/deck"
)

// Default land-count sweep for Commander decks.
const (
	DefaultMinLands = 35
	DefaultMaxLands = 41
	DefaultStep     = 1
)

// LandVariants enumerates alternate deck configurations for each land count
// in [minLands, maxLands] stepping by step. Non-land content is preserved;
// lands are rebuilt with the count split as evenly as possible across the
// commander's colors. Every entry placed into a variant is a deep copy, so
// variants never alias the source deck or each other.
//
// Each variant's non-commander total is corrected toward exactly 99 cards.
// When the correction would need to remove more lands than exist, the
// variant is emitted short rather than rebalanced some other way.
func LandVariants(d *deck.Deck, minLands, maxLands, step int) []*deck.Deck {
	if step <= 0 {
		step = DefaultStep
	}

	var colors []string
	commander := d.Commander()
	if commander != nil {
		colors = commander.PipColors()
	}

	var existingRamp, existingLands, nonLands []cards.Entry
	for _, e := range d.Cards {
		switch e.Kind {
		case cards.KindRamp:
			existingRamp = append(existingRamp, e)
		case cards.KindLand:
			existingLands = append(existingLands, e)
		case cards.KindCommander:
		default:
			nonLands = append(nonLands, e)
		}
	}

	var variants []*deck.Deck
	seen := make(map[string]bool)

	for landCount := minLands; landCount <= maxLands; landCount += step {
		distribution := splitEvenly(landCount, len(colors))

		key := configKey(landCount, distribution)
		if seen[key] {
			continue
		}
		seen[key] = true

		variant := &deck.Deck{
			Name:  variantName(landCount, distribution),
			Cards: []cards.Entry{},
			Maybe: cloneAll(d.Maybe),
		}

		if commander != nil {
			variant.Cards = append(variant.Cards, commander.Clone())
		}
		variant.Cards = append(variant.Cards, cloneAll(nonLands)...)
		variant.Cards = append(variant.Cards, cloneAll(existingRamp)...)

		for i, n := range distribution {
			color := cards.Colorless
			if i < len(colors) {
				color = colors[i]
			}
			variant.Cards = append(variant.Cards, landFor(existingLands, color, n))
		}

		correctTotal(variant)
		variants = append(variants, variant)
	}

	return variants
}

// splitEvenly distributes landCount across buckets as evenly as possible,
// giving the remainder to the leading buckets. Zero buckets means a
// colorless commander: everything lands in one bucket.
func splitEvenly(landCount, buckets int) []int {
	if buckets == 0 {
		return []int{landCount}
	}
	base := landCount / buckets
	remainder := landCount % buckets

	distribution := make([]int, buckets)
	for i := range distribution {
		distribution[i] = base
		if i < remainder {
			distribution[i]++
		}
	}
	return distribution
}

// landFor reuses the first existing land able to produce the color, or
// synthesizes the matching basic land. Distinct colors never share an
// entry.
func landFor(existing []cards.Entry, color string, count int) cards.Entry {
	for _, land := range existing {
		if land.ProducesColor(color) {
			clone := land.Clone()
			clone.Count = count
			return clone
		}
	}

	name, ok := cards.BasicLandNames[color]
	if !ok {
		name = cards.BasicLandNames[cards.Colorless]
	}
	return cards.Entry{
		Name:     name,
		Kind:     cards.KindLand,
		Pips:     []string{},
		Produces: []string{color},
		Count:    count,
	}
}

// correctTotal adjusts the variant's non-commander total toward exactly 99
// cards: a shortfall is filled with colorless basics, an excess is absorbed
// by walking the entries in reverse and shrinking lands.
func correctTotal(variant *deck.Deck) {
	diff := deck.TargetSize - variant.NonCommanderCount()

	switch {
	case diff > 0:
		variant.Cards = append(variant.Cards, cards.Entry{
			Name:     cards.BasicLandNames[cards.Colorless],
			Kind:     cards.KindLand,
			Pips:     []string{},
			Produces: []string{cards.Colorless},
			Count:    diff,
		})

	case diff < 0:
		for i := len(variant.Cards) - 1; i >= 0 && diff < 0; i-- {
			if variant.Cards[i].Kind != cards.KindLand {
				continue
			}
			reduction := minInt(variant.Cards[i].Count, -diff)
			variant.Cards[i].Count -= reduction
			diff += reduction
		}

		kept := variant.Cards[:0]
		for _, e := range variant.Cards {
			if e.Count > 0 {
				kept = append(kept, e)
			}
		}
		variant.Cards = kept
	}
}

func cloneAll(entries []cards.Entry) []cards.Entry {
	clones := make([]cards.Entry, 0, len(entries))
	for _, e := range entries {
		clones = append(clones, e.Clone())
	}
	return clones
}

func configKey(landCount int, distribution []int) string {
	parts := make([]string, 0, len(distribution)+1)
	parts = append(parts, strconv.Itoa(landCount))
	for _, n := range distribution {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ":")
}

func variantName(landCount int, distribution []int) string {
	parts := make([]string, 0, len(distribution))
	for _, n := range distribution {
		parts = append(parts, strconv.Itoa(n))
	}
	return fmt.Sprintf("lands_%d_%s", landCount, strings.Join(parts, "_"))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
