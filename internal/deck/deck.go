// Package deck defines the deck model, its JSON interchange format, and
// the builder that assembles a deck from a decklist.
package deck

import (
	"encoding/json"
	"fmt"

	"github.com/edhtools/manatuner/internal/cards"
)

// TargetSize is the number of non-commander cards in a legal Commander deck.
const TargetSize = 99

// Deck is a named collection of card entries plus an auxiliary maybeboard
// of candidates not currently in the deck. The commander entry is carried
// in Cards alongside the 99 main slots.
type Deck struct {
	Name  string        `json:"name"`
	Cards []cards.Entry `json:"cards"`
	Maybe []cards.Entry `json:"maybe,omitempty"`
}

// Commander returns a pointer to the first commander entry, or nil.
func (d *Deck) Commander() *cards.Entry {
	for i := range d.Cards {
		if d.Cards[i].Kind == cards.KindCommander {
			return &d.Cards[i]
		}
	}
	return nil
}

// NonCommanderCount sums the counts of every non-commander entry. For a
// tournament-legal configuration this equals TargetSize.
func (d *Deck) NonCommanderCount() int {
	total := 0
	for _, e := range d.Cards {
		if e.Kind != cards.KindCommander {
			total += e.Count
		}
	}
	return total
}

// LandCount sums the counts of every land entry.
func (d *Deck) LandCount() int {
	total := 0
	for _, e := range d.Cards {
		if e.Kind == cards.KindLand {
			total += e.Count
		}
	}
	return total
}

// CountKind sums the counts of entries of the given kind.
func (d *Deck) CountKind(kind cards.Kind) int {
	total := 0
	for _, e := range d.Cards {
		if e.Kind == kind {
			total += e.Count
		}
	}
	return total
}

// Clone returns a deep copy of the deck. Variants derived from a deck are
// independently mutable, so every entry is cloned.
func (d *Deck) Clone() *Deck {
	clone := &Deck{
		Name:  d.Name,
		Cards: make([]cards.Entry, 0, len(d.Cards)),
		Maybe: make([]cards.Entry, 0, len(d.Maybe)),
	}
	for _, e := range d.Cards {
		clone.Cards = append(clone.Cards, e.Clone())
	}
	for _, e := range d.Maybe {
		clone.Maybe = append(clone.Maybe, e.Clone())
	}
	return clone
}

// WithReplacement returns a deep copy of the deck with the entry at the
// given main slot replaced. The source deck is never mutated.
func (d *Deck) WithReplacement(slot int, replacement cards.Entry) (*Deck, error) {
	if slot < 0 || slot >= len(d.Cards) {
		return nil, fmt.Errorf("slot %d out of range (deck has %d entries)", slot, len(d.Cards))
	}
	clone := d.Clone()
	clone.Cards[slot] = replacement.Clone()
	return clone, nil
}

// Encode serializes the deck into the interchange payload consumed by the
// outcome oracle.
func (d *Deck) Encode() ([]byte, error) {
	payload, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck %q: %w", d.Name, err)
	}
	return payload, nil
}

// Decode parses an interchange payload back into a deck.
func Decode(payload []byte) (*Deck, error) {
	var d Deck
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	return &d, nil
}
