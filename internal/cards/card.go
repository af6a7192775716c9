// Package cards defines the deck-building card taxonomy: the canonical
// card entry, the four-way classifier, and duplicate consolidation.
package cards

// Kind identifies the role a card plays in mana development.
type Kind string

const (
	KindCommander Kind = "Commander"
	KindLand      Kind = "Land"
	KindRamp      Kind = "Ramp"
	KindSpell     Kind = "Spell"
)

// Colorless is the produced-mana symbol used when a source's colors are unknown.
const Colorless = "C"

// BasicLandNames maps a color symbol to the basic land that produces it.
var BasicLandNames = map[string]string{
	"W":       "Plains",
	"U":       "Island",
	"B":       "Swamp",
	"R":       "Mountain",
	"G":       "Forest",
	Colorless: "Wastes",
}

// basicLandColors maps lowercase basic land names to the single color they produce.
var basicLandColors = map[string]string{
	"plains":   "W",
	"island":   "U",
	"swamp":    "B",
	"mountain": "R",
	"forest":   "G",
}

// Entry is the canonical unit of deck composition. Generic is the numeric
// portion of the mana cost, Pips the ordered colored symbols, and Produces
// the colors a Land or Ramp entry can generate. Count is the number of
// physical copies the entry represents.
type Entry struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"type"`
	Generic  int      `json:"generic"`
	Pips     []string `json:"pips"`
	Produces []string `json:"produces,omitempty"`
	Count    int      `json:"count"`
}

// Clone returns a deep copy of the entry. Entries shared between a deck and
// its variants must always be cloned so that mutating one side never aliases
// the other.
func (e Entry) Clone() Entry {
	clone := e
	clone.Pips = append([]string{}, e.Pips...)
	if e.Produces != nil {
		clone.Produces = append([]string{}, e.Produces...)
	}
	return clone
}

// PipColors returns the distinct colors among the entry's pips, in order of
// first appearance.
func (e Entry) PipColors() []string {
	seen := make(map[string]bool, len(e.Pips))
	colors := []string{}
	for _, p := range e.Pips {
		if !seen[p] {
			seen[p] = true
			colors = append(colors, p)
		}
	}
	return colors
}

// ProducesColor reports whether the entry lists the color among its
// produced mana.
func (e Entry) ProducesColor(color string) bool {
	for _, c := range e.Produces {
		if c == color {
			return true
		}
	}
	return false
}
