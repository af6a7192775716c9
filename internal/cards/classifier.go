package cards

import (
	"strings"

	"github.com/edhtools/manatuner/internal/mana"
)

// Record is the raw card data the classifier consumes. It mirrors the
// fields returned by the card data source.
type Record struct {
	Name          string
	TypeLine      string
	OracleText    string
	ManaCost      string
	ColorIdentity []string
	ProducedMana  []string
}

// ClassifyOptions controls classification.
type ClassifyOptions struct {
	// Commander, when non-empty, is matched as a case-insensitive substring
	// against card names; a match classifies the card as the commander.
	Commander string

	// XValue resolves the variable mana symbol at parse time.
	XValue int
}

// rule pairs a predicate with the constructor that builds the entry when the
// predicate fires. Rules are evaluated in order and the first match wins;
// the order is the classification contract.
type rule struct {
	name  string
	match func(r Record, lowerType, lowerText string, o ClassifyOptions) bool
	build func(r Record, o ClassifyOptions) Entry
}

var rules = []rule{
	{
		name: "commander",
		match: func(r Record, _, _ string, o ClassifyOptions) bool {
			return o.Commander != "" &&
				strings.Contains(strings.ToLower(r.Name), strings.ToLower(o.Commander))
		},
		build: func(r Record, o ClassifyOptions) Entry {
			generic, pips := mana.ParseCost(r.ManaCost, o.XValue)
			return Entry{Name: r.Name, Kind: KindCommander, Generic: generic, Pips: pips}
		},
	},
	{
		name: "basic-land",
		match: func(r Record, lowerType, _ string, _ ClassifyOptions) bool {
			return strings.Contains(lowerType, "basic land") && basicLandColor(r.Name) != ""
		},
		build: func(r Record, _ ClassifyOptions) Entry {
			return Entry{
				Name:     r.Name,
				Kind:     KindLand,
				Pips:     []string{},
				Produces: []string{basicLandColor(r.Name)},
			}
		},
	},
	{
		name: "land",
		match: func(_ Record, lowerType, _ string, _ ClassifyOptions) bool {
			return strings.Contains(lowerType, "land")
		},
		build: func(r Record, _ ClassifyOptions) Entry {
			return Entry{
				Name:     r.Name,
				Kind:     KindLand,
				Pips:     []string{},
				Produces: producedColors(r),
			}
		},
	},
	{
		name: "mana-artifact",
		match: func(_ Record, lowerType, lowerText string, _ ClassifyOptions) bool {
			return strings.Contains(lowerType, "artifact") &&
				strings.Contains(lowerText, "add") &&
				strings.Contains(lowerText, "mana")
		},
		build: func(r Record, o ClassifyOptions) Entry {
			generic, pips := mana.ParseCost(r.ManaCost, o.XValue)
			return Entry{
				Name:     r.Name,
				Kind:     KindRamp,
				Generic:  generic,
				Pips:     pips,
				Produces: producedColors(r),
			}
		},
	},
	{
		name: "spell",
		match: func(_ Record, _, _ string, _ ClassifyOptions) bool {
			return true
		},
		build: func(r Record, o ClassifyOptions) Entry {
			generic, pips := mana.ParseCost(r.ManaCost, o.XValue)
			return Entry{Name: r.Name, Kind: KindSpell, Generic: generic, Pips: pips}
		},
	},
}

// Classify assigns exactly one Kind to the record. Every record reaches a
// terminal classification because the final rule matches unconditionally.
func Classify(r Record, o ClassifyOptions) Entry {
	lowerType := strings.ToLower(r.TypeLine)
	lowerText := strings.ToLower(r.OracleText)

	for _, rule := range rules {
		if rule.match(r, lowerType, lowerText, o) {
			return rule.build(r, o)
		}
	}

	// Unreachable: the spell rule always matches.
	return Entry{Name: r.Name, Kind: KindSpell, Pips: []string{}}
}

// basicLandColor returns the color produced by a basic land name, matching
// the five basic land names as substrings ("Snow-Covered Island" counts).
// Returns "" when the name matches none of them.
func basicLandColor(name string) string {
	lower := strings.ToLower(name)
	for basic, color := range basicLandColors {
		if strings.Contains(lower, basic) {
			return color
		}
	}
	return ""
}

// producedColors resolves a mana source's colors: declared produced mana
// first, then color identity, then colorless.
func producedColors(r Record) []string {
	if len(r.ProducedMana) > 0 {
		return append([]string{}, r.ProducedMana...)
	}
	if len(r.ColorIdentity) > 0 {
		return append([]string{}, r.ColorIdentity...)
	}
	return []string{Colorless}
}
