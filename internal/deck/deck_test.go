package deck

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/edhtools/manatuner/internal/cards"
	"github.com/edhtools/manatuner/internal/decklist"
	"github.com/edhtools/manatuner/internal/scryfall"
)

func sampleDeck() *Deck {
	return &Deck{
		Name: "test",
		Cards: []cards.Entry{
			{Name: "Atraxa", Kind: cards.KindCommander, Pips: []string{"G", "W", "U", "B"}, Count: 1},
			{Name: "Swamp", Kind: cards.KindLand, Pips: []string{}, Produces: []string{"B"}, Count: 50},
			{Name: "Plains", Kind: cards.KindLand, Pips: []string{}, Produces: []string{"W"}, Count: 48},
			{Name: "Sol Ring", Kind: cards.KindRamp, Generic: 1, Pips: []string{}, Produces: []string{"C"}, Count: 1},
		},
		Maybe: []cards.Entry{
			{Name: "Toxic Deluge", Kind: cards.KindSpell, Generic: 2, Pips: []string{"B"}, Count: 1},
		},
	}
}

func TestDeck_Commander(t *testing.T) {
	d := sampleDeck()
	cmd := d.Commander()
	if cmd == nil || cmd.Name != "Atraxa" {
		t.Fatalf("Commander() = %v, want Atraxa", cmd)
	}

	empty := &Deck{Name: "no commander"}
	if empty.Commander() != nil {
		t.Error("Commander() on a commanderless deck should be nil")
	}
}

func TestDeck_NonCommanderCount(t *testing.T) {
	d := sampleDeck()
	if got := d.NonCommanderCount(); got != 99 {
		t.Errorf("NonCommanderCount() = %d, want 99", got)
	}
}

func TestDeck_CloneIsDeep(t *testing.T) {
	d := sampleDeck()
	clone := d.Clone()

	clone.Cards[1].Count = 1
	clone.Cards[1].Produces[0] = "G"
	clone.Maybe[0].Name = "changed"

	if d.Cards[1].Count != 50 {
		t.Error("mutating a clone's count changed the source deck")
	}
	if d.Cards[1].Produces[0] != "B" {
		t.Error("mutating a clone's produces slice changed the source deck")
	}
	if d.Maybe[0].Name != "Toxic Deluge" {
		t.Error("mutating a clone's maybeboard changed the source deck")
	}
}

func TestDeck_WithReplacement(t *testing.T) {
	d := sampleDeck()
	replacement := d.Maybe[0]

	modified, err := d.WithReplacement(3, replacement)
	if err != nil {
		t.Fatalf("WithReplacement() error = %v", err)
	}

	if modified.Cards[3].Name != "Toxic Deluge" {
		t.Errorf("slot 3 = %q, want replacement", modified.Cards[3].Name)
	}
	if d.Cards[3].Name != "Sol Ring" {
		t.Error("WithReplacement mutated the source deck")
	}

	if _, err := d.WithReplacement(99, replacement); err == nil {
		t.Error("expected an error for an out-of-range slot")
	}
}

func TestDeck_EncodeRoundTrip(t *testing.T) {
	d := sampleDeck()
	payload, err := d.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Name != d.Name || len(decoded.Cards) != len(d.Cards) {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestDeck_EncodePayloadShape(t *testing.T) {
	d := sampleDeck()
	payload, err := d.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// The oracle consumes type-tagged entries.
	var raw struct {
		Name  string                   `json:"name"`
		Cards []map[string]interface{} `json:"cards"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if raw.Name != "test" {
		t.Errorf("name = %q", raw.Name)
	}
	if raw.Cards[0]["type"] != "Commander" {
		t.Errorf(`cards[0].type = %v, want "Commander"`, raw.Cards[0]["type"])
	}
	if _, ok := raw.Cards[1]["produces"]; !ok {
		t.Error("land entry is missing produces")
	}
	if _, ok := raw.Cards[0]["count"]; !ok {
		t.Error("entry is missing count")
	}
}

type stubResolver map[string]*scryfall.Card

func (s stubResolver) Lookup(_ context.Context, name string) (*scryfall.Card, error) {
	card, ok := s[name]
	if !ok {
		return nil, &scryfall.NotFoundError{Name: name}
	}
	return card, nil
}

func TestBuilder_Build(t *testing.T) {
	resolver := stubResolver{
		"Atraxa": {
			Name:     "Atraxa, Praetors' Voice",
			TypeLine: "Legendary Creature — Phyrexian Angel Horror",
			ManaCost: "{G}{W}{U}{B}",
		},
		"Swamp": {
			Name:     "Swamp",
			TypeLine: "Basic Land — Swamp",
		},
		"Sol Ring": {
			Name:       "Sol Ring",
			TypeLine:   "Artifact",
			OracleText: "{T}: Add {C}{C}.",
			ManaCost:   "{1}",
		},
	}

	input := strings.Join([]string{
		"1 Atraxa",
		"10 Swamp",
		"5 Swamp",
		"1 Sol Ring",
		"1 Missing Card",
		"",
		"Maybeboard",
		"1 Sol Ring",
	}, "\n")

	builder := NewBuilder(resolver, nil)
	d, err := builder.Build(context.Background(), "test", decklist.Parse(input), BuildOptions{
		Commander: "Atraxa",
		XValue:    3,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Missing Card is skipped; the two Swamp lines consolidate.
	if len(d.Cards) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(d.Cards), d.Cards)
	}

	cmd := d.Commander()
	if cmd == nil || cmd.Count != 1 {
		t.Fatalf("commander = %+v", cmd)
	}

	var swamp *cards.Entry
	for i := range d.Cards {
		if d.Cards[i].Name == "Swamp" {
			swamp = &d.Cards[i]
		}
	}
	if swamp == nil || swamp.Count != 15 {
		t.Errorf("swamp = %+v, want count 15", swamp)
	}

	if len(d.Maybe) != 1 || d.Maybe[0].Kind != cards.KindRamp {
		t.Errorf("maybe = %+v, want one ramp entry", d.Maybe)
	}
}

func TestBuilder_BuildHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	builder := NewBuilder(stubResolver{}, nil)
	_, err := builder.Build(ctx, "x", decklist.Parse("1 Sol Ring"), BuildOptions{})
	if err == nil {
		t.Fatal("expected a context error")
	}
}
