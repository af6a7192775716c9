package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/edhtools/manatuner/internal/cards"
	"github.com/edhtools/manatuner/internal/deck"
)

func TestWriteAnalyticsReport(t *testing.T) {
	d := &deck.Deck{
		Name: "report",
		Cards: []cards.Entry{
			{Name: "Teysa Karlov", Kind: cards.KindCommander, Generic: 2, Pips: []string{"W", "B"}, Count: 1},
			{Name: "Filler Spell", Kind: cards.KindSpell, Generic: 2, Pips: []string{"B"}, Count: 61},
			{Name: "Sol Ring", Kind: cards.KindRamp, Generic: 1, Pips: []string{}, Produces: []string{"C"}, Count: 1},
			{Name: "Swamp", Kind: cards.KindLand, Pips: []string{}, Produces: []string{"B"}, Count: 37},
		},
	}

	var buf bytes.Buffer
	writeAnalyticsReport(&buf, d)
	report := buf.String()

	if !strings.Contains(report, "Opening hand (99 cards, 37 lands):") {
		t.Errorf("report missing opening-hand header:\n%s", report)
	}

	sections := []string{
		"0 lands:", "7 lands:",
		"mull_to_7", "mull_to_4",
		"stop_7", "stop_4",
		"no_mulligan", "with_free_mulligan",
	}
	for _, want := range sections {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// With a free mulligan the ideal-hand odds can only improve.
	if strings.Index(report, "no_mulligan") > strings.Index(report, "with_free_mulligan") {
		t.Error("free-mulligan lines out of order")
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "decks/teysa.txt", want: "teysa"},
		{path: "teysa.txt", want: "teysa"},
		{path: "/abs/path/deck", want: "deck"},
	}

	for _, tt := range tests {
		if got := baseName(tt.path); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
