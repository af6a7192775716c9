package tuner

import (
	"context"
	"errors"
	"testing"

	"github.com/edhtools/manatuner/internal/cards"
	"github.com/edhtools/manatuner/internal/deck"
	"github.com/edhtools/manatuner/internal/oracle"
)

// fakeOracle returns canned results keyed by deck name; unknown names fail.
type fakeOracle struct {
	results map[string]*oracle.Result
}

func (f *fakeOracle) Simulate(_ context.Context, d *deck.Deck, _, _ int) (*oracle.Result, error) {
	r, ok := f.results[d.Name]
	if !ok {
		return nil, errors.New("simulation failed")
	}
	return r, nil
}

func TestWeightedScore_ExceedsBaselineOnCleanResult(t *testing.T) {
	r := &oracle.Result{
		OK:    []float64{1, 1},
		Screw: []float64{0, 0},
		Flood: []float64{0, 0},
	}

	weighted := WeightedScore(r)
	baseline := BaselineScore(r)
	if weighted <= baseline {
		t.Errorf("WeightedScore() = %v, BaselineScore() = %v; want weighted strictly greater", weighted, baseline)
	}
}

func TestWeightedScore(t *testing.T) {
	tests := []struct {
		name string
		r    *oracle.Result
		want float64
	}{
		{
			name: "turn weighting rewards later ok",
			r:    &oracle.Result{OK: []float64{1, 1}, Screw: []float64{0, 0}, Flood: []float64{0, 0}},
			want: 1.0 + 1.1,
		},
		{
			name: "screw penalties grow per turn",
			r:    &oracle.Result{OK: []float64{0, 0}, Screw: []float64{1, 1}, Flood: []float64{0, 0}},
			want: -(1.5 + 1.7),
		},
		{
			name: "flood is flat",
			r:    &oracle.Result{OK: []float64{0}, Screw: []float64{0}, Flood: []float64{1}},
			want: -0.8,
		},
		{
			name: "turn weight caps past the cutoff",
			r: &oracle.Result{
				OK:    []float64{0, 0, 0, 0, 0, 1, 1},
				Screw: make([]float64, 7),
				Flood: make([]float64, 7),
			},
			want: 1.5 + 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedScore(tt.r)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("WeightedScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBaselineScore(t *testing.T) {
	r := &oracle.Result{
		OK:    []float64{0.8, 0.7},
		Screw: []float64{0.1, 0.2},
		Flood: []float64{0.1, 0.1},
	}

	got := BaselineScore(r)
	want := 1.5 - 0.3 - 0.2
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("BaselineScore() = %v, want %v", got, want)
	}
}

func TestRankVariants(t *testing.T) {
	variants := []*deck.Deck{
		{Name: "mediocre"},
		{Name: "best"},
		{Name: "broken"},
		{Name: "worst"},
	}

	o := &fakeOracle{results: map[string]*oracle.Result{
		"mediocre": {OK: []float64{0.5}, Screw: []float64{0.3}, Flood: []float64{0.2}},
		"best":     {OK: []float64{0.9}, Screw: []float64{0.05}, Flood: []float64{0.05}},
		"worst":    {OK: []float64{0.1}, Screw: []float64{0.8}, Flood: []float64{0.1}},
	}}

	scored := RankVariants(context.Background(), o, variants, EvaluateOptions{Sims: 100, Turns: 1})

	// "broken" fails its simulation and drops out without sinking the batch.
	if len(scored) != 3 {
		t.Fatalf("got %d scored variants, want 3", len(scored))
	}

	wantOrder := []string{"best", "mediocre", "worst"}
	for i, want := range wantOrder {
		if scored[i].Variant.Name != want {
			t.Errorf("rank %d = %s, want %s", i, scored[i].Variant.Name, want)
		}
	}

	for i := 1; i < len(scored); i++ {
		if scored[i].Score > scored[i-1].Score {
			t.Errorf("scores not descending at index %d", i)
		}
	}
}

func TestRankVariants_ConcurrentMatchesSequential(t *testing.T) {
	variants := []*deck.Deck{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	o := &fakeOracle{results: map[string]*oracle.Result{
		"a": {OK: []float64{0.3}, Screw: []float64{0.1}, Flood: []float64{0.1}},
		"b": {OK: []float64{0.9}, Screw: []float64{0.1}, Flood: []float64{0.1}},
		"c": {OK: []float64{0.6}, Screw: []float64{0.1}, Flood: []float64{0.1}},
	}}

	seq := RankVariants(context.Background(), o, variants, EvaluateOptions{Concurrency: 1})
	par := RankVariants(context.Background(), o, variants, EvaluateOptions{Concurrency: 4})

	if len(seq) != len(par) {
		t.Fatalf("sequential ranked %d, concurrent ranked %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i].Variant.Name != par[i].Variant.Name {
			t.Errorf("rank %d: sequential %s, concurrent %s", i, seq[i].Variant.Name, par[i].Variant.Name)
		}
	}
}

func TestRankSwaps(t *testing.T) {
	d := &deck.Deck{
		Name: "base",
		Cards: []cards.Entry{
			{Name: "Commander", Kind: cards.KindCommander, Generic: 2, Pips: []string{"U"}, Count: 1},
			{Name: "Weak Spell", Kind: cards.KindSpell, Generic: 3, Pips: []string{"U"}, Count: 1},
			{Name: "Fine Spell", Kind: cards.KindSpell, Generic: 2, Pips: []string{"U"}, Count: 1},
		},
	}
	replacement := cards.Entry{Name: "Better Spell", Kind: cards.KindSpell, Generic: 2, Pips: []string{"U"}, Count: 1}

	candidates := []SwapCandidate{
		{SlotIndex: 1, Replacement: replacement},
		{SlotIndex: 2, Replacement: replacement},
	}

	baseline := &oracle.Result{OK: []float64{0.5}, Screw: []float64{0.3}, Flood: []float64{0.2}}

	// Swapping slot 1 improves the deck; swapping slot 2 makes it worse.
	o := &swapOracle{
		better: &oracle.Result{OK: []float64{0.8}, Screw: []float64{0.1}, Flood: []float64{0.1}},
		worse:  &oracle.Result{OK: []float64{0.2}, Screw: []float64{0.6}, Flood: []float64{0.2}},
	}

	scored := RankSwaps(context.Background(), o, d, baseline, candidates, EvaluateOptions{})

	if len(scored) != 1 {
		t.Fatalf("got %d scored swaps, want 1 (only strict improvements survive)", len(scored))
	}
	if scored[0].OldName != "Weak Spell" {
		t.Errorf("OldName = %s, want Weak Spell", scored[0].OldName)
	}
	if scored[0].NewName != "Better Spell" {
		t.Errorf("NewName = %s, want Better Spell", scored[0].NewName)
	}
	if scored[0].Improvement <= 0 {
		t.Errorf("Improvement = %v, want strictly positive", scored[0].Improvement)
	}
}

// swapOracle answers by which slot was replaced: decks still holding
// "Fine Spell" got the slot-1 swap, decks still holding "Weak Spell" got
// the slot-2 swap.
type swapOracle struct {
	better, worse *oracle.Result
}

func (s *swapOracle) Simulate(_ context.Context, d *deck.Deck, _, _ int) (*oracle.Result, error) {
	for _, e := range d.Cards {
		if e.Name == "Weak Spell" {
			return s.worse, nil
		}
	}
	return s.better, nil
}

func TestRankSwaps_InvalidSlotDropped(t *testing.T) {
	d := &deck.Deck{
		Name: "base",
		Cards: []cards.Entry{
			{Name: "Spell", Kind: cards.KindSpell, Generic: 1, Pips: []string{"U"}, Count: 1},
		},
	}
	baseline := &oracle.Result{OK: []float64{0.5}, Screw: []float64{0.3}, Flood: []float64{0.2}}

	candidates := []SwapCandidate{
		{SlotIndex: 42, Replacement: cards.Entry{Name: "Ghost", Kind: cards.KindSpell}},
	}

	o := &fakeOracle{results: map[string]*oracle.Result{}}
	if scored := RankSwaps(context.Background(), o, d, baseline, candidates, EvaluateOptions{}); len(scored) != 0 {
		t.Errorf("got %d scored swaps, want 0 for an out-of-range slot", len(scored))
	}
}

func TestRankSwaps_SourceDeckUntouched(t *testing.T) {
	d := &deck.Deck{
		Name: "base",
		Cards: []cards.Entry{
			{Name: "Original", Kind: cards.KindSpell, Generic: 1, Pips: []string{"U"}, Count: 1},
		},
	}
	baseline := &oracle.Result{OK: []float64{0.1}, Screw: []float64{0.1}, Flood: []float64{0.1}}
	candidates := []SwapCandidate{
		{SlotIndex: 0, Replacement: cards.Entry{Name: "Swapped", Kind: cards.KindSpell, Generic: 1, Pips: []string{"U"}, Count: 1}},
	}

	o := &swapOracle{
		better: &oracle.Result{OK: []float64{0.9}, Screw: []float64{0.0}, Flood: []float64{0.0}},
		worse:  &oracle.Result{OK: []float64{0.9}, Screw: []float64{0.0}, Flood: []float64{0.0}},
	}

	RankSwaps(context.Background(), o, d, baseline, candidates, EvaluateOptions{})

	if d.Cards[0].Name != "Original" {
		t.Errorf("source deck slot 0 = %s, want Original", d.Cards[0].Name)
	}
}
