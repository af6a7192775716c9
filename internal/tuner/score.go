package tuner

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/edhtools/manatuner/internal/deck"
	"github.com/edhtools/manatuner/internal/oracle"
)

// TopResults is the default length of a ranked shortlist.
const TopResults = 10

// Turn weights for the land-variant score. Early turns matter more: a
// screw on turn two costs a game, a screw on turn twelve rarely does.
const (
	okBaseWeight     = 1.0
	okTurnWeight     = 0.1
	screwBaseWeight  = 1.5
	screwTurnWeight  = 0.2
	floodWeight      = 0.8
	turnWeightCutoff = 5
)

// WeightedScore scores an oracle result for land-variant ranking, scaling
// reward and screw penalties up on early turns.
func WeightedScore(r *oracle.Result) float64 {
	score := 0.0
	for t, ok := range r.OK {
		score += ok * (okBaseWeight + okTurnWeight*float64(minInt(t, turnWeightCutoff)))
	}
	for t, screw := range r.Screw {
		score -= screw * (screwBaseWeight + screwTurnWeight*float64(minInt(t, turnWeightCutoff)))
	}
	for _, flood := range r.Flood {
		score -= flood * floodWeight
	}
	return score
}

// BaselineScore is the unweighted score used for the baseline deck and for
// swap comparisons.
func BaselineScore(r *oracle.Result) float64 {
	score := 0.0
	for _, ok := range r.OK {
		score += ok
	}
	for _, screw := range r.Screw {
		score -= screw
	}
	for _, flood := range r.Flood {
		score -= flood
	}
	return score
}

// ScoredVariant pairs a land variant with its weighted score and raw
// oracle outcome.
type ScoredVariant struct {
	Score   float64
	Variant *deck.Deck
	Result  *oracle.Result
}

// ScoredSwap reports a swap whose modified deck scored strictly better
// than the baseline.
type ScoredSwap struct {
	Improvement float64
	OldName     string
	NewName     string
	Candidate   SwapCandidate
	Result      *oracle.Result
}

// EvaluateOptions controls batch evaluation against the oracle.
type EvaluateOptions struct {
	Sims        int
	Turns       int
	Concurrency int // max simultaneous oracle invocations; <= 1 is sequential
	Logger      *slog.Logger
}

func (o EvaluateOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o EvaluateOptions) concurrency() int {
	if o.Concurrency < 1 {
		return 1
	}
	return o.Concurrency
}

// RankVariants scores every variant against the oracle and returns them
// sorted by weighted score, best first. A failed invocation drops that
// variant only; the rest of the batch is unaffected. Ties keep input
// order.
func RankVariants(ctx context.Context, o oracle.Oracle, variants []*deck.Deck, opts EvaluateOptions) []ScoredVariant {
	results := evaluateAll(ctx, o, variants, opts)

	scored := make([]ScoredVariant, 0, len(variants))
	for i, r := range results {
		if r == nil {
			continue
		}
		scored = append(scored, ScoredVariant{
			Score:   WeightedScore(r),
			Variant: variants[i],
			Result:  r,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// RankSwaps evaluates each swap candidate against the oracle and returns
// the strictly positive improvements over the baseline score, best first.
// The source deck is never mutated. Ties keep input order.
func RankSwaps(ctx context.Context, o oracle.Oracle, d *deck.Deck, baseline *oracle.Result, candidates []SwapCandidate, opts EvaluateOptions) []ScoredSwap {
	logger := opts.logger()
	base := BaselineScore(baseline)

	modified := make([]*deck.Deck, 0, len(candidates))
	valid := make([]SwapCandidate, 0, len(candidates))
	for _, c := range candidates {
		m, err := d.WithReplacement(c.SlotIndex, c.Replacement)
		if err != nil {
			logger.Warn("dropping invalid swap candidate", "slot", c.SlotIndex, "error", err)
			continue
		}
		modified = append(modified, m)
		valid = append(valid, c)
	}

	results := evaluateAll(ctx, o, modified, opts)

	scored := make([]ScoredSwap, 0, len(valid))
	for i, r := range results {
		if r == nil {
			continue
		}
		improvement := BaselineScore(r) - base
		if improvement <= 0 {
			continue
		}
		scored = append(scored, ScoredSwap{
			Improvement: improvement,
			OldName:     d.Cards[valid[i].SlotIndex].Name,
			NewName:     valid[i].Replacement.Name,
			Candidate:   valid[i],
			Result:      r,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Improvement > scored[j].Improvement
	})
	return scored
}

// evaluateAll invokes the oracle once per deck with bounded concurrency.
// Results line up with the input; a failed candidate leaves a nil slot.
// Every invocation completes before ranking begins.
func evaluateAll(ctx context.Context, o oracle.Oracle, decks []*deck.Deck, opts EvaluateOptions) []*oracle.Result {
	logger := opts.logger()
	results := make([]*oracle.Result, len(decks))

	sem := make(chan struct{}, opts.concurrency())
	var wg sync.WaitGroup

	for i, d := range decks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, d *deck.Deck) {
			defer wg.Done()
			defer func() { <-sem }()

			r, err := o.Simulate(ctx, d, opts.Sims, opts.Turns)
			if err != nil {
				logger.Warn("dropping candidate after oracle failure", "deck", d.Name, "error", err)
				return
			}
			results[i] = r
		}(i, d)
	}

	wg.Wait()
	return results
}
