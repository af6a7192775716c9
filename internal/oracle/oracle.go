// Package oracle invokes the external stochastic outcome oracle: a
// simulator process that consumes a serialized deck configuration and
// reports per-turn mana outcome probabilities.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/edhtools/manatuner/internal/deck"
)

// Result holds the oracle's per-turn outcome probabilities plus the
// auxiliary play statistics the simulator reports.
type Result struct {
	OK    []float64 `json:"ok"`
	Screw []float64 `json:"screw"`
	Flood []float64 `json:"flood"`

	AvgCardsCast     []float64 `json:"avg_cards_cast,omitempty"`
	AvgManaAvailable []float64 `json:"avg_mana_available,omitempty"`
	AvgManaSpent     []float64 `json:"avg_mana_spent,omitempty"`
	AvgHandSize      []float64 `json:"avg_hand_size,omitempty"`
}

// Turns returns the simulated turn horizon.
func (r *Result) Turns() int {
	return len(r.OK)
}

// Oracle evaluates a fully materialized deck configuration. Implementations
// must be safe for concurrent use: every invocation is a pure function of
// its arguments.
type Oracle interface {
	Simulate(ctx context.Context, d *deck.Deck, sims, turns int) (*Result, error)
}

// Runner invokes the simulator binary. The deck is written to a temporary
// JSON file, the binary is run with --deck/--sims/--turns/--output, and the
// output file is decoded into a Result. Both temp files are removed before
// returning.
type Runner struct {
	// Binary is the path to the simulator executable.
	Binary string

	// ExtraArgs are prepended to the generated flags, for wrappers such as
	// "cargo run --release --".
	ExtraArgs []string

	// Logger receives per-invocation diagnostics. Nil uses slog.Default.
	Logger *slog.Logger
}

// Simulate runs one oracle invocation. A non-zero exit status or an
// undecodable output file yields an error; callers are expected to drop the
// candidate rather than abort their batch.
func (r *Runner) Simulate(ctx context.Context, d *deck.Deck, sims, turns int) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	payload, err := d.Encode()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "manatuner-sim-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	deckPath := filepath.Join(dir, "deck.json")
	outPath := filepath.Join(dir, "out.json")
	if err := os.WriteFile(deckPath, payload, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write deck file: %w", err)
	}

	args := append(append([]string{}, r.ExtraArgs...),
		"--deck", deckPath,
		"--sims", fmt.Sprint(sims),
		"--turns", fmt.Sprint(turns),
		"--output", outPath,
	)

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Warn("oracle invocation failed", "deck", d.Name, "error", err, "output", string(out))
		return nil, fmt.Errorf("oracle failed for deck %q: %w", d.Name, err)
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle output: %w", err)
	}

	result, err := decodeResult(raw)
	if err != nil {
		return nil, fmt.Errorf("oracle output for deck %q: %w", d.Name, err)
	}
	return result, nil
}

// decodeResult parses and validates an oracle output payload.
func decodeResult(raw []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(result.OK) == 0 {
		return nil, fmt.Errorf("missing per-turn probabilities")
	}
	if len(result.Screw) != len(result.OK) || len(result.Flood) != len(result.OK) {
		return nil, fmt.Errorf("per-turn array lengths disagree: ok=%d screw=%d flood=%d",
			len(result.OK), len(result.Screw), len(result.Flood))
	}
	return &result, nil
}
