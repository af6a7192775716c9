package deck

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edhtools/manatuner/internal/cards"
	"github.com/edhtools/manatuner/internal/decklist"
	"github.com/edhtools/manatuner/internal/scryfall"
)

// Resolver resolves a card name to its card record.
type Resolver interface {
	Lookup(ctx context.Context, name string) (*scryfall.Card, error)
}

// Builder assembles decks from parsed decklists.
type Builder struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewBuilder creates a deck builder over the given resolver.
func NewBuilder(resolver Resolver, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{resolver: resolver, logger: logger}
}

// BuildOptions controls deck assembly.
type BuildOptions struct {
	// Commander is the commander name filter passed to the classifier.
	Commander string

	// XValue resolves variable mana symbols at parse time.
	XValue int
}

// Build resolves, classifies, and consolidates every mainboard card into a
// deck, and carries the maybeboard through the same pipeline. Lookup
// failures are logged and skipped; they never abort the build.
func (b *Builder) Build(ctx context.Context, name string, list *decklist.List, opts BuildOptions) (*Deck, error) {
	if list == nil {
		return nil, fmt.Errorf("decklist is nil")
	}

	classifyOpts := cards.ClassifyOptions{Commander: opts.Commander, XValue: opts.XValue}

	main, err := b.resolveLines(ctx, list.Main, classifyOpts)
	if err != nil {
		return nil, err
	}

	maybe, err := b.resolveLines(ctx, list.Maybe, classifyOpts)
	if err != nil {
		return nil, err
	}

	return &Deck{
		Name:  name,
		Cards: cards.Consolidate(main),
		Maybe: maybe,
	}, nil
}

// resolveLines turns decklist lines into classified entries, skipping
// cards the data source cannot resolve.
func (b *Builder) resolveLines(ctx context.Context, lines []decklist.Line, opts cards.ClassifyOptions) ([]cards.Entry, error) {
	entries := make([]cards.Entry, 0, len(lines))
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := b.resolver.Lookup(ctx, line.Name)
		if err != nil {
			b.logger.Warn("skipping unresolvable card", "card", line.Name, "error", err)
			continue
		}

		entry := cards.Classify(recordFromCard(card), opts)
		entry.Count = line.Quantity
		entries = append(entries, entry)
	}
	return entries, nil
}

// recordFromCard adapts a data-source card to the classifier's input.
func recordFromCard(c *scryfall.Card) cards.Record {
	return cards.Record{
		Name:          c.Name,
		TypeLine:      c.TypeLine,
		OracleText:    c.OracleText,
		ManaCost:      c.ManaCost,
		ColorIdentity: c.ColorIdentity,
		ProducedMana:  c.ProducedMana,
	}
}
