// Package cardlookup resolves card names to card records, backed by the
// local cache with the Scryfall client as fallback.
package cardlookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/edhtools/manatuner/internal/scryfall"
)

// Fetcher retrieves a card record from the remote data source.
type Fetcher interface {
	NamedCard(ctx context.Context, name string) (*scryfall.Card, error)
}

// Cache is a key-value store for raw card payloads. The lifecycle of the
// underlying store is owned by the caller, not by this service.
type Cache interface {
	Get(ctx context.Context, name string) ([]byte, bool, error)
	Put(ctx context.Context, name string, payload []byte) error
}

// Service provides unified card lookup with caching.
type Service struct {
	fetcher Fetcher
	cache   Cache
	logger  *slog.Logger
}

// ServiceOptions configures the card lookup service.
type ServiceOptions struct {
	Logger *slog.Logger
}

// NewService creates a new card lookup service. The cache may be nil, in
// which case every lookup goes to the fetcher.
func NewService(fetcher Fetcher, cache Cache, options ServiceOptions) *Service {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
}

// Lookup resolves a card by name, cache first. Cached payloads that fail to
// decode are treated as misses and refetched.
func (s *Service) Lookup(ctx context.Context, name string) (*scryfall.Card, error) {
	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, name)
		if err != nil {
			s.logger.Warn("card cache read failed", "card", name, "error", err)
		} else if ok {
			var card scryfall.Card
			if err := json.Unmarshal(payload, &card); err == nil {
				return &card, nil
			}
			s.logger.Warn("discarding undecodable cache entry", "card", name)
		}
	}

	start := time.Now()
	card, err := s.fetcher.NamedCard(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}
	s.logger.Debug("fetched card", "card", card.Name, "elapsed", time.Since(start))

	if s.cache != nil {
		payload, err := json.Marshal(card)
		if err == nil {
			// Cache write failures are non-fatal; we already have the card.
			if err := s.cache.Put(ctx, name, payload); err != nil {
				s.logger.Warn("card cache write failed", "card", name, "error", err)
			}
		}
	}

	return card, nil
}
