package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/edhtools/manatuner/internal/analytics"
	"github.com/edhtools/manatuner/internal/cardlookup"
	"github.com/edhtools/manatuner/internal/cards"
	"github.com/edhtools/manatuner/internal/charts"
	"github.com/edhtools/manatuner/internal/config"
	"github.com/edhtools/manatuner/internal/deck"
	"github.com/edhtools/manatuner/internal/decklist"
	"github.com/edhtools/manatuner/internal/oracle"
	"github.com/edhtools/manatuner/internal/scryfall"
	"github.com/edhtools/manatuner/internal/storage"
	"github.com/edhtools/manatuner/internal/tuner"
	"github.com/edhtools/manatuner/internal/watch"
)

var (
	// Application mode flags
	debugMode  = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	configPath = flag.String("config", "", "Path to config file (default: ~/.manatuner/config.toml)")

	// Deck flags
	commanderName = flag.String("commander", "", "Commander card name (required)")
	xValue        = flag.Int("x", 0, "Value substituted for X in mana costs (overrides config)")

	// Simulation flags
	sims        = flag.Int("sims", 0, "Simulations per candidate (overrides config)")
	turns       = flag.Int("turns", 0, "Turns per simulation (overrides config)")
	concurrency = flag.Int("concurrency", 0, "Parallel simulator invocations (overrides config)")
	simBinary   = flag.String("sim-binary", "", "Path to the simulator binary (overrides config)")

	// Analysis mode flags
	testLands     = flag.Bool("test-lands", false, "Sweep land configurations and rank them")
	minLands      = flag.Int("min-lands", 0, "Land sweep lower bound (overrides config)")
	maxLands      = flag.Int("max-lands", 0, "Land sweep upper bound (overrides config)")
	testSwaps     = flag.Bool("test-swaps", false, "Rank maybeboard swaps against the baseline")
	showAnalytics = flag.Bool("analytics", false, "Print opening-hand and mulligan probabilities")
	renderCharts  = flag.Bool("charts", false, "Write HTML charts for results")
	openCharts    = flag.Bool("open", false, "Open rendered charts in the default browser")
	outputDir     = flag.String("out", "", "Output directory for charts (overrides config)")

	// Session flags
	watchMode  = flag.Bool("watch", false, "Re-run the analysis when the decklist changes")
	noCache    = flag.Bool("no-cache", false, "Disable the card cache for this run")
	clearCache = flag.Bool("clear-cache", false, "Clear the card cache and exit")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	setupLogging(cfg.App.DebugMode || *debugMode)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *clearCache {
		if err := runClearCache(ctx, cfg); err != nil {
			log.Fatalf("Error clearing cache: %v", err)
		}
		return
	}

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(2)
	}
	deckPath := flag.Arg(0)

	if *commanderName == "" {
		log.Fatal("Error: -commander is required")
	}

	session, err := newSession(cfg)
	if err != nil {
		log.Fatalf("Error initializing: %v", err)
	}
	defer session.Close()

	run := func(ctx context.Context) error {
		return session.analyze(ctx, deckPath)
	}

	if *watchMode {
		if err := run(ctx); err != nil {
			log.Printf("Warning: initial analysis failed: %v", err)
		}

		debounce, _ := cfg.GetDebounce()
		watcher := &watch.Watcher{
			Path:     deckPath,
			Debounce: debounce,
			OnChange: run,
		}
		if err := watcher.Run(ctx); err != nil && err != context.Canceled {
			log.Fatalf("Error watching decklist: %v", err)
		}
		return
	}

	if err := run(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if *sims > 0 {
		cfg.Analysis.Sims = *sims
	}
	if *turns > 0 {
		cfg.Analysis.Turns = *turns
	}
	if *concurrency > 0 {
		cfg.Analysis.Concurrency = *concurrency
	}
	if *xValue > 0 {
		cfg.Analysis.XValue = *xValue
	}
	if *minLands > 0 {
		cfg.Analysis.MinLands = *minLands
	}
	if *maxLands > 0 {
		cfg.Analysis.MaxLands = *maxLands
	}
	if *outputDir != "" {
		cfg.Analysis.OutputDir = *outputDir
	}
	if *simBinary != "" {
		cfg.Simulator.Binary = *simBinary
	}
	if *noCache {
		cfg.Cache.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// session bundles the collaborators a run needs: card lookup, deck
// building, and the external simulator.
type session struct {
	cfg     *config.Config
	db      *storage.DB
	builder *deck.Builder
	oracle  oracle.Oracle
}

func newSession(cfg *config.Config) (*session, error) {
	client := scryfall.NewClient(cfg.Scryfall.UserAgent)
	client.SetBaseURL(cfg.Scryfall.BaseURL)

	var db *storage.DB
	var cache cardlookup.Cache
	if cfg.Cache.Enabled {
		opened, err := openCacheDB(cfg)
		if err != nil {
			return nil, err
		}
		db = opened

		ttl, err := cfg.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		cache = storage.NewCardCache(db, ttl)
	}

	lookup := cardlookup.NewService(client, cache, cardlookup.ServiceOptions{})

	return &session{
		cfg:     cfg,
		db:      db,
		builder: deck.NewBuilder(lookup, nil),
		oracle: &oracle.Runner{
			Binary:    cfg.Simulator.Binary,
			ExtraArgs: cfg.Simulator.ExtraArgs,
		},
	}, nil
}

func (s *session) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Warning: closing cache database: %v", err)
		}
	}
}

// analyze runs one full pass: parse, build, then whichever analysis modes
// are enabled.
func (s *session) analyze(ctx context.Context, deckPath string) error {
	raw, err := os.ReadFile(deckPath)
	if err != nil {
		return fmt.Errorf("read decklist: %w", err)
	}

	list := decklist.Parse(string(raw))
	deckName := baseName(deckPath)

	d, err := s.builder.Build(ctx, deckName, list, deck.BuildOptions{
		Commander: *commanderName,
		XValue:    s.cfg.Analysis.XValue,
	})
	if err != nil {
		return fmt.Errorf("build deck: %w", err)
	}

	printDeckSummary(d)

	if *showAnalytics {
		s.printAnalytics(d)
	}

	opts := tuner.EvaluateOptions{
		Sims:        s.cfg.Analysis.Sims,
		Turns:       s.cfg.Analysis.Turns,
		Concurrency: s.cfg.Analysis.Concurrency,
	}

	if *testLands {
		if err := s.runLandSweep(ctx, d, opts); err != nil {
			return err
		}
	}

	if *testSwaps {
		if err := s.runSwapAnalysis(ctx, d, opts); err != nil {
			return err
		}
	}

	return nil
}

func (s *session) runLandSweep(ctx context.Context, d *deck.Deck, opts tuner.EvaluateOptions) error {
	variants := tuner.LandVariants(d, s.cfg.Analysis.MinLands, s.cfg.Analysis.MaxLands, s.cfg.Analysis.LandStep)
	fmt.Printf("\nTesting %d land configurations (%d sims each)...\n", len(variants), opts.Sims)

	scored := tuner.RankVariants(ctx, s.oracle, variants, opts)
	if len(scored) == 0 {
		return fmt.Errorf("no land configuration produced a result")
	}

	fmt.Println("\nTop land configurations:")
	fmt.Printf("%-4s %-24s %10s\n", "#", "Configuration", "Score")
	for i, sv := range scored {
		if i >= tuner.TopResults {
			break
		}
		fmt.Printf("%-4d %-24s %10.3f\n", i+1, sv.Variant.Name, sv.Score)
	}

	if *renderCharts {
		best := scored[0]
		path := filepath.Join(s.cfg.Analysis.OutputDir, "mana_stability.html")
		chartCfg := charts.DefaultChartConfig()
		chartCfg.Title = "Mana stability: " + best.Variant.Name
		if err := charts.RenderManaStability(best.Result, chartCfg, path); err != nil {
			return fmt.Errorf("render stability chart: %w", err)
		}
		fmt.Printf("\nChart written to %s\n", path)
		openChart(path)
	}

	return nil
}

func (s *session) runSwapAnalysis(ctx context.Context, d *deck.Deck, opts tuner.EvaluateOptions) error {
	candidates := tuner.Swaps(d)
	if len(candidates) == 0 {
		fmt.Println("\nNo swap candidates: the maybeboard is empty or nothing is replaceable.")
		return nil
	}

	fmt.Printf("\nEvaluating %d swap candidates (%d sims each)...\n", len(candidates), opts.Sims)

	baseline, err := s.oracle.Simulate(ctx, d, opts.Sims, opts.Turns)
	if err != nil {
		return fmt.Errorf("baseline simulation: %w", err)
	}

	scored := tuner.RankSwaps(ctx, s.oracle, d, baseline, candidates, opts)
	if len(scored) == 0 {
		fmt.Println("No swap improved on the baseline.")
		return nil
	}

	fmt.Println("\nRecommended swaps:")
	fmt.Printf("%-4s %-28s %-28s %12s\n", "#", "Cut", "Add", "Improvement")
	for i, sw := range scored {
		if i >= tuner.TopResults {
			break
		}
		fmt.Printf("%-4d %-28s %-28s %+12.3f\n", i+1, sw.OldName, sw.NewName, sw.Improvement)
	}

	return nil
}

func (s *session) printAnalytics(d *deck.Deck) {
	writeAnalyticsReport(os.Stdout, d)

	if *renderCharts {
		deckSize := d.NonCommanderCount()
		landCount := d.LandCount()
		chartCfg := charts.DefaultChartConfig()

		handPath := filepath.Join(s.cfg.Analysis.OutputDir, "opening_hand.html")
		chartCfg.Title = "Opening hand land distribution"
		handProbs := charts.OpeningHandPoints(deckSize, landCount, analytics.DefaultHandSize)
		if err := charts.RenderOpeningHandChart(handProbs, chartCfg, handPath); err != nil {
			log.Printf("Warning: render opening-hand chart: %v", err)
		} else {
			openChart(handPath)
		}

		mullPath := filepath.Join(s.cfg.Analysis.OutputDir, "mulligans.html")
		chartCfg.Title = "Mulligan stop distribution"
		distribution := analytics.MulliganDistribution(deckSize, landCount, analytics.DefaultTargetLands)
		if err := charts.RenderMulliganChart(distribution, chartCfg, mullPath); err != nil {
			log.Printf("Warning: render mulligan chart: %v", err)
		} else {
			openChart(mullPath)
		}

		freePath := filepath.Join(s.cfg.Analysis.OutputDir, "free_mulligan.html")
		chartCfg.Title = "Free mulligan: ideal land hands"
		free := analytics.FreeMulliganAnalysis(deckSize, landCount, analytics.DefaultKeepMinLands, analytics.DefaultKeepMaxLands)
		if err := charts.RenderFreeMulliganChart(free, chartCfg, freePath); err != nil {
			log.Printf("Warning: render free-mulligan chart: %v", err)
		} else {
			openChart(freePath)
		}
	}
}

// writeAnalyticsReport prints the closed-form probability report for a
// built deck.
func writeAnalyticsReport(w io.Writer, d *deck.Deck) {
	deckSize := d.NonCommanderCount()
	landCount := d.LandCount()

	fmt.Fprintf(w, "\nOpening hand (%d cards, %d lands):\n", deckSize, landCount)
	probs := analytics.OpeningHandLandProb(deckSize, landCount, analytics.DefaultHandSize)
	for lands := 0; lands <= analytics.DefaultHandSize; lands++ {
		fmt.Fprintf(w, "  %d lands: %6.2f%%\n", lands, probs[lands]*100)
	}

	fastMana := d.CountKind(cards.KindRamp)
	success := analytics.MulliganSuccess(deckSize, landCount, fastMana, analytics.DefaultMinSources, analytics.DefaultMaxLands)
	fmt.Fprintln(w, "\nKeepable hand odds by mulligan:")
	for _, key := range []string{"mull_to_7", "mull_to_6", "mull_to_5", "mull_to_4"} {
		fmt.Fprintf(w, "  %s: %6.2f%%\n", key, success[key]*100)
	}

	distribution := analytics.MulliganDistribution(deckSize, landCount, analytics.DefaultTargetLands)
	fmt.Fprintln(w, "\nWhere mulligans stop:")
	for _, key := range []string{"stop_7", "stop_6", "stop_5", "stop_4"} {
		fmt.Fprintf(w, "  %s: %6.2f%%\n", key, distribution[key]*100)
	}

	free := analytics.FreeMulliganAnalysis(deckSize, landCount, analytics.DefaultKeepMinLands, analytics.DefaultKeepMaxLands)
	fmt.Fprintf(w, "\nIdeal hands (%d-%d lands) with a free mulligan:\n",
		analytics.DefaultKeepMinLands, analytics.DefaultKeepMaxLands)
	for _, key := range []string{"no_mulligan", "with_free_mulligan"} {
		fmt.Fprintf(w, "  %s: %6.2f%%\n", key, free[key]*100)
	}
}

// openChart opens a rendered chart in the browser when -open is set.
func openChart(path string) {
	if !*openCharts {
		return
	}
	if err := charts.OpenInBrowser(path); err != nil {
		log.Printf("Warning: open chart %s: %v", path, err)
	}
}

func printDeckSummary(d *deck.Deck) {
	fmt.Printf("Deck: %s\n", d.Name)
	if c := d.Commander(); c != nil {
		fmt.Printf("Commander: %s (colors: %v)\n", c.Name, c.PipColors())
	}
	fmt.Printf("Cards: %d + commander | Lands: %d | Ramp: %d | Maybeboard: %d\n",
		d.NonCommanderCount(), d.LandCount(), d.CountKind(cards.KindRamp), len(d.Maybe))
}

func runClearCache(ctx context.Context, cfg *config.Config) error {
	db, err := openCacheDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cache := storage.NewCardCache(db, 0)
	n, err := cache.Count(ctx)
	if err != nil {
		return err
	}
	if err := cache.Clear(ctx); err != nil {
		return err
	}
	fmt.Printf("Cleared %d cached cards.\n", n)
	return nil
}

func openCacheDB(cfg *config.Config) (*storage.DB, error) {
	path := cfg.Cache.Path
	if path == "" {
		var err error
		path, err = config.DefaultCachePath()
		if err != nil {
			return nil, err
		}
	}
	return storage.Open(storage.DefaultConfig(path))
}

func baseName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: manatuner [flags] <decklist.txt>\n\n")
	fmt.Fprintf(os.Stderr, "Analyze the mana consistency of a Commander deck.\n\n")
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  manatuner -commander \"Atraxa, Praetors' Voice\" -analytics deck.txt\n")
	fmt.Fprintf(os.Stderr, "  manatuner -commander \"Teysa Karlov\" -test-lands -charts deck.txt\n")
	fmt.Fprintf(os.Stderr, "  manatuner -commander \"Teysa Karlov\" -test-swaps -watch deck.txt\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}
