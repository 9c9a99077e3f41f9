// Command deckforge analyzes card-game decks: competitive scoring,
// improvement suggestions, matchup analysis, meta-game snapshots, and
// tournament simulation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arcanum-labs/deckforge/internal/archetype"
	"github.com/arcanum-labs/deckforge/internal/charts"
	"github.com/arcanum-labs/deckforge/internal/config"
	"github.com/arcanum-labs/deckforge/internal/deck"
	"github.com/arcanum-labs/deckforge/internal/display"
	"github.com/arcanum-labs/deckforge/internal/engine"
	"github.com/arcanum-labs/deckforge/internal/meta"
	"github.com/arcanum-labs/deckforge/internal/practice"
	"github.com/arcanum-labs/deckforge/internal/storage"
	"github.com/arcanum-labs/deckforge/internal/tournament"
	"github.com/arcanum-labs/deckforge/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(os.Args[2:])
	case "matchup":
		runMatchup(os.Args[2:])
	case "simulate":
		runSimulate(os.Args[2:])
	case "meta":
		runMeta(os.Args[2:])
	case "practice":
		runPractice(os.Args[2:])
	case "stats":
		runStats(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version":
		fmt.Printf("deckforge %s\n", version.GetVersion())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("deckforge - deck analytics and competitive simulation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  deckforge <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze   Analyze a deck: scores, curve, suggestions")
	fmt.Println("  matchup   Estimate winrates and gameplans against archetypes")
	fmt.Println("  simulate  Run a single-elimination tournament simulation")
	fmt.Println("  meta      Show the current meta-game snapshot")
	fmt.Println("  practice  Record a practice match against an archetype")
	fmt.Println("  stats     Show practice match record for a deck")
	fmt.Println("  watch     Re-analyze a deck file whenever it changes")
	fmt.Println("  version   Print the deckforge version")
	fmt.Println()
	fmt.Println("Run 'deckforge <command> -h' for command flags.")
}

// loadConfig loads the user configuration, falling back to defaults when
// the config file is missing or unreadable.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newEngine builds the engine service from configuration.
func newEngine(cfg *config.Config) *engine.Service {
	engineConfig := engine.DefaultConfig()
	engineConfig.BestOf = cfg.Simulator.BestOf
	engineConfig.Simulator.BestOf = cfg.Simulator.BestOf
	engineConfig.Simulator.OnPlayBonus = cfg.Simulator.OnPlayBonus

	if ttl, err := cfg.GetCacheTTL(); err == nil {
		engineConfig.MetaTTL = ttl
	}

	if cfg.Meta.SourceURL != "" {
		sourceConfig := meta.DefaultHTTPSourceConfig(cfg.Meta.SourceURL)
		if cfg.Meta.RateLimitMs > 0 {
			sourceConfig.RateLimitDelay = time.Duration(cfg.Meta.RateLimitMs) * time.Millisecond
		}
		engineConfig.MetaSource = meta.NewHTTPSource(sourceConfig)
	}

	return engine.NewService(engineConfig)
}

// openDB opens the configured database, or returns nil when persistence
// is disabled.
func openDB(cfg *config.Config) *storage.DB {
	if !cfg.Storage.Enabled {
		return nil
	}

	path := cfg.Storage.Path
	if envPath := os.Getenv("DECKFORGE_DB"); envPath != "" {
		path = envPath
	}
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			slog.Warn("failed to resolve home directory, persistence disabled", "error", err)
			return nil
		}
		path = filepath.Join(homeDir, ".deckforge", "deckforge.db")
	}

	db, err := storage.Open(storage.DefaultConfig(path))
	if err != nil {
		slog.Warn("failed to open database, persistence disabled", "error", err, "path", path)
		return nil
	}
	return db
}

func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to deck JSON file (required)")
	asJSON := fs.Bool("json", false, "Print the analysis as JSON")
	exportCharts := fs.Bool("charts", false, "Export HTML charts for the deck")
	_ = fs.Parse(args)

	if *deckPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	d, err := deck.LoadFile(*deckPath)
	if err != nil {
		log.Fatalf("Failed to load deck: %v", err)
	}

	cfg := loadConfig()
	result := newEngine(cfg).AnalyzeDeck(d)

	if *asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode analysis: %v", err)
		}
		fmt.Println(string(data))
	} else {
		display.NewReporter(os.Stdout).DeckReport(d.Name, result)
	}

	if *exportCharts {
		if err := exportDeckCharts(cfg, d.Name, result); err != nil {
			log.Fatalf("Failed to export charts: %v", err)
		}
	}
}

func exportDeckCharts(cfg *config.Config, deckName string, result *engine.DeckAnalytics) error {
	outputDir := cfg.Charts.OutputDir
	if outputDir == "" {
		outputDir = "charts"
	}

	chartConfig := charts.DefaultChartConfig()
	chartConfig.Theme = cfg.Charts.Theme
	chartConfig.Subtitle = deckName

	chartConfig.Title = "Cost Curve"
	curvePath := filepath.Join(outputDir, "cost_curve.html")
	if err := charts.RenderCostCurve(result.CostDistribution, chartConfig, curvePath); err != nil {
		return err
	}

	chartConfig.Title = "Card Types"
	typesPath := filepath.Join(outputDir, "card_types.html")
	if err := charts.RenderDistributionPie(result.TypeDistribution, chartConfig, typesPath); err != nil {
		return err
	}

	chartConfig.Title = "Factions"
	factionsPath := filepath.Join(outputDir, "factions.html")
	if err := charts.RenderDistributionPie(result.FactionDistribution, chartConfig, factionsPath); err != nil {
		return err
	}

	fmt.Printf("Exported charts to %s\n", outputDir)
	return nil
}

func runMatchup(args []string) {
	fs := flag.NewFlagSet("matchup", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to deck JSON file (required)")
	versus := fs.String("vs", "", "Comma-separated opponent archetypes (default: all known)")
	_ = fs.Parse(args)

	if *deckPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	d, err := deck.LoadFile(*deckPath)
	if err != nil {
		log.Fatalf("Failed to load deck: %v", err)
	}

	var opponents []string
	if *versus != "" {
		for _, name := range strings.Split(*versus, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				opponents = append(opponents, trimmed)
			}
		}
	} else {
		for _, profile := range archetype.Profiles() {
			opponents = append(opponents, profile.Name)
		}
	}

	svc := newEngine(loadConfig())
	analyses, err := svc.AnalyzeMatchups(context.Background(), d, opponents)
	if err != nil {
		log.Fatalf("Failed to analyze matchups: %v", err)
	}

	display.NewReporter(os.Stdout).MatchupReport(analyses)
}

func runSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to deck JSON file (required)")
	rounds := fs.Int("rounds", 0, "Bracket rounds (default from config)")
	seed := fs.Int64("seed", 0, "Random seed (default: current time)")
	formatName := fs.String("format", "Single Elimination", "Format name for the report")
	_ = fs.Parse(args)

	if *deckPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	d, err := deck.LoadFile(*deckPath)
	if err != nil {
		log.Fatalf("Failed to load deck: %v", err)
	}

	cfg := loadConfig()
	svc := newEngine(cfg)

	roundCount := *rounds
	if roundCount < 1 {
		roundCount = cfg.Simulator.RoundCount
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// The simulator falls back to an even archetype split when the meta
	// source is unavailable.
	var breakdown meta.Breakdown
	ctx := context.Background()
	if snapshot, err := svc.MetaGameData(ctx); err == nil {
		breakdown = snapshot.Breakdown
	} else if !errors.Is(err, meta.ErrSourceUnavailable) {
		log.Fatalf("Failed to fetch meta data: %v", err)
	}

	format := tournament.Format{Name: *formatName, RoundCount: roundCount}
	sim, err := svc.SimulateTournament(ctx, d, format, breakdown, tournament.NewRNG(rngSeed))
	if err != nil {
		log.Fatalf("Failed to simulate tournament: %v", err)
	}

	display.NewReporter(os.Stdout).SimulationReport(sim)
}

func runMeta(args []string) {
	fs := flag.NewFlagSet("meta", flag.ExitOnError)
	refresh := fs.Bool("refresh", false, "Bypass the cache and fetch fresh data")
	_ = fs.Parse(args)

	cfg := loadConfig()
	svc := newEngine(cfg)
	ctx := context.Background()

	db := openDB(cfg)
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				slog.Warn("failed to close database", "error", err)
			}
		}()

		if !*refresh {
			if cached, err := db.Meta().LatestSnapshot(ctx); err == nil && cached != nil {
				svc.PrimeMeta(cached)
			}
		}
	}

	snapshot, err := svc.MetaGameData(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch meta data: %v", err)
	}

	if db != nil {
		if err := db.Meta().SaveSnapshot(ctx, snapshot); err != nil {
			slog.Warn("failed to persist meta snapshot", "error", err)
		}
	}

	display.NewReporter(os.Stdout).MetaReport(snapshot)
}

func runPractice(args []string) {
	fs := flag.NewFlagSet("practice", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to deck JSON file (required)")
	versus := fs.String("vs", "", "Opponent archetype (required)")
	games := fs.String("games", "", "Comma-separated round results, e.g. W:play,L:draw,W (required)")
	_ = fs.Parse(args)

	if *deckPath == "" || *versus == "" || *games == "" {
		fs.Usage()
		os.Exit(1)
	}

	d, err := deck.LoadFile(*deckPath)
	if err != nil {
		log.Fatalf("Failed to load deck: %v", err)
	}

	cfg := loadConfig()
	db := openDB(cfg)
	if db == nil {
		log.Fatal("Practice matches require storage; enable it in the config")
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}()

	svc := newEngine(cfg)
	m := svc.CreatePracticeMatch(d, *versus)

	for i, entry := range strings.Split(*games, ",") {
		result, onPlay, err := parseGameEntry(entry, i == 0)
		if err != nil {
			log.Fatalf("Invalid game %d: %v", i+1, err)
		}
		if err := svc.RecordPracticeRound(m, result, onPlay, 0, nil); err != nil {
			if errors.Is(err, practice.ErrMatchCompleted) {
				fmt.Printf("Match decided after %d games; ignoring the rest.\n", len(m.Rounds))
				break
			}
			log.Fatalf("Failed to record game %d: %v", i+1, err)
		}
	}

	if _, err := db.Practice().SaveMatch(context.Background(), m); err != nil {
		log.Fatalf("Failed to save practice match: %v", err)
	}

	wins, losses := m.Record()
	fmt.Printf("Recorded practice match vs %s: %d-%d (%s)\n", m.OpponentArchetype, wins, losses, m.Result())
}

// parseGameEntry parses one "-games" entry: a result (w/l/d or win/loss/draw)
// with an optional :play or :draw suffix. Without a suffix, game one is on
// the play and the rest are on the draw.
func parseGameEntry(entry string, firstGame bool) (practice.RoundResult, bool, error) {
	parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)

	var result practice.RoundResult
	switch strings.ToLower(parts[0]) {
	case "w", "win":
		result = practice.RoundWin
	case "l", "loss":
		result = practice.RoundLoss
	case "d", "draw":
		result = practice.RoundDraw
	default:
		return "", false, fmt.Errorf("unknown result %q", parts[0])
	}

	onPlay := firstGame
	if len(parts) == 2 {
		switch strings.ToLower(parts[1]) {
		case "play":
			onPlay = true
		case "draw":
			onPlay = false
		default:
			return "", false, fmt.Errorf("unknown turn order %q", parts[1])
		}
	}
	return result, onPlay, nil
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	deckName := fs.String("deck", "", "Deck name to show the practice record for (required)")
	_ = fs.Parse(args)

	if *deckName == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	db := openDB(cfg)
	if db == nil {
		log.Fatal("Practice stats require storage; enable it in the config")
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("failed to close database", "error", err)
		}
	}()

	records, err := db.Practice().RecordByArchetype(context.Background(), *deckName)
	if err != nil {
		log.Fatalf("Failed to load practice record: %v", err)
	}

	if len(records) == 0 {
		fmt.Printf("No practice matches recorded for %q.\n", *deckName)
		return
	}

	fmt.Printf("\nPractice record: %s\n", *deckName)
	fmt.Printf("%-22s %5s %6s %6s\n", "Opponent", "Wins", "Losses", "Draws")
	fmt.Println(strings.Repeat("─", 44))
	totalWins, totalLosses, totalDraws := 0, 0, 0
	for _, rec := range records {
		fmt.Printf("%-22s %5d %6d %6d\n", rec.OpponentArchetype, rec.Wins, rec.Losses, rec.Draws)
		totalWins += rec.Wins
		totalLosses += rec.Losses
		totalDraws += rec.Draws
	}
	fmt.Println(strings.Repeat("─", 44))
	fmt.Printf("%-22s %5d %6d %6d\n\n", "Total", totalWins, totalLosses, totalDraws)
}

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	deckPath := fs.String("deck", "", "Path to deck JSON file (required)")
	debounce := fs.Duration("debounce", 250*time.Millisecond, "Delay before re-analyzing after a change")
	_ = fs.Parse(args)

	if *deckPath == "" {
		fs.Usage()
		os.Exit(1)
	}

	svc := newEngine(loadConfig())
	reporter := display.NewReporter(os.Stdout)

	analyzeOnce := func() {
		d, err := deck.LoadFile(*deckPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load deck: %v\n", err)
			return
		}
		reporter.DeckReport(d.Name, svc.AnalyzeDeck(d))
	}

	analyzeOnce()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("Failed to create file watcher: %v", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Warn("failed to close file watcher", "error", err)
		}
	}()

	// Watch the directory rather than the file itself: editors often
	// replace the file on save, which drops a direct watch.
	watchDir := filepath.Dir(*deckPath)
	if err := watcher.Add(watchDir); err != nil {
		log.Fatalf("Failed to watch %s: %v", watchDir, err)
	}

	target, err := filepath.Abs(*deckPath)
	if err != nil {
		log.Fatalf("Failed to resolve deck path: %v", err)
	}

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)...\n", *deckPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var pending <-chan time.Time
	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopping watch.")
			return
		case event := <-watcher.Events:
			eventPath, err := filepath.Abs(event.Name)
			if err != nil || eventPath != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(*debounce)
			}
		case err := <-watcher.Errors:
			fmt.Fprintf(os.Stderr, "File watcher error: %v\n", err)
		case <-pending:
			pending = nil
			analyzeOnce()
		}
	}
}
