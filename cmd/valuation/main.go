package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fairvalue/pkg/config"
	"fairvalue/pkg/core/audit"
	"fairvalue/pkg/core/extensions"
	"fairvalue/pkg/core/pipeline"
	"fairvalue/pkg/core/resolve"
	"fairvalue/pkg/core/strategy"
	"fairvalue/pkg/models"
	"fairvalue/pkg/provider/yahoo"
	"fairvalue/pkg/store"
)

func main() {
	var (
		ticker         = flag.String("ticker", "", "ticker symbol to value (required)")
		method         = flag.String("method", string(models.MethodologyFCFFStandard), "valuation methodology")
		growth         = flag.Float64("growth", 0, "explicit growth rate, 0 means resolver estimate")
		terminalGrowth = flag.Float64("terminal-growth", 0, "perpetual growth rate, 0 means inflation default")
		years          = flag.Int("years", 5, "explicit projection horizon in years")
		highGrowth     = flag.Int("high-growth-years", 0, "years at full growth before the fade-down")
		dilution       = flag.Float64("dilution", 0, "annual dilution rate from stock compensation")
		seed           = flag.Int64("seed", time.Now().UnixNano(), "seed for stochastic extensions")
		simulations    = flag.Int("mc", 0, "Monte Carlo simulation count, 0 disables")
		sensitivity    = flag.Bool("sensitivity", false, "run the rate/growth sensitivity grid")
		scenarioPath   = flag.String("scenarios", "", "YAML scenario file")
		peersPath      = flag.String("peers", "", "YAML comparable-set file")
		expertPath     = flag.String("expert", "", "Hjson expert assumption bundle")
		backtestYears  = flag.String("backtest", "", "comma-separated fiscal years to replay")
		snapshotPath   = flag.String("snapshot", "", "load snapshot from JSON file instead of fetching")
		save           = flag.Bool("save", false, "persist the run to the database")
		verbose        = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	settings := config.LoadSettings()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	} else if parsed, err := zerolog.ParseLevel(settings.LogLevel); err == nil {
		level = parsed
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	if *ticker == "" {
		flag.Usage()
		log.Fatal().Msg("-ticker is required")
	}

	req, err := buildRequest(*ticker, *method, requestFlags{
		growth:         *growth,
		terminalGrowth: *terminalGrowth,
		years:          *years,
		highGrowth:     *highGrowth,
		dilution:       *dilution,
		seed:           *seed,
		simulations:    *simulations,
		sensitivity:    *sensitivity,
		scenarioPath:   *scenarioPath,
		peersPath:      *peersPath,
		expertPath:     *expertPath,
		backtestYears:  *backtestYears,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid request")
	}

	ctx := context.Background()

	snap, err := loadSnapshot(ctx, *ticker, *snapshotPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("ticker", *ticker).Msg("snapshot unavailable")
	}

	registry := strategy.NewRegistry()
	resolver := resolve.NewResolver()
	orch := pipeline.NewOrchestrator(registry, resolver,
		extensions.NewRunner(registry, resolver, log), audit.NewEngine(), log)

	result, err := orch.Run(ctx, req, snap)
	if err != nil {
		log.Fatal().Err(err).Msg("valuation failed")
	}

	if *save {
		db, err := store.Open(ctx, settings.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		defer db.Close()
		if err := db.SaveRun(ctx, result); err != nil {
			log.Fatal().Err(err).Msg("failed to persist run")
		}
		log.Info().Str("run_id", result.Meta.RunID).Msg("run persisted")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode result")
	}
	fmt.Println(string(out))
}

type requestFlags struct {
	growth         float64
	terminalGrowth float64
	years          int
	highGrowth     int
	dilution       float64
	seed           int64
	simulations    int
	sensitivity    bool
	scenarioPath   string
	peersPath      string
	expertPath     string
	backtestYears  string
}

func buildRequest(ticker, method string, f requestFlags) (*models.ValuationRequest, error) {
	common := models.CommonParams{
		ProjectionYears: f.years,
		HighGrowthYears: f.highGrowth,
	}
	if f.terminalGrowth != 0 {
		common.Terminal.PerpetualGrowthRate = models.Float(f.terminalGrowth)
	}
	if f.dilution != 0 {
		common.DilutionRate = models.Float(f.dilution)
	}

	var growth *float64
	if f.growth != 0 {
		growth = models.Float(f.growth)
	}

	var params models.StrategyParams
	switch models.Methodology(strings.ToUpper(method)) {
	case models.MethodologyFCFFStandard:
		params = models.FCFFStandardParams{Shared: common, GrowthRate: growth}
	case models.MethodologyFCFFNormalized:
		params = models.FCFFNormalizedParams{Shared: common, GrowthRate: growth}
	case models.MethodologyFCFFGrowth:
		params = models.FCFFGrowthParams{Shared: common, StartGrowth: growth}
	case models.MethodologyFCFE:
		params = models.FCFEParams{Shared: common, GrowthRate: growth}
	case models.MethodologyDDM:
		params = models.DDMParams{Shared: common, GrowthRate: growth}
	case models.MethodologyRIM:
		params = models.RIMParams{Shared: common, GrowthRate: growth}
	case models.MethodologyGraham:
		params = models.GrahamParams{Shared: common, GrowthEstimate: growth}
	default:
		return nil, fmt.Errorf("unknown methodology %q", method)
	}

	req := &models.ValuationRequest{Ticker: ticker, Params: params, Seed: f.seed}

	ext := &models.ExtensionBundle{}
	wired := false
	if f.simulations > 0 {
		ext.MonteCarlo = &models.MonteCarloConfig{Simulations: f.simulations}
		wired = true
	}
	if f.sensitivity {
		ext.Sensitivity = &models.SensitivityConfig{}
		wired = true
	}
	if f.scenarioPath != "" {
		cfg, err := config.LoadScenarios(f.scenarioPath)
		if err != nil {
			return nil, err
		}
		ext.Scenarios = cfg
		wired = true
	}
	if f.peersPath != "" {
		cfg, err := config.LoadPeers(f.peersPath)
		if err != nil {
			return nil, err
		}
		ext.Peers = cfg
		wired = true
	}
	if f.backtestYears != "" {
		years, err := parseYears(f.backtestYears)
		if err != nil {
			return nil, err
		}
		ext.Backtest = &models.BacktestConfig{Years: years}
		wired = true
	}
	if wired {
		req.Extensions = ext
	}

	if f.expertPath != "" {
		bundle, err := config.LoadExpertBundle(f.expertPath)
		if err != nil {
			return nil, err
		}
		req.Overrides = bundle.Overrides
	}

	return req, nil
}

func parseYears(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid backtest year %q", p)
		}
		years = append(years, y)
	}
	return years, nil
}

func loadSnapshot(ctx context.Context, ticker, path string, log zerolog.Logger) (*models.CompanySnapshot, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read snapshot file: %w", err)
		}
		var snap models.CompanySnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse snapshot file: %w", err)
		}
		if snap.Ticker == "" {
			snap.Ticker = ticker
		}
		return &snap, nil
	}
	return yahoo.NewProvider(log).Fetch(ctx, ticker)
}
