// Command mppass runs one enrichment or maintenance pass over the venue
// store. Column passes call external providers and checkpoint progress;
// row passes rewrite the store in one shot.
//
// Usage:
//
//	mppass -list
//	mppass -pass wealth
//	mppass -pass ingest -candidates data/candidates.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/Jeepster74/MPone/internal/adapter/eurostat"
	"github.com/Jeepster74/MPone/internal/adapter/filesource"
	"github.com/Jeepster74/MPone/internal/adapter/nuts"
	"github.com/Jeepster74/MPone/internal/adapter/ors"
	"github.com/Jeepster74/MPone/internal/adapter/web"
	"github.com/Jeepster74/MPone/internal/config"
	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/observability"
	"github.com/Jeepster74/MPone/internal/pass"
	"github.com/Jeepster74/MPone/internal/ratelimit"
)

const providerTimeout = 30 * time.Second

// passDef builds a pass lazily, so a run only pays for the providers the
// selected pass needs and only demands their configuration.
type passDef struct {
	describe string
	column   func(cfg *config.Config, logger *slog.Logger) (pass.ColumnEnricher, error)
	row      func(cfg *config.Config, logger *slog.Logger) (pass.RowPass, error)
}

func main() {
	if err := run(); err != nil {
		slog.Error("pass failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	passName := flag.String("pass", "", "pass to run")
	list := flag.Bool("list", false, "list available passes")
	candidatesPath := flag.String("candidates", "", "candidate JSON file for the ingest pass")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	passes := registry(*candidatesPath)
	if *list {
		names := make([]string, 0, len(passes))
		for name := range passes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-14s %s\n", name, passes[name].describe)
		}
		return nil
	}

	def, ok := passes[*passName]
	if !ok {
		return fmt.Errorf("unknown pass %q, try -list", *passName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if def.row != nil {
		fn, err := def.row(cfg, logger)
		if err != nil {
			return err
		}
		_, _, err = pass.RewriteStore(cfg.StorePath, *passName, logger, fn)
		return err
	}

	enricher, err := def.column(cfg, logger)
	if err != nil {
		return err
	}

	limiter, err := ratelimit.New(cfg.RateLimit)
	if err != nil {
		return err
	}
	metrics := observability.NewMetrics()
	runner := pass.NewRunner(cfg.StorePath, limiter, clockwork.NewRealClock(), cfg.CheckpointEvery, cfg.BatchSize, logger, metrics)

	stats, err := runner.Run(ctx, enricher)
	if errors.Is(err, pass.ErrQuotaExceeded) {
		// Progress is flushed; the next run picks up the remainder.
		logger.Info("stopping on provider quota",
			"enriched", stats.Enriched, "pending", stats.Pending-stats.Enriched-stats.Failed)
		return nil
	}
	return err
}

func registry(candidatesPath string) map[string]passDef {
	return map[string]passDef{
		"wealth": {
			describe: "regional disposable income from NUTS boundaries and the income table",
			column: func(cfg *config.Config, _ *slog.Logger) (pass.ColumnEnricher, error) {
				if cfg.NutsGeoJSONPath == "" || cfg.IncomeTablePath == "" {
					return nil, errors.New("wealth pass needs NUTS_GEOJSON_PATH and INCOME_TABLE_PATH")
				}
				resolver, err := nuts.NewResolver(cfg.NutsGeoJSONPath)
				if err != nil {
					return nil, err
				}
				income, err := eurostat.Load(cfg.IncomeTablePath)
				if err != nil {
					return nil, err
				}
				return pass.NewWealthEnricher(resolver, income), nil
			},
		},
		"footprint": {
			describe: "building footprint and commercial density from the lookup snapshot",
			column: func(cfg *config.Config, _ *slog.Logger) (pass.ColumnEnricher, error) {
				src, err := lookupSource(cfg, "footprints.json", filesource.LoadFootprints)
				if err != nil {
					return nil, err
				}
				return pass.NewFootprintEnricher(src), nil
			},
		},
		"length": {
			describe: "mapped track length from the geometry snapshot",
			column: func(cfg *config.Config, _ *slog.Logger) (pass.ColumnEnricher, error) {
				src, err := lookupSource(cfg, "geometries.json", filesource.LoadGeometries)
				if err != nil {
					return nil, err
				}
				return pass.NewLengthEnricher(src), nil
			},
		},
		"reviews": {
			describe: "maps listing metadata and review-mined signals from the place snapshot",
			column: func(cfg *config.Config, _ *slog.Logger) (pass.ColumnEnricher, error) {
				src, err := lookupSource(cfg, "places.json", filesource.LoadPlaces)
				if err != nil {
					return nil, err
				}
				return pass.NewReviewsEnricher(src), nil
			},
		},
		"weblength": {
			describe: "advertised track length scraped from venue websites",
			column: func(_ *config.Config, _ *slog.Logger) (pass.ColumnEnricher, error) {
				return pass.NewWebLengthEnricher(web.NewFetcher(providerTimeout)), nil
			},
		},
		"reach": {
			describe: "drive-time catchment polygons from openrouteservice",
			column: func(cfg *config.Config, logger *slog.Logger) (pass.ColumnEnricher, error) {
				if cfg.ORSAPIKey == "" {
					return nil, errors.New("reach pass needs ORS_API_KEY")
				}
				client := ors.NewClient(cfg.ORSAPIKey, providerTimeout, logger)
				return pass.NewReachEnricher(client, cfg.ShapesPath, cfg.IsochroneRangeMin)
			},
		},

		"reclassify": {
			describe: "reset and re-derive facility flags from current signals",
			row: func(_ *config.Config, _ *slog.Logger) (pass.RowPass, error) {
				return pass.Reclassify(domain.DefaultKeywords()), nil
			},
		},
		"rescore": {
			describe: "recompute data quality scores with the configured strategy",
			row: func(cfg *config.Config, _ *slog.Logger) (pass.RowPass, error) {
				strategy, err := domain.ParseScoreStrategy(cfg.ScoreStrategy)
				if err != nil {
					return nil, err
				}
				return pass.Rescore(strategy), nil
			},
		},
		"dedup": {
			describe: "merge exact and rounded-coordinate duplicates",
			row: func(cfg *config.Config, _ *slog.Logger) (pass.RowPass, error) {
				strategy, err := domain.ParseScoreStrategy(cfg.ScoreStrategy)
				if err != nil {
					return nil, err
				}
				return pass.Dedup(strategy), nil
			},
		},
		"snap": {
			describe: "drop near-duplicate listings within the snap radius",
			row: func(cfg *config.Config, _ *slog.Logger) (pass.RowPass, error) {
				strategy, err := domain.ParseScoreStrategy(cfg.ScoreStrategy)
				if err != nil {
					return nil, err
				}
				return pass.Snap(strategy, cfg.SnapRadiusM), nil
			},
		},
		"refine-trust": {
			describe: "drop bad-name rows, backfill cities, rescore on trust",
			row: func(_ *config.Config, _ *slog.Logger) (pass.RowPass, error) {
				return pass.RefineTrust(), nil
			},
		},
		"remove-hijacks": {
			describe: "drop brand names listed outside their home country",
			row: func(_ *config.Config, logger *slog.Logger) (pass.RowPass, error) {
				return pass.RemoveHijacks(logger), nil
			},
		},
		"ingest": {
			describe: "admit validated candidates from a JSON file as new records",
			row: func(_ *config.Config, logger *slog.Logger) (pass.RowPass, error) {
				if candidatesPath == "" {
					return nil, errors.New("ingest pass needs -candidates")
				}
				candidates, err := readCandidates(candidatesPath)
				if err != nil {
					return nil, err
				}
				return pass.Ingest(candidates, domain.DefaultKeywords(), logger), nil
			},
		},
	}
}

// lookupSource loads one snapshot file from LOOKUP_DIR.
func lookupSource[T any](cfg *config.Config, file string, load func(string) (T, error)) (T, error) {
	var zero T
	if cfg.LookupDir == "" {
		return zero, fmt.Errorf("pass needs LOOKUP_DIR containing %s", file)
	}
	return load(filepath.Join(cfg.LookupDir, file))
}

func readCandidates(path string) ([]domain.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	var candidates []domain.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("decode candidates %s: %w", path, err)
	}
	return candidates, nil
}
