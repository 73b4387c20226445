package commands

import (
	"context"
	"fmt"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/external/yahoo"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/fundamentals"
	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/internal/signals"
	"github.com/idxlab/terminal/internal/store"
	"github.com/idxlab/terminal/internal/universe"
	"github.com/idxlab/terminal/pkg/config"
	"github.com/idxlab/terminal/pkg/database"
	"github.com/idxlab/terminal/pkg/logger"
	"github.com/idxlab/terminal/pkg/redis"
)

// setup loads config and builds the logger every command starts from.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel, cfg.LogFormat), nil
}

// newPriceSource builds the chart client with its Redis-backed series cache.
// The returned closer releases the Redis connection.
func newPriceSource(cfg *config.Config, log *logger.Logger) (contracts.PriceSource, func(), error) {
	client, err := redis.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := redis.NewCache(client, "terminal")
	closer := func() { _ = client.Close() }
	return yahoo.New(cfg.Yahoo, cache, log), closer, nil
}

// openFlowRepo connects the foreign-flow history store. An empty DATABASE_URL
// means no flow history; scans then run on technicals alone.
func openFlowRepo(cfg *config.Config, log *logger.Logger) (contracts.FlowRepository, func(), error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, running without foreign flow history")
		return nil, func() {}, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.EnsureSchema(context.Background(), db.Pool); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	return store.NewFlowRepo(db.Pool), db.Close, nil
}

// newScanner assembles the scoring pipeline.
func newScanner(
	cfg *config.Config,
	log *logger.Logger,
	prices contracts.PriceSource,
	flows contracts.FlowRepository,
	engine *flow.Engine,
) (*scanner.Scanner, error) {
	sectors, err := universe.LoadSectorMap(cfg.Scan.SectorMapPath)
	if err != nil {
		return nil, fmt.Errorf("load sector map: %w", err)
	}

	funds, err := fundamentals.Load(cfg.Scan.FundamentalsPath)
	if err != nil {
		return nil, fmt.Errorf("load fundamentals: %w", err)
	}
	if funds == nil {
		log.Warn("No fundamentals dataset, scanning without the overlay")
	}

	extractor := signals.NewExtractor(cfg.Scan.MinAvgValue, cfg.Scan.DiscountLevel)
	model, err := signals.NewModel(cfg.Scan.ModelVersion, extractor, log)
	if err != nil {
		return nil, err
	}

	return scanner.New(prices, flows, engine, model, sectors, funds, cfg.Scan, log), nil
}

// symbolsLoader defers the universe read to scan time so edits to the file
// are picked up without restarting daemons.
func symbolsLoader(cfg *config.Config) func() ([]string, error) {
	return func() ([]string, error) {
		return universe.Load(cfg.Scan.UniversePath)
	}
}
