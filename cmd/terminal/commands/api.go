package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/idxlab/terminal/internal/api"
	"github.com/idxlab/terminal/internal/api/handlers"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/report"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API with the live scan feed.

Endpoints:
  GET  /health                    - Health check
  GET  /api/scan/latest           - Most recent scan report
  POST /api/scan/run              - Trigger a scan
  GET  /api/scan/symbols/{symbol} - One symbol from the latest scan
  GET  /api/flow/market           - Market-wide flow state
  GET  /api/flow/symbols/{symbol} - Per-symbol flow state
  GET  /ws/scan                   - Websocket feed of finished scans

Example:
  go run ./cmd/terminal api
  go run ./cmd/terminal api --port 8099`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	prices, closePrices, err := newPriceSource(cfg, log)
	if err != nil {
		return err
	}
	defer closePrices()

	flows, closeFlows, err := openFlowRepo(cfg, log)
	if err != nil {
		return err
	}
	defer closeFlows()

	engine := flow.NewEngine(flow.DefaultAccelThresholds(), flow.DefaultNetThresholds(), log)
	sc, err := newScanner(cfg, log, prices, flows, engine)
	if err != nil {
		return err
	}

	feed := api.NewFeed(log)
	notifier := report.NewTelegram(cfg.Telegram, log)
	scanHandler := handlers.NewScanHandler(sc, symbolsLoader(cfg), feed, notifier, log)
	flowHandler := handlers.NewFlowHandler(flows, engine, log)

	router := api.NewRouter(scanHandler, flowHandler, feed, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
