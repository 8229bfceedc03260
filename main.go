// The module root builds the mock admin API: the whole short-link admin
// contract served from memory for local development of the console.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"shortlink-admin/config"
	"shortlink-admin/logger"
	"shortlink-admin/server"
)

func main() {
	cfg, log, err := setup(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to start:", err)
		os.Exit(2)
	}
	defer log.Sync()

	log.Info("Starting short-link admin mock API...", zap.String("port", cfg.ServerPort))
	if err := server.Run(context.Background(), log, cfg); err != nil {
		log.Fatal("Application error", zap.Error(err))
	}
	log.Info("Short-link admin mock API stopped.")
}

// setup parses the flags over the environment configuration and builds the logger.
func setup(args []string) (*config.Config, *zap.Logger, error) {
	fs := flag.NewFlagSet("shortlink-admin", flag.ContinueOnError)
	disableRateLimit := fs.Bool("disable-rate-limit", false, "Disable rate limiting for performance testing")
	port := fs.String("port", "", "Address to listen on, overrides SERVER_PORT")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if *disableRateLimit {
		cfg.DisableRateLimit = true
	}
	if *port != "" {
		cfg.ServerPort = *port
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
