// path: blockbrain/cmd/server/main.go
// Advisor API: POST a grid snapshot and a shape, get back the recommended
// placement.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"blockbrain/internal/config"
	"blockbrain/internal/httpx"
	"blockbrain/internal/piece"
)

func main() {
	// Flags (env fallbacks). Flags win over the config file.
	cfgPath := flag.String("config", config.Getenv("BLOCKBRAIN_CONFIG", ""), "JSON config file")
	addr := flag.String("addr", config.Getenv("BLOCKBRAIN_ADDR", ""), "listen address (overrides config)")
	level := flag.String("log-level", config.Getenv("BLOCKBRAIN_LOG_LEVEL", ""), "log level (overrides config)")
	rater := flag.String("rater", config.Getenv("BLOCKBRAIN_RATER", ""), "default rater (overrides config)")
	checks := flag.Bool("checks", config.GetenvBool("BLOCKBRAIN_CHECKS", false), "verify grid aggregates after every placement")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	fatalIf(err, "config")
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	if *rater != "" {
		cfg.Rater = *rater
	}
	cfg.Checks = cfg.Checks || *checks
	fatalIf(cfg.Validate(), "config")
	fatalIf(config.SetupLogging(os.Stderr, cfg.LogLevel), "logging")

	srv, err := httpx.NewServer(piece.NewStandardTable(), cfg)
	fatalIf(err, "http init")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(shutdown); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("rater", cfg.Rater).Bool("checks", cfg.Checks).Msg("advisor ready")
	if err := srv.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatal().Err(err).Msg(label)
	}
}
