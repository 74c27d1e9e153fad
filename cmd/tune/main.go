// path: blockbrain/cmd/tune/main.go
// tune runs the cross-entropy weight search and writes the result as a
// config file the other binaries can load.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"blockbrain/internal/config"
	"blockbrain/internal/tune"
)

func main() {
	cfgPath := flag.String("config", config.Getenv("BLOCKBRAIN_CONFIG", ""), "JSON config file providing the start weights and board size")
	out := flag.String("out", config.Getenv("BLOCKBRAIN_TUNE_OUT", "tuned.json"), "where to write the tuned config")
	iterations := flag.Int("iterations", config.GetenvInt("BLOCKBRAIN_TUNE_ITERATIONS", 10), "cross-entropy rounds")
	population := flag.Int("population", 100, "candidates per round")
	games := flag.Int("games", 3, "games per candidate")
	pieces := flag.Int("pieces", 1000, "piece cap per game")
	workers := flag.Int("workers", 0, "parallel games (0 = one per CPU)")
	seed := flag.Int64("seed", 1, "sampling and game seed")
	level := flag.String("log-level", config.Getenv("BLOCKBRAIN_LOG_LEVEL", ""), "log level (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	fatalIf(err, "config")
	if *level != "" {
		cfg.LogLevel = *level
	}
	fatalIf(cfg.Validate(), "config")
	fatalIf(config.SetupLogging(os.Stderr, cfg.LogLevel), "logging")

	opts := tune.DefaultOptions()
	opts.Start = cfg.Weights
	opts.Width, opts.Height = cfg.Width, cfg.Height
	opts.Iterations = *iterations
	opts.Population = *population
	opts.Games = *games
	opts.MaxPieces = *pieces
	opts.Workers = *workers
	opts.Seed = *seed
	opts.OnIteration = func(it tune.Iteration) {
		log.Info().
			Int("iteration", it.N).
			Float64("elite_rows", it.Elite[0].Rows).
			Interface("mean", it.Mean).
			Floats64("variance", it.Variance).
			Msg("round done")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := tune.Run(ctx, opts)
	if err != nil && res.Iterations == 0 {
		log.Fatal().Err(err).Msg("tune")
	}
	if err != nil {
		log.Warn().Err(err).Int("iterations", res.Iterations).Msg("stopped early; keeping best so far")
	}

	cfg.Weights = res.Best.Weights
	fatalIf(config.Save(*out, cfg), "write "+*out)
	log.Info().
		Str("out", *out).
		Float64("rows", res.Best.Rows).
		Interface("weights", res.Best.Weights).
		Msg("tuned weights saved")
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatal().Err(err).Msg(label)
	}
}
