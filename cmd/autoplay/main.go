// path: blockbrain/cmd/autoplay/main.go
// autoplay lets the brain play a game by itself and draws every placement.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"blockbrain/internal/brain"
	"blockbrain/internal/config"
	"blockbrain/internal/grid"
	"blockbrain/internal/piece"
	"blockbrain/internal/play"
	"blockbrain/internal/render"
)

func main() {
	cfgPath := flag.String("config", config.Getenv("BLOCKBRAIN_CONFIG", ""), "JSON config file")
	hostile := flag.Bool("hostile", config.GetenvBool("BLOCKBRAIN_HOSTILE", false), "hand out the worst shape each turn instead of a random one")
	rater := flag.String("rater", config.Getenv("BLOCKBRAIN_RATER", ""), "rater name (overrides config)")
	seed := flag.Int64("seed", int64(config.GetenvInt("BLOCKBRAIN_SEED", 1)), "random picker seed")
	pieces := flag.Int("pieces", config.GetenvInt("BLOCKBRAIN_PIECES", 0), "stop after this many pieces (0 = until game over)")
	delay := flag.Duration("delay", 0, "pause between frames; 0 prints only the final board")
	animate := flag.Bool("animate", false, "with -delay, show the piece being steered into place")
	width := flag.Int("width", 0, "board width (overrides config)")
	height := flag.Int("height", 0, "board height (overrides config)")
	theme := flag.String("theme", config.Getenv("BLOCKBRAIN_THEME", "classic"), "render theme")
	level := flag.String("log-level", config.Getenv("BLOCKBRAIN_LOG_LEVEL", ""), "log level (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	fatalIf(err, "config")
	if *rater != "" {
		cfg.Rater = *rater
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	fatalIf(cfg.Validate(), "config")
	fatalIf(config.SetupLogging(os.Stderr, cfg.LogLevel), "logging")

	r, err := brain.NewRater(cfg.Rater, cfg.Weights)
	fatalIf(err, "rater")
	table := piece.NewStandardTable()
	b := brain.New(r)
	g := grid.New(cfg.Width, cfg.Height)
	g.SetChecks(cfg.Checks)

	var picker play.Picker = play.NewRandomPicker(table, *seed)
	if *hostile {
		picker = play.NewHostilePicker(table, b, cfg.EffectiveHeightLimit())
	}
	th, ok := render.ThemeByName(*theme)
	if !ok {
		log.Warn().Str("theme", *theme).Str("using", th.Name).Msg("unknown theme")
	}

	gm := &play.Game{Grid: g, Brain: b, Picker: picker, HeightLimit: cfg.HeightLimit}
	if *delay > 0 {
		if *animate {
			gm.OnPlan = func(step play.StepResult) {
				start := step.Move.Piece
				if c := start.Cycle(); c != nil {
					start = c.Root()
				}
				spawnX := (g.Width() - start.Width()) / 2
				spawnY := max(g.Height()-start.Height(), step.Move.Y)
				for _, f := range play.Path(start, spawnX, spawnY, step.Move) {
					frame := brain.Move{Piece: f.Piece, X: f.X, Y: f.Y}
					draw(g, render.Options{Theme: th, Active: &frame, Ghost: &step.Move, Title: step.Shape, Info: []string{f.Action.String()}})
					time.Sleep(*delay / 4)
				}
			}
		}
		gm.OnStep = func(step play.StepResult) {
			stats := gm.Stats()
			draw(g, render.Options{
				Theme: th,
				Title: step.Shape,
				Info: []string{
					fmt.Sprintf("pieces %d", stats.Pieces),
					fmt.Sprintf("rows   %d", stats.Rows),
					fmt.Sprintf("score  %.2f", step.Move.Score),
				},
			})
			time.Sleep(*delay)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	stats, err := gm.Run(ctx, *pieces)
	if err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("play")
	}

	fmt.Println(render.Render(g, render.Options{Theme: th, Title: "final"}))
	log.Info().
		Int("pieces", stats.Pieces).
		Int("rows", stats.Rows).
		Bool("over", stats.Over).
		Bool("hostile", *hostile).
		Msg("game finished")
}

func draw(g *grid.Grid, opts render.Options) {
	// Clear screen and home the cursor.
	fmt.Print("\x1b[H\x1b[2J")
	fmt.Println(render.Render(g, opts))
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatal().Err(err).Msg(label)
	}
}
