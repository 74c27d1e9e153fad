// path: blockbrain/internal/tune/tune.go
// Package tune searches for rater weights with the noisy cross-entropy
// method: sample a population around the current mean, play each candidate,
// refit mean and variance to the elite and repeat.
//
// Two changes to the textbook method: an L1 penalty pushes unused weights
// towards zero, and the noise added to each variance scales with the
// magnitude of the mean and decays with log(iteration).
package tune

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"blockbrain/internal/brain"
	"blockbrain/internal/grid"
	"blockbrain/internal/piece"
	"blockbrain/internal/play"
)

var ErrBadOptions = errors.New("tune: invalid options")

type Options struct {
	Start           brain.Weights
	Population      int
	Rho             float64 // elite fraction
	Noise           float64
	InitialVariance float64
	Lambda          float64 // L1 strength; negative disables
	Iterations      int
	Games           int // games per candidate
	MaxPieces       int // cap per game
	Width, Height   int
	Workers         int
	Seed            int64
	Table           *piece.Table

	// OnIteration is called from the calling goroutine after each round.
	OnIteration func(Iteration)
}

func DefaultOptions() Options {
	return Options{
		Start:           brain.DefaultWeights(),
		Population:      100,
		Rho:             0.1,
		Noise:           0.03,
		InitialVariance: 10,
		Iterations:      10,
		Games:           3,
		MaxPieces:       1000,
		Width:           10,
		Height:          20,
		Seed:            1,
	}
}

// Candidate is one sampled weight set and how it played.
type Candidate struct {
	Weights brain.Weights `json:"weights"`
	Rows    float64       `json:"rows"`
	Score   float64       `json:"score"`
}

type Iteration struct {
	N        int
	Mean     brain.Weights
	Variance []float64
	Elite    []Candidate
}

type Result struct {
	Best       Candidate     `json:"best"`
	Mean       brain.Weights `json:"mean"`
	Iterations int           `json:"iterations"`
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Population == 0 {
		o.Population = def.Population
	}
	if o.Rho == 0 {
		o.Rho = def.Rho
	}
	if o.Noise == 0 {
		o.Noise = def.Noise
	}
	if o.InitialVariance == 0 {
		o.InitialVariance = def.InitialVariance
	}
	if o.Lambda == 0 {
		o.Lambda = 0.04 / float64(len(o.Start.Vector()))
	}
	if o.Lambda < 0 {
		o.Lambda = 0
	}
	if o.Games == 0 {
		o.Games = def.Games
	}
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Table == nil {
		o.Table = piece.NewStandardTable()
	}
	return o
}

func (o Options) validate() error {
	switch {
	case o.Iterations < 1:
		return fmt.Errorf("%w: iterations %d", ErrBadOptions, o.Iterations)
	case o.Population < 2:
		return fmt.Errorf("%w: population %d", ErrBadOptions, o.Population)
	case o.Rho <= 0 || o.Rho > 1:
		return fmt.Errorf("%w: rho %v", ErrBadOptions, o.Rho)
	case o.Games < 1:
		return fmt.Errorf("%w: games %d", ErrBadOptions, o.Games)
	case o.Width < 1 || o.Height < 1:
		return fmt.Errorf("%w: board %dx%d", ErrBadOptions, o.Width, o.Height)
	}
	return nil
}

// Run tunes weights for opts.Iterations rounds. On cancellation it returns
// the best result so far together with ctx's error.
func Run(ctx context.Context, opts Options) (Result, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	means := opts.Start.Vector()
	variances := make([]float64, len(means))
	for i := range variances {
		variances[i] = opts.InitialVariance
	}
	cutoff := int(opts.Rho * float64(opts.Population))
	if cutoff < 1 {
		cutoff = 1
	}

	var res Result
	for it := 1; it <= opts.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		pop := make([]brain.Weights, opts.Population)
		for i := range pop {
			pop[i] = sample(rng, means, variances, opts.Noise, it)
		}
		scored, err := evaluate(ctx, opts, pop)
		if err != nil {
			return res, err
		}
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
		elite := scored[:cutoff]

		for f := range means {
			column := make([]float64, cutoff)
			for j, c := range elite {
				column[j] = c.Weights.Vector()[f]
			}
			means[f] = mean(column)
			variances[f] = variance(column, means[f])
		}

		mw, _ := brain.WeightsFromVector(means)
		res.Mean = mw
		res.Iterations = it
		if it == 1 || elite[0].Rows > res.Best.Rows {
			res.Best = elite[0]
		}

		log.Debug().
			Int("iteration", it).
			Float64("elite_rows", elite[0].Rows).
			Float64("best_rows", res.Best.Rows).
			Msg("tune iteration")
		if opts.OnIteration != nil {
			opts.OnIteration(Iteration{
				N:        it,
				Mean:     mw,
				Variance: append([]float64(nil), variances...),
				Elite:    append([]Candidate(nil), elite...),
			})
		}
	}
	return res, nil
}

func sample(rng *rand.Rand, means, variances []float64, noise float64, iteration int) brain.Weights {
	n := noise / math.Log10(1+float64(iteration))
	v := make([]float64, len(means))
	for i := range means {
		spread := math.Abs(means[i])*n + variances[i]
		v[i] = rng.NormFloat64()*math.Sqrt(spread) + means[i]
	}
	w, _ := brain.WeightsFromVector(v)
	return w
}

// evaluate plays every candidate on a worker pool. Each worker builds its
// own grid per game; results keep the population order.
func evaluate(ctx context.Context, opts Options, pop []brain.Weights) ([]Candidate, error) {
	jobs := make(chan int)
	out := make([]Candidate, len(pop))
	errs := make([]error, len(pop))

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i], errs[i] = playCandidate(ctx, opts, pop[i])
			}
		}()
	}
	for i := range pop {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// playCandidate averages cleared rows over opts.Games games. Game j uses
// seed opts.Seed+j for every candidate so they face the same shapes.
func playCandidate(ctx context.Context, opts Options, w brain.Weights) (Candidate, error) {
	b := brain.New(brain.Weighted{Weights: w})
	var total float64
	for j := 0; j < opts.Games; j++ {
		gm := &play.Game{
			Grid:   grid.New(opts.Width, opts.Height),
			Brain:  b,
			Picker: play.NewRandomPicker(opts.Table, opts.Seed+int64(j)),
		}
		stats, err := gm.Run(ctx, opts.MaxPieces)
		if err != nil {
			return Candidate{}, err
		}
		total += float64(stats.Rows)
	}
	avg := total / float64(opts.Games)
	return Candidate{
		Weights: w,
		Rows:    avg,
		Score:   avg - l1Penalty(avg, opts.Lambda, w),
	}, nil
}

func l1Penalty(rows, lambda float64, w brain.Weights) float64 {
	var sum float64
	for _, v := range w.Vector() {
		sum += math.Abs(v)
	}
	return lambda * rows * sum
}

func mean(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func variance(data []float64, m float64) float64 {
	var sq float64
	for _, v := range data {
		d := v - m
		sq += d * d
	}
	return sq / float64(len(data))
}
