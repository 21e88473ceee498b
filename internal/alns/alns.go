package alns

import (
	"math"
	"math/rand"
	"sync"

	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/model"
)

// score is the lexicographic objective of spec.md §4.5 step 7: unrouted
// employees dominate cost.
func score(sol *model.Solution) float64 {
	return float64(sol.UnroutedCount())*1e9 + sol.TotalCost()
}

// Result reports how an ALNS run ended.
type Result struct {
	Best       *model.Solution
	BestScore  float64
	Iterations int
	State      RunState
}

// Run iteratively ruin-and-recreates sol (already constructed, e.g. by
// construct.Build) and returns the best solution observed, per spec.md
// §4.5's eleven-step iteration. sol itself is not mutated; the returned
// Result.Best is a fresh clone.
func Run(sol *model.Solution, g *geo.Service, cfg Config, seed int64) Result {
	rng := rand.New(rand.NewSource(seed))
	w := newWeights()
	var wMu sync.Mutex

	current := sol.Clone()
	best := current.Clone()
	bestScore := score(best)
	currentScore := bestScore

	temperature := cfg.T0
	noImprove := 0
	state := StateConvergedByBudget
	iter := 0

	for iter = 0; iter < cfg.Iterations; iter++ {
		if noImprove >= cfg.NoImproveStop {
			state = StateConvergedByStagnation
			break
		}

		var op int
		var trial *model.Solution
		var trialScore float64

		if cfg.ParallelTrials > 1 {
			// Evaluate several independent trial clones concurrently
			// and keep the one with the best score this round; the
			// shared weight vector is mutex-guarded and each trial
			// draws from its own RNG seeded from rng (spec.md §5).
			candidates := parallelDestroyRepair(current, cfg.ParallelTrials, rng, w, &wMu, g, cfg)
			bestIdx := 0
			for i := 1; i < len(candidates); i++ {
				if candidates[i].score < candidates[bestIdx].score {
					bestIdx = i
				}
			}
			op, trial, trialScore = candidates[bestIdx].op, candidates[bestIdx].trial, candidates[bestIdx].score
		} else {
			q := cfg.MinRemove
			if cfg.MaxRemove > cfg.MinRemove {
				q += rng.Intn(cfg.MaxRemove - cfg.MinRemove + 1)
			}

			op = w.choose(rng)
			trial = current.Clone()

			removed := destroy(op, trial, q, rng, g)
			repair(trial, removed, g, cfg.Insertion, cfg.UseRegret2)
			trialScore = score(trial)
		}

		delta := trialScore - currentScore

		accept := delta <= 0
		if !accept && temperature > 0 {
			accept = rng.Float64() < math.Exp(-delta/temperature)
		}

		reward := rewardRejected
		if accept {
			current = trial
			currentScore = trialScore
			reward = rewardAcceptedNoImprove
			if trialScore < bestScore {
				best = trial.Clone()
				bestScore = trialScore
				reward = rewardNewBest
				noImprove = 0
			} else {
				noImprove++
			}
		} else {
			noImprove++
		}
		wMu.Lock()
		w.update(op, reward)
		wMu.Unlock()

		temperature *= cfg.Cooling
	}

	if iter >= cfg.Iterations {
		state = StateConvergedByBudget
	}

	return Result{Best: best, BestScore: bestScore, Iterations: iter, State: state}
}

// parallelDestroyRepair evaluates up to n destroy/repair trial clones of
// current concurrently, each choosing its own operator via the shared
// weights (guarded by mu), and returns every resulting (operator, trial,
// score) triple. Grounded on the teacher's
// internal/common/jobs/worker.go sync.WaitGroup worker-pool idiom; used
// only when cfg.ParallelTrials > 1 (spec.md §5's optional parallel
// evaluation path).
func parallelDestroyRepair(current *model.Solution, n int, rng *rand.Rand, w *weights, mu *sync.Mutex, g *geo.Service, cfg Config) []struct {
	op    int
	trial *model.Solution
	score float64
} {
	results := make([]struct {
		op    int
		trial *model.Solution
		score float64
	}, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		seed := rng.Int63()
		wg.Add(1)
		go func() {
			defer wg.Done()
			localRng := rand.New(rand.NewSource(seed))

			mu.Lock()
			op := w.choose(localRng)
			mu.Unlock()

			q := cfg.MinRemove
			if cfg.MaxRemove > cfg.MinRemove {
				q += localRng.Intn(cfg.MaxRemove - cfg.MinRemove + 1)
			}

			trial := current.Clone()
			removed := destroy(op, trial, q, localRng, g)
			repair(trial, removed, g, cfg.Insertion, cfg.UseRegret2)

			results[i] = struct {
				op    int
				trial *model.Solution
				score float64
			}{op: op, trial: trial, score: score(trial)}
		}()
	}
	wg.Wait()
	return results
}
