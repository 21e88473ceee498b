// Package alns implements the Adaptive Large Neighbourhood Search
// improver of spec.md §4.5: iterated ruin-and-recreate over the
// constructor's initial solution, with adaptive destroy-operator
// weights and simulated-annealing acceptance.
//
// The acceptance rule and geometric cooling are grounded directly on the
// teacher's internal/common/fleet/route_optimizer.go
// simulatedAnnealingOptimization (identical
// "rand.Float64() < math.Exp(-(Δ)/T)" + "T *= coolingRate" shape).
package alns

import "github.com/shuttlefleet/routeopt/internal/insertion"

// Config holds every ALNS parameter spec.md §4.5 recognises, with its
// documented defaults.
type Config struct {
	Iterations      int
	MinRemove       int
	MaxRemove       int
	NoImproveStop   int
	T0              float64
	Cooling         float64
	UseRegret2      bool
	TwoOptAfterRepair bool // recognised, reserved extension point (no-op)

	ParallelTrials int // 0 or 1: sequential; >1: evaluate that many destroy candidates concurrently

	Insertion insertion.Params
}

// DefaultConfig returns spec.md §4.5's documented defaults.
func DefaultConfig() Config {
	return Config{
		Iterations:    2000,
		MinRemove:     3,
		MaxRemove:     12,
		NoImproveStop: 400,
		T0:            500.0,
		Cooling:       0.999,
		UseRegret2:    true,
		Insertion:     insertion.DefaultParams(),
	}
}

// RunState is the per-run state machine of spec.md §4.5.
type RunState string

const (
	StateRunning             RunState = "Running"
	StateConvergedByBudget   RunState = "ConvergedByBudget"
	StateConvergedByStagnation RunState = "ConvergedByStagnation"
)

// IterationState is the per-iteration state machine of spec.md §4.5.
type IterationState string

const (
	StateDestroyed IterationState = "Destroyed"
	StateRepaired  IterationState = "Repaired"
	StateScored    IterationState = "Scored"
	StateAccepted  IterationState = "Accepted"
	StateRejected  IterationState = "Rejected"
)
