// Package config loads solver tuning parameters: viper defaults,
// optionally overridden by a .env file, a config file, and by
// SHUTTLE_-prefixed environment variables, per spec.md §4.5's
// configuration list.
//
// Grounded on the viper defaults/AutomaticEnv pattern used by
// shivamshaw23-Hintro's config.Load, adapted from .env/Postgres/Redis
// settings to ALNS tuning knobs; the godotenv.Load() call is the same
// one cmd/server/main.go makes at process startup.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shuttlefleet/routeopt/internal/alns"
	"github.com/shuttlefleet/routeopt/internal/insertion"
)

// Solver holds every tunable recognised by the optimiser.
type Solver struct {
	Iterations        int     `mapstructure:"ITERATIONS"`
	MinRemove         int     `mapstructure:"MIN_REMOVE"`
	MaxRemove         int     `mapstructure:"MAX_REMOVE"`
	NoImproveStop     int     `mapstructure:"NO_IMPROVE_STOP"`
	T0                float64 `mapstructure:"T0"`
	Cooling           float64 `mapstructure:"COOLING"`
	UseRegret2        bool    `mapstructure:"USE_REGRET2"`
	TwoOptAfterRepair bool    `mapstructure:"APPLY_TWO_OPT_AFTER_REPAIR"`
	ParallelTrials    int     `mapstructure:"PARALLEL_TRIALS"`

	Alpha1             float64 `mapstructure:"ALPHA1"`
	Alpha2             float64 `mapstructure:"ALPHA2"`
	Mu                 float64 `mapstructure:"MU"`
	Lambda             float64 `mapstructure:"LAMBDA"`
	SharingCapsEnabled bool    `mapstructure:"SHARING_CAPS_ENABLED"`

	Seed int64 `mapstructure:"SEED"`
}

// Load reads solver configuration from (in increasing priority)
// built-in defaults, an optional config file at path (ignored if
// empty or missing), and SHUTTLE_-prefixed environment variables.
func Load(path string) (*Solver, error) {
	// Load a .env file into the process environment, if one exists,
	// before viper's AutomaticEnv layer reads it. Mirrors
	// cmd/server/main.go's godotenv.Load() at process startup; a
	// missing .env file is not an error, same as there.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("SHUTTLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := alns.DefaultConfig()
	ins := def.Insertion

	v.SetDefault("ITERATIONS", def.Iterations)
	v.SetDefault("MIN_REMOVE", def.MinRemove)
	v.SetDefault("MAX_REMOVE", def.MaxRemove)
	v.SetDefault("NO_IMPROVE_STOP", def.NoImproveStop)
	v.SetDefault("T0", def.T0)
	v.SetDefault("COOLING", def.Cooling)
	v.SetDefault("USE_REGRET2", def.UseRegret2)
	v.SetDefault("APPLY_TWO_OPT_AFTER_REPAIR", def.TwoOptAfterRepair)
	v.SetDefault("PARALLEL_TRIALS", def.ParallelTrials)
	v.SetDefault("ALPHA1", ins.Alpha1)
	v.SetDefault("ALPHA2", ins.Alpha2)
	v.SetDefault("MU", ins.Mu)
	v.SetDefault("LAMBDA", ins.Lambda)
	v.SetDefault("SHARING_CAPS_ENABLED", ins.SharingCapsEnabled)
	// SEED has no built-in default: a zero Solver.Seed means "not set by
	// config file or environment," and callers (cmd/router, cmd/routerapi)
	// fall back to time.Now().UnixNano() read once at process startup,
	// never inside the solver, per spec.md's process-wide RNG seed.
	// Without a default the key is unknown to viper, so it is bound to
	// SHUTTLE_SEED explicitly for Unmarshal to see it.
	_ = v.BindEnv("SEED")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	cfg := &Solver{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ALNSConfig projects Solver onto the alns.Config the optimiser expects.
func (s *Solver) ALNSConfig() alns.Config {
	return alns.Config{
		Iterations:        s.Iterations,
		MinRemove:         s.MinRemove,
		MaxRemove:         s.MaxRemove,
		NoImproveStop:     s.NoImproveStop,
		T0:                s.T0,
		Cooling:           s.Cooling,
		UseRegret2:        s.UseRegret2,
		TwoOptAfterRepair: s.TwoOptAfterRepair,
		ParallelTrials:    s.ParallelTrials,
		Insertion:         s.InsertionParams(),
	}
}

// InsertionParams projects Solver onto the insertion.Params the
// constructor and repair operators expect.
func (s *Solver) InsertionParams() insertion.Params {
	return insertion.Params{
		Alpha1:             s.Alpha1,
		Alpha2:             s.Alpha2,
		Mu:                 s.Mu,
		Lambda:             s.Lambda,
		SharingCapsEnabled: s.SharingCapsEnabled,
	}
}
