// Package config loads reasoner.Config from YAML, the way a long-running
// psl-go deployment would rather than hand-building the struct in Go.
// Decoding goes through mapstructure so InitialValue can supply its own
// DecodeHookFunc for the ZERO/RANDOM/ATOM strings, on top of an initial
// yaml.Unmarshal into a generic map.
package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/linqs/psl-go/reasoner"
)

// file mirrors the admm.* / parallel.* keys of the on-disk YAML format.
// Every field is a pointer so an absent key leaves the corresponding
// reasoner.DefaultConfig() field untouched.
type file struct {
	ADMM struct {
		MaxIterations         *int                   `mapstructure:"maxiterations"`
		StepSize              *float32               `mapstructure:"stepsize"`
		EpsilonAbs            *float32               `mapstructure:"epsilonabs"`
		EpsilonRel            *float32               `mapstructure:"epsilonrel"`
		ComputePeriod         *int                   `mapstructure:"computeperiod"`
		ObjectiveBreak        *bool                  `mapstructure:"objectivebreak"`
		InitialConsensusValue *reasoner.InitialValue `mapstructure:"initialconsensusvalue"`
		InitialLocalValue     *reasoner.InitialValue `mapstructure:"initiallocalvalue"`
		Seed                  *int64                 `mapstructure:"seed"`
	} `mapstructure:"admm"`
	Parallel struct {
		NumThreads *int `mapstructure:"numthreads"`
	} `mapstructure:"parallel"`
}

// initialValueHookFunc decodes the ZERO/RANDOM/ATOM config strings into
// reasoner.InitialValue, special-casing that one target type inside an
// otherwise generic mapstructure decode.
func initialValueHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(reasoner.Zero) {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		v, ok := reasoner.ParseInitialValue(s)
		if !ok {
			return nil, fmt.Errorf("unknown initial value %q", s)
		}
		return v, nil
	}
}

// Load reads path as YAML and applies it on top of reasoner.DefaultConfig().
// Unset keys keep their default; unknown keys are an error.
func Load(path string) (reasoner.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reasoner.Config{}, fmt.Errorf("config: could not read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode is Load without the filesystem dependency, split out for tests.
func Decode(data []byte) (reasoner.Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return reasoner.Config{}, fmt.Errorf("config: invalid yaml: %w", err)
	}

	var f file
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       initialValueHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &f,
	})
	if err != nil {
		return reasoner.Config{}, fmt.Errorf("config: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return reasoner.Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := reasoner.DefaultConfig()
	if f.ADMM.MaxIterations != nil {
		cfg.MaxIterations = *f.ADMM.MaxIterations
	}
	if f.ADMM.StepSize != nil {
		cfg.StepSize = *f.ADMM.StepSize
	}
	if f.ADMM.EpsilonAbs != nil {
		cfg.EpsilonAbs = *f.ADMM.EpsilonAbs
	}
	if f.ADMM.EpsilonRel != nil {
		cfg.EpsilonRel = *f.ADMM.EpsilonRel
	}
	if f.ADMM.ComputePeriod != nil {
		cfg.ComputePeriod = *f.ADMM.ComputePeriod
	}
	if f.ADMM.ObjectiveBreak != nil {
		cfg.ObjectiveBreak = *f.ADMM.ObjectiveBreak
	}
	if f.ADMM.InitialConsensusValue != nil {
		cfg.InitialConsensusValue = *f.ADMM.InitialConsensusValue
	}
	if f.ADMM.InitialLocalValue != nil {
		cfg.InitialLocalValue = *f.ADMM.InitialLocalValue
	}
	if f.ADMM.Seed != nil {
		cfg.Seed = *f.ADMM.Seed
	}
	if f.Parallel.NumThreads != nil {
		cfg.NumThreads = *f.Parallel.NumThreads
	}

	if err := cfg.Validate(); err != nil {
		return reasoner.Config{}, err
	}

	return cfg, nil
}
