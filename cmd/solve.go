package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linqs/psl-go/format"
	"github.com/linqs/psl-go/internal/config"
	"github.com/linqs/psl-go/reasoner"
)

type solveOptions struct {
	configPath string
	metrics    bool
}

func newSolveCommand(logger *logrus.Logger) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve [term file]",
		Short: "Optimize the ground terms in a term file, printing the converged atom values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd.Context(), logger, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file (defaults to reasoner.DefaultConfig())")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "log the final Prometheus gauge values before exiting")

	return cmd
}

func runSolve(ctx context.Context, logger *logrus.Logger, opts *solveOptions, path string) error {
	cfg := reasoner.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()

	specs, numGlobals, err := format.ParseTerms(f)
	if err != nil {
		return fmt.Errorf("could not parse %q: %w", path, err)
	}
	if len(specs) == 0 {
		return fmt.Errorf("%q has no terms", path)
	}

	atoms := reasoner.NewMapAtomStore()
	store := reasoner.NewTermStore(numGlobals, atoms)
	for i, spec := range specs {
		if _, err := store.Add(spec); err != nil {
			return fmt.Errorf("term %d: %w", i, err)
		}
	}

	r, err := reasoner.New(cfg, logger)
	if err != nil {
		return err
	}

	var registry *prometheus.Registry
	if opts.metrics {
		registry = prometheus.NewRegistry()
		r.SetMetrics(reasoner.NewMetrics(registry))
	}

	result, err := r.Optimize(ctx, store)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"iterations": result.Iterations,
		"objective":  result.Objective,
		"converged":  result.Converged,
		"violated":   result.ViolatedConstraints,
	}).Info("solve complete")

	if registry != nil {
		families, err := registry.Gather()
		if err != nil {
			return fmt.Errorf("could not gather metrics: %w", err)
		}
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				logger.WithField(mf.GetName(), m.GetGauge().GetValue()).Info("metric")
			}
		}
	}

	globals := make([]int, numGlobals)
	for g := range globals {
		globals[g] = g
	}
	sort.Ints(globals)
	for _, g := range globals {
		fmt.Printf("%d: %.6f\n", g, atoms.AtomValue(g))
	}

	return nil
}
