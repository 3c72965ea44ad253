package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	sim "github.com/kernel-sim/kernel-sim/sim"
)

// resolveWorkload loads the workload at path, or the built-in demo when path
// is empty.
func resolveWorkload(path string) (*sim.WorkloadSpec, error) {
	if path == "" {
		logrus.Infof("Using built-in demo workload")
		return sim.DefaultWorkload(), nil
	}
	w, err := sim.LoadWorkload(path)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded workload %s: %d programs, %d runs, %d jobs",
		path, len(w.Programs), len(w.Runs), len(w.Jobs))
	return w, nil
}

// selectWorkload generates a random workload when generate > 0, otherwise
// resolves path.
func selectWorkload(path string, generate int, seed int64) (*sim.WorkloadSpec, error) {
	if generate <= 0 {
		return resolveWorkload(path)
	}
	if path != "" {
		return nil, fmt.Errorf("--generate and --workload are mutually exclusive")
	}
	cfg := sim.DefaultGeneratorConfig()
	cfg.Programs = generate
	cfg.Seed = seed
	return sim.GenerateWorkload(cfg)
}
