package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// GeneratorConfig parameterizes GenerateWorkload.
type GeneratorConfig struct {
	Seed          int64   `yaml:"seed"`
	Programs      int     `yaml:"programs"`       // number of programs to generate
	MaxBursts     int     `yaml:"max_bursts"`     // CPU bursts per program, drawn in [1, MaxBursts]
	MaxBurstLen   int     `yaml:"max_burst_len"`  // instructions per CPU burst, drawn in [1, MaxBurstLen]
	IOProbability float64 `yaml:"io_probability"` // chance of an I/O instruction between bursts
	MaxPriority   int     `yaml:"max_priority"`   // priorities drawn in [0, MaxPriority]
	ArrivalSpread int64   `yaml:"arrival_spread"` // arrivals drawn in [0, ArrivalSpread); 0 admits all at once
}

// DefaultGeneratorConfig returns a small mixed CPU/I/O workload.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:          42,
		Programs:      5,
		MaxBursts:     3,
		MaxBurstLen:   4,
		IOProbability: 0.5,
		MaxPriority:   4,
		ArrivalSpread: 10,
	}
}

// Validate checks parameter ranges.
func (c GeneratorConfig) Validate() error {
	switch {
	case c.Programs <= 0:
		return fmt.Errorf("programs must be > 0, got %d", c.Programs)
	case c.MaxBursts <= 0:
		return fmt.Errorf("max_bursts must be > 0, got %d", c.MaxBursts)
	case c.MaxBurstLen <= 0:
		return fmt.Errorf("max_burst_len must be > 0, got %d", c.MaxBurstLen)
	case c.IOProbability < 0 || c.IOProbability > 1:
		return fmt.Errorf("io_probability must be in [0, 1], got %g", c.IOProbability)
	case c.MaxPriority < 0:
		return fmt.Errorf("max_priority must be non-negative, got %d", c.MaxPriority)
	case c.ArrivalSpread < 0:
		return fmt.Errorf("arrival_spread must be non-negative, got %d", c.ArrivalSpread)
	}
	return nil
}

// GenerateWorkload builds a random workload. Deterministic given the same
// config. Programs arriving at tick 0 become runs; the rest become jobs.
func GenerateWorkload(cfg GeneratorConfig) (*WorkloadSpec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	programs := rng.ForSubsystem(SubsystemPrograms)
	priorities := rng.ForSubsystem(SubsystemPriorities)
	arrivals := rng.ForSubsystem(SubsystemArrivals)

	spec := &WorkloadSpec{}
	for i := 0; i < cfg.Programs; i++ {
		path := fmt.Sprintf("C:/gen%d.exe", i)
		bursts := 1 + programs.Intn(cfg.MaxBursts)
		var instructions []InstructionSpec
		for b := 0; b < bursts; b++ {
			if b > 0 && programs.Float64() < cfg.IOProbability {
				instructions = append(instructions, InstructionSpec{IO: 1})
			}
			instructions = append(instructions, InstructionSpec{CPU: 1 + programs.Intn(cfg.MaxBurstLen)})
		}
		spec.Programs = append(spec.Programs, ProgramSpec{Path: path, Instructions: instructions})

		priority := priorities.Intn(cfg.MaxPriority + 1)
		var tick int64
		if cfg.ArrivalSpread > 0 {
			tick = arrivals.Int63n(cfg.ArrivalSpread)
		}
		if tick == 0 {
			spec.Runs = append(spec.Runs, RunSpec{Path: path, Priority: priority})
		} else {
			spec.Jobs = append(spec.Jobs, JobSpec{Tick: tick, Path: path, Priority: priority})
		}
	}
	logrus.Infof("Generated workload (seed %d): %d programs, %d runs, %d jobs",
		cfg.Seed, len(spec.Programs), len(spec.Runs), len(spec.Jobs))
	return spec, nil
}
