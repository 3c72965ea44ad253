package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kernel-sim/kernel-sim/sim/hw"
	"github.com/kernel-sim/kernel-sim/sim/trace"
)

// SimConfig groups everything needed to build a Simulation.
type SimConfig struct {
	Machine   hw.MachineConfig  `yaml:"machine"`
	Scheduler SchedulerConfig   `yaml:"scheduler"`
	Trace     trace.TraceConfig `yaml:"trace"`
	Horizon   int64             `yaml:"horizon"` // max ticks to simulate, 0 = until idle
}

// DefaultSimConfig returns the configuration of the reference machine:
// 32 memory cells in frames of 4, a printer taking 3 ticks per operation,
// FCFS scheduling.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Machine: hw.MachineConfig{
			MemorySize: 32,
			FrameSize:  4,
			IOLatency:  3,
			DeviceID:   "Printer",
		},
		Scheduler: SchedulerConfig{
			Name:          "fcfs",
			Quantum:       DefaultQuantum,
			AgingInterval: DefaultAgingInterval,
		},
		Trace: trace.TraceConfig{Level: trace.TraceLevelNone},
	}
}

// LoadSimConfig reads a YAML configuration file. Fields missing from the
// file keep their DefaultSimConfig values; unknown fields are errors.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sim config: %w", err)
	}
	cfg := DefaultSimConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing sim config: %w", err)
	}
	return &cfg, nil
}

// Validate checks sizes, policy names and parameter ranges.
func (c *SimConfig) Validate() error {
	m := c.Machine
	if m.MemorySize <= 0 {
		return fmt.Errorf("memory_size must be > 0, got %d", m.MemorySize)
	}
	if m.FrameSize <= 0 {
		return fmt.Errorf("frame_size must be > 0, got %d", m.FrameSize)
	}
	if m.FrameSize > m.MemorySize {
		return fmt.Errorf("frame_size %d larger than memory_size %d", m.FrameSize, m.MemorySize)
	}
	if m.IOLatency < 1 {
		return fmt.Errorf("io_latency must be >= 1, got %d", m.IOLatency)
	}
	if !IsValidScheduler(c.Scheduler.Name) {
		return fmt.Errorf("unknown scheduler %q", c.Scheduler.Name)
	}
	if c.Scheduler.Quantum < 0 {
		return fmt.Errorf("quantum must be non-negative, got %d", c.Scheduler.Quantum)
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("unknown trace level %q", c.Trace.Level)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", c.Horizon)
	}
	return nil
}
