package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kernel-sim/kernel-sim/sim/hw"
)

// WorkloadSpec declares the programs written to the file store, the
// admissions requested before the clock starts and the scheduled jobs.
type WorkloadSpec struct {
	Programs []ProgramSpec `yaml:"programs"`
	Runs     []RunSpec     `yaml:"runs"`
	Jobs     []JobSpec     `yaml:"jobs"`
}

// ProgramSpec is a program stored under Path.
type ProgramSpec struct {
	Path         string            `yaml:"path"`
	Instructions []InstructionSpec `yaml:"instructions"`
}

// InstructionSpec is one group of instructions; exactly one field is set.
//
//	- cpu: 3   # three CPU instructions
//	- io: 1    # one I/O instruction
//	- exit: true
type InstructionSpec struct {
	CPU  int  `yaml:"cpu,omitempty"`
	IO   int  `yaml:"io,omitempty"`
	Exit bool `yaml:"exit,omitempty"`
}

// RunSpec is an admission requested before the clock starts.
type RunSpec struct {
	Path     string `yaml:"path"`
	Priority int    `yaml:"priority"`
}

// JobSpec is an admission deferred to Tick.
type JobSpec struct {
	Tick     int64  `yaml:"tick"`
	Path     string `yaml:"path"`
	Priority int    `yaml:"priority"`
}

// LoadWorkload reads and strictly parses a YAML workload file.
func LoadWorkload(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload: %w", err)
	}
	return &spec, nil
}

// Validate checks that every entry is well formed. Runs and jobs may name
// paths with no program: such admissions are rejected at load time.
func (w *WorkloadSpec) Validate() error {
	seen := make(map[string]bool)
	for i, p := range w.Programs {
		if p.Path == "" {
			return fmt.Errorf("programs[%d]: empty path", i)
		}
		if seen[p.Path] {
			return fmt.Errorf("programs[%d]: duplicate path %q", i, p.Path)
		}
		seen[p.Path] = true
		for j, instr := range p.Instructions {
			if err := instr.validate(); err != nil {
				return fmt.Errorf("programs[%d] (%s) instructions[%d]: %w", i, p.Path, j, err)
			}
		}
	}
	for i, r := range w.Runs {
		if r.Path == "" {
			return fmt.Errorf("runs[%d]: empty path", i)
		}
	}
	for i, j := range w.Jobs {
		if j.Path == "" {
			return fmt.Errorf("jobs[%d]: empty path", i)
		}
		if j.Tick < 0 {
			return fmt.Errorf("jobs[%d]: tick must be non-negative, got %d", i, j.Tick)
		}
	}
	return nil
}

func (s InstructionSpec) validate() error {
	set := 0
	if s.CPU != 0 {
		set++
	}
	if s.IO != 0 {
		set++
	}
	if s.Exit {
		set++
	}
	switch {
	case set != 1:
		return fmt.Errorf("exactly one of cpu, io, exit must be set")
	case s.CPU < 0:
		return fmt.Errorf("cpu must be positive, got %d", s.CPU)
	case s.IO < 0:
		return fmt.Errorf("io must be positive, got %d", s.IO)
	}
	return nil
}

// Program assembles the declared instruction groups.
func (p ProgramSpec) Program() *Program {
	groups := make([][]hw.Instruction, 0, len(p.Instructions))
	for _, s := range p.Instructions {
		switch {
		case s.CPU > 0:
			groups = append(groups, hw.Burst(s.CPU))
		case s.IO > 0:
			for n := 0; n < s.IO; n++ {
				groups = append(groups, hw.IO())
			}
		case s.Exit:
			groups = append(groups, hw.Exit())
		}
	}
	return NewProgram(groups...)
}

// Apply installs the programs, requests the runs and schedules the jobs.
func (w *WorkloadSpec) Apply(s *Simulation) error {
	for _, p := range w.Programs {
		s.Install(p.Path, p.Program())
	}
	for _, r := range w.Runs {
		s.Run(r.Path, r.Priority)
	}
	for _, j := range w.Jobs {
		if err := s.Schedule(j.Tick, j.Path, j.Priority); err != nil {
			return err
		}
	}
	return nil
}

// DefaultWorkload is the demo used when no workload file is given: three
// programs mixing CPU bursts and I/O, plus a late arrival.
func DefaultWorkload() *WorkloadSpec {
	return &WorkloadSpec{
		Programs: []ProgramSpec{
			{Path: "C:/prg1.exe", Instructions: []InstructionSpec{{CPU: 2}, {IO: 1}, {CPU: 3}, {IO: 1}, {CPU: 2}}},
			{Path: "C:/prg2.exe", Instructions: []InstructionSpec{{CPU: 7}}},
			{Path: "C:/prg3.exe", Instructions: []InstructionSpec{{CPU: 4}, {IO: 1}, {CPU: 1}}},
			{Path: "C:/prg4.exe", Instructions: []InstructionSpec{{CPU: 3}}},
		},
		Runs: []RunSpec{
			{Path: "C:/prg1.exe", Priority: 0},
			{Path: "C:/prg2.exe", Priority: 2},
			{Path: "C:/prg3.exe", Priority: 1},
		},
		Jobs: []JobSpec{
			{Tick: 13, Path: "C:/prg4.exe", Priority: 4},
		},
	}
}
