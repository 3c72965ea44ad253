package sim

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kernel-sim/kernel-sim/sim/hw"
	"github.com/kernel-sim/kernel-sim/sim/trace"
)

// Simulation is the top-level driver: it owns one machine and the kernel
// booted on it, and runs the clock until the kernel goes idle.
type Simulation struct {
	Config  SimConfig
	Machine *hw.Machine
	Kernel  *Kernel
	Gantt   *trace.Gantt // nil unless tracing is enabled
}

// NewSimulation builds the machine and boots the kernel. The Gantt chart, if
// enabled, is written to traceOut (stdout when nil). Panics on invalid
// configuration; call Validate first.
func NewSimulation(cfg SimConfig, traceOut io.Writer) *Simulation {
	machine := hw.NewMachine(cfg.Machine)
	kernel := NewKernel(machine, NewScheduler(cfg.Scheduler))
	s := &Simulation{Config: cfg, Machine: machine, Kernel: kernel}
	if cfg.Trace.Enabled() {
		if traceOut == nil {
			traceOut = os.Stdout
		}
		s.Gantt = trace.NewGantt(traceOut, cfg.Trace.NoColor)
		s.Gantt.RenderWhen(kernel.Idle)
		kernel.SetTracer(s.Gantt)
	}
	return s
}

// Install writes program to the file store under path.
func (s *Simulation) Install(path string, program *Program) {
	s.Kernel.FileStore().Write(path, program)
}

// Run requests the admission of path right away.
func (s *Simulation) Run(path string, priority int) {
	s.Kernel.Run(path, priority)
}

// Schedule defers the admission of path to tick.
func (s *Simulation) Schedule(tick int64, path string, priority int) error {
	return s.Kernel.Crontab().AddJob(tick, path, priority)
}

// Start runs the clock until the kernel is idle, the horizon is reached or
// ctx is done. It returns the number of ticks simulated.
func (s *Simulation) Start(ctx context.Context) (int64, error) {
	logrus.Infof("Starting simulation: %v", s.Machine)
	ticks, err := s.Machine.Clock.Run(ctx, s.Config.Horizon, s.Kernel.Idle)
	s.Kernel.Metrics().Ticks = s.Machine.Clock.CurrentTick()
	if s.Gantt != nil && !s.Gantt.Rendered() && len(s.Gantt.Records()) > 0 {
		s.Gantt.Render()
	}
	logrus.Infof("[tick %07d] Simulation ended", s.Machine.Clock.CurrentTick())
	return ticks, err
}
