package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kernel-sim/kernel-sim/sim/hw"
)

// newTestKernel boots a kernel on a fresh machine.
func newTestKernel(t *testing.T, machineCfg hw.MachineConfig, schedulerCfg SchedulerConfig) (*Kernel, *hw.Machine) {
	t.Helper()
	if machineCfg.IOLatency == 0 {
		machineCfg.IOLatency = 3
	}
	m := hw.NewMachine(machineCfg)
	return NewKernel(m, NewScheduler(schedulerCfg)), m
}

// runUntilIdle ticks the clock until the kernel is idle and returns the
// number of ticks executed. Fails the test past 1000 ticks.
func runUntilIdle(t *testing.T, k *Kernel, m *hw.Machine) int64 {
	t.Helper()
	ticks, err := m.Clock.Run(context.Background(), 1000, k.Idle)
	require.NoError(t, err)
	require.True(t, k.Idle(), "kernel did not go idle within the horizon")
	return ticks
}

// readyPCB builds a PCB already moved to READY.
func readyPCB(pid, priority int) *PCB {
	p := newPCB(pid, "", priority, nil)
	p.transition(StateReady)
	return p
}

// mustGet fetches pid from the kernel's table.
func mustGet(t *testing.T, k *Kernel, pid int) *PCB {
	t.Helper()
	pcb, ok := k.PCBTable().Get(pid)
	require.True(t, ok, "pid %d not in table", pid)
	return pcb
}
