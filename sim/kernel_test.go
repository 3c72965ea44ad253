package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernel-sim/kernel-sim/sim/hw"
	"github.com/kernel-sim/kernel-sim/sim/trace"
)

var smallMachine = hw.MachineConfig{MemorySize: 32, FrameSize: 4, IOLatency: 3}

func TestKernel_FCFS_CompletesInArrivalOrder(t *testing.T) {
	// GIVEN FCFS and three programs of 2, 1 and 1 instructions admitted in order
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/p1.exe", NewProgram(hw.Burst(2)))
	k.FileStore().Write("C:/p2.exe", NewProgram(hw.Burst(1)))
	k.FileStore().Write("C:/p3.exe", NewProgram(hw.Burst(1)))
	k.Run("C:/p1.exe", 0)
	k.Run("C:/p2.exe", 0)
	k.Run("C:/p3.exe", 0)

	// WHEN the clock runs until the kernel is idle
	ticks := runUntilIdle(t, k, m)

	// THEN the run took 4 ticks and finished P1, P2, P3 in that order
	assert.Equal(t, int64(4), ticks)
	assert.Equal(t, int64(1), mustGet(t, k, 0).FinishedAt)
	assert.Equal(t, int64(2), mustGet(t, k, 1).FinishedAt)
	assert.Equal(t, int64(3), mustGet(t, k, 2).FinishedAt)
	assert.True(t, k.PCBTable().AllTerminated())

	// AND nothing was preempted
	assert.Equal(t, 0, k.Metrics().AdmissionPreemptions+k.Metrics().TimeoutPreemptions)
	assert.Equal(t, 3, k.Metrics().ContextSwitches)
}

func TestKernel_Admission_FirstRunsOthersReady(t *testing.T) {
	k, _ := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/a.exe", NewProgram(hw.Burst(3)))
	k.Run("C:/a.exe", 0)
	k.Run("C:/a.exe", 0)

	running := k.RunningPCB()
	require.NotNil(t, running)
	assert.Equal(t, 0, running.PID)
	assert.Equal(t, StateRunning, running.State())
	assert.Equal(t, StateReady, mustGet(t, k, 1).State())
	assert.False(t, k.Scheduler().IsEmpty())
	assert.Equal(t, 2, k.MemoryManager().UsedFrameCount())
}

func TestKernel_PriorityPreemptive_ArrivalPreemptsRunning(t *testing.T) {
	// GIVEN P1 with priority 5 running for two ticks
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "priority-preemptive"})
	k.FileStore().Write("C:/p1.exe", NewProgram(hw.Burst(6)))
	k.FileStore().Write("C:/p2.exe", NewProgram(hw.Burst(2)))
	k.Run("C:/p1.exe", 5)
	m.Clock.Tick()
	m.Clock.Tick()

	// WHEN P2 with priority 1 is admitted
	k.Run("C:/p2.exe", 1)

	// THEN P1 is READY with its pc saved and P2 is RUNNING
	p1, p2 := mustGet(t, k, 0), mustGet(t, k, 1)
	assert.Equal(t, StateReady, p1.State())
	assert.Equal(t, 2, p1.PC)
	assert.Equal(t, StateRunning, p2.State())
	assert.Same(t, p2, k.RunningPCB())
	assert.Equal(t, 0, m.CPU.PC())
	assert.Equal(t, 1, k.Metrics().AdmissionPreemptions)

	// AND P1 resumes where it stopped once P2 is done
	runUntilIdle(t, k, m)
	assert.Less(t, p2.FinishedAt, p1.FinishedAt)
	assert.Equal(t, int64(7), p1.FinishedAt, "2 + 2 + 4 instructions, last one on tick 7")
}

func TestKernel_PriorityNonPreemptive_ArrivalWaits(t *testing.T) {
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "priority"})
	k.FileStore().Write("C:/p1.exe", NewProgram(hw.Burst(3)))
	k.FileStore().Write("C:/p2.exe", NewProgram(hw.Burst(1)))
	k.Run("C:/p1.exe", 5)
	m.Clock.Tick()

	k.Run("C:/p2.exe", 1)

	assert.Equal(t, 0, k.RunningPCB().PID)
	assert.Equal(t, StateReady, mustGet(t, k, 1).State())
	assert.Equal(t, 0, k.Metrics().AdmissionPreemptions)
}

func TestKernel_PriorityNonPreemptive_RunsMostUrgentNext(t *testing.T) {
	// GIVEN a running process and three waiting ones of priority 4, 0, 2
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "priority", AgingInterval: -1})
	k.FileStore().Write("C:/x.exe", NewProgram(hw.Burst(1)))
	k.Run("C:/x.exe", 9)
	k.Run("C:/x.exe", 4)
	k.Run("C:/x.exe", 0)
	k.Run("C:/x.exe", 2)

	runUntilIdle(t, k, m)

	// THEN they finish by priority after the first
	finish := func(pid int) int64 { return mustGet(t, k, pid).FinishedAt }
	assert.Equal(t, []int64{0, 3, 1, 2}, []int64{finish(0), finish(1), finish(2), finish(3)})
}

func TestKernel_RoundRobin_PreemptsAfterExactlyQuantum(t *testing.T) {
	// GIVEN round-robin with quantum 2 and two 5-instruction programs
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "round-robin", Quantum: 2})
	k.FileStore().Write("C:/a.exe", NewProgram(hw.Burst(5)))
	k.FileStore().Write("C:/b.exe", NewProgram(hw.Burst(5)))
	k.Run("C:/a.exe", 0)
	k.Run("C:/b.exe", 0)

	// WHEN two ticks pass
	m.Clock.Tick()
	m.Clock.Tick()
	// THEN A still runs
	assert.Equal(t, 0, k.RunningPCB().PID)

	// WHEN the third tick starts
	m.Clock.Tick()

	// THEN A was preempted with pc 2 and B executed its first instruction
	a := mustGet(t, k, 0)
	assert.Equal(t, StateReady, a.State())
	assert.Equal(t, 2, a.PC)
	assert.Equal(t, 1, k.RunningPCB().PID)
	assert.Equal(t, 1, m.CPU.PC())

	// AND the whole run has no idle tick
	ticks := runUntilIdle(t, k, m)
	assert.Equal(t, int64(10), 3+ticks)
	assert.Equal(t, 4, k.Metrics().TimeoutPreemptions)
}

func TestKernel_RoundRobin_TimeoutWithEmptyReadySetKeepsRunning(t *testing.T) {
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "round-robin", Quantum: 1})
	k.FileStore().Write("C:/solo.exe", NewProgram(hw.Burst(4)))
	k.Run("C:/solo.exe", 0)

	ticks := runUntilIdle(t, k, m)

	assert.Equal(t, int64(4), ticks)
	assert.Equal(t, 0, k.Metrics().TimeoutPreemptions)
	assert.Equal(t, 1, k.Metrics().ContextSwitches)
}

func TestKernel_IO_CompletesInRequestOrder(t *testing.T) {
	// GIVEN three programs that start with an I/O instruction
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/io.exe", NewProgram(hw.IO(), hw.Burst(1)))
	k.Run("C:/io.exe", 0)
	k.Run("C:/io.exe", 0)
	k.Run("C:/io.exe", 0)

	// WHEN four ticks pass
	for i := 0; i < 4; i++ {
		m.Clock.Tick()
	}

	// THEN A finished its I/O first while B waits for the device
	assert.Equal(t, StateTerminated, mustGet(t, k, 0).State())
	assert.Same(t, mustGet(t, k, 1), k.IOController().Current())
	assert.Equal(t, 1, k.IOController().WaitingLen())
	assert.Equal(t, StateWaiting, mustGet(t, k, 2).State())

	// AND the rest complete in the order the requests were issued
	runUntilIdle(t, k, m)
	assert.Equal(t, int64(3), mustGet(t, k, 0).FinishedAt)
	assert.Equal(t, int64(6), mustGet(t, k, 1).FinishedAt)
	assert.Equal(t, int64(9), mustGet(t, k, 2).FinishedAt)
	assert.Equal(t, 3, k.Metrics().IOOperations)

	// AND C spent ticks 2 to 8 waiting behind A and B
	assert.Equal(t, int64(7), mustGet(t, k, 2).IOTicks)
	assert.Equal(t, int64(1), mustGet(t, k, 2).ReadyTicks)
}

func TestKernel_Kill_ReleasesFrames(t *testing.T) {
	// GIVEN memory 20 with frames of 4 and a 9-instruction program
	k, m := newTestKernel(t, hw.MachineConfig{MemorySize: 20, FrameSize: 4}, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/nine.exe", NewProgram(hw.Burst(8)))
	k.Run("C:/nine.exe", 0)
	assert.Equal(t, 2, k.MemoryManager().FreeFrameCount())

	// WHEN it runs to completion
	runUntilIdle(t, k, m)

	// THEN every frame is back in the pool
	assert.Equal(t, 5, k.MemoryManager().FreeFrameCount())
	assert.Equal(t, StateTerminated, mustGet(t, k, 0).State())
	assert.Nil(t, k.RunningPCB())
	assert.False(t, m.CPU.IsBusy())
}

func TestKernel_Admission_RejectedWhenMemoryFull(t *testing.T) {
	// GIVEN the paging scenario: 5 frames, a 3-page program resident
	k, _ := newTestKernel(t, hw.MachineConfig{MemorySize: 20, FrameSize: 4}, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/nine.exe", NewProgram(hw.Burst(8)))
	k.Run("C:/nine.exe", 0)

	// WHEN a second 3-page program and an unknown path are requested
	k.Run("C:/nine.exe", 0)
	k.Run("C:/missing.exe", 0)

	// THEN both are dropped without a PCB
	assert.Equal(t, 1, k.PCBTable().Len())
	assert.Equal(t, 1, k.Metrics().Admitted)
	assert.Equal(t, 2, k.Metrics().Rejected)
	assert.Equal(t, 2, k.MemoryManager().FreeFrameCount())
}

func TestKernel_Crontab_AdmitsAtScheduledTick(t *testing.T) {
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/late.exe", NewProgram(hw.Burst(2)))
	require.NoError(t, k.Crontab().AddJob(3, "C:/late.exe", 0))
	assert.False(t, k.Idle(), "a pending job keeps the kernel busy")

	ticks := runUntilIdle(t, k, m)

	p := mustGet(t, k, 0)
	assert.Equal(t, int64(3), p.AdmittedAt)
	assert.Equal(t, int64(5), p.FinishedAt)
	assert.Equal(t, int64(6), ticks)
}

func TestKernel_ContractViolations_Panic(t *testing.T) {
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	require.Nil(t, k.RunningPCB())

	assert.PanicsWithValue(t, "Kernel: #KILL interrupt with no running process", func() {
		m.Vector.Handle(hw.IRQ{Kind: hw.KindKill})
	})
	assert.PanicsWithValue(t, "Kernel: #TIMEOUT interrupt with no running process", func() {
		m.Vector.Handle(hw.IRQ{Kind: hw.KindTimeout})
	})
	assert.PanicsWithValue(t, "Kernel: #IO_IN interrupt with no running process", func() {
		m.Vector.Handle(hw.IRQ{Kind: hw.KindIOIn, Payload: hw.InstrIO})
	})
	assert.PanicsWithValue(t, "IO_OUT handler: no operation was in service", func() {
		m.Vector.Handle(hw.IRQ{Kind: hw.KindIOOut, Payload: hw.InstrIO})
	})
}

func TestKernel_Stat_AccountsReadyAndWaitingTicks(t *testing.T) {
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/a.exe", NewProgram(hw.Burst(3)))
	k.Run("C:/a.exe", 0)
	k.Run("C:/a.exe", 0)

	m.Clock.Tick()
	m.Clock.Tick()

	assert.Equal(t, int64(2), mustGet(t, k, 1).ReadyTicks)
	assert.Equal(t, int64(0), mustGet(t, k, 0).ReadyTicks)
}

type recordingTracer struct {
	ticks []int64
	last  []trace.ProcessState
}

func (r *recordingTracer) CheckTick(tick int64, states []trace.ProcessState) {
	r.ticks = append(r.ticks, tick)
	r.last = states
}

func TestKernel_Tracer_ReceivesOneSnapshotPerTick(t *testing.T) {
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	tracer := &recordingTracer{}
	k.SetTracer(tracer)
	k.FileStore().Write("C:/a.exe", NewProgram(hw.Burst(2)))
	k.Run("C:/a.exe", 0)

	runUntilIdle(t, k, m)

	assert.Equal(t, []int64{0, 1}, tracer.ticks)
	assert.Equal(t, []trace.ProcessState{{PID: 0, Path: "C:/a.exe", State: "TERMINATED"}}, tracer.last)
}

func TestNewKernel_EnablesStatsSoPriorityAgingRuns(t *testing.T) {
	// GIVEN a kernel booted on a machine built without stats
	m := hw.NewMachine(smallMachine)
	k := NewKernel(m, NewScheduler(SchedulerConfig{Name: "priority", AgingInterval: 1}))
	k.FileStore().Write("C:/long.exe", NewProgram(hw.Burst(10)))
	k.FileStore().Write("C:/low.exe", NewProgram(hw.Burst(1)))
	k.Run("C:/long.exe", 0)
	k.Run("C:/low.exe", 5)

	// WHEN three ticks pass with pid 1 READY
	for i := 0; i < 3; i++ {
		m.Clock.Tick()
	}

	// THEN its age dropped once per tick and its ready time was counted
	sched, ok := k.Scheduler().(*PriorityScheduler)
	require.True(t, ok)
	age, ok := sched.Age(1)
	require.True(t, ok)
	assert.Equal(t, 2, age)
	assert.Equal(t, int64(3), mustGet(t, k, 1).ReadyTicks)
}

func TestKernel_ExitAfterIO_TakesTheResumeTick(t *testing.T) {
	// GIVEN a program whose I/O instruction is followed directly by EXIT
	k, m := newTestKernel(t, smallMachine, SchedulerConfig{Name: "fcfs"})
	k.FileStore().Write("C:/io.exe", NewProgram(hw.IO()))
	k.Run("C:/io.exe", 0)

	// WHEN it runs to completion
	ticks := runUntilIdle(t, k, m)

	// THEN EXIT is fetched in the tick the I/O completes, like a CPU instruction would be
	assert.Equal(t, int64(3), mustGet(t, k, 0).FinishedAt)
	assert.Equal(t, int64(4), ticks)
	assert.Equal(t, int64(3), mustGet(t, k, 0).IOTicks)
}
