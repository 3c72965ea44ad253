package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kernel-sim/kernel-sim/sim/hw"
	"github.com/kernel-sim/kernel-sim/sim/trace"
)

// Tracer receives one snapshot of every process state per tick.
type Tracer interface {
	CheckTick(tick int64, states []trace.ProcessState)
}

// Kernel owns the running-process slot and wires the machine's interrupts to
// the handlers. It is single-threaded: all state changes happen inside
// handlers, which the machine invokes one at a time from the clock loop.
// Kernel is not safe for concurrent use.
type Kernel struct {
	machine       *hw.Machine
	pcbTable      *PCBTable
	scheduler     Scheduler
	memoryManager *MemoryManager
	fileStore     *FileStore
	loader        *Loader
	dispatcher    *Dispatcher
	ioController  *IOController
	crontab       *Crontab
	tracer        Tracer
	metrics       *Metrics

	running *PCB
}

// NewKernel boots a kernel on machine with the given scheduling policy. It
// registers the interrupt handlers, turns on the per-tick STAT interrupt
// (aging and wait accounting run there), arms the timer with the policy's
// quantum and subscribes the crontab to the clock.
func NewKernel(machine *hw.Machine, scheduler Scheduler) *Kernel {
	if machine == nil || scheduler == nil {
		panic("NewKernel: machine and scheduler must not be nil")
	}
	memoryManager := NewMemoryManager(machine.Memory.Size(), machine.MMU.FrameSize())
	fileStore := NewFileStore()
	k := &Kernel{
		machine:       machine,
		pcbTable:      NewPCBTable(),
		scheduler:     scheduler,
		memoryManager: memoryManager,
		fileStore:     fileStore,
		loader:        NewLoader(memoryManager, fileStore, machine.Memory),
		dispatcher:    NewDispatcher(machine),
		ioController:  NewIOController(machine.IODevice),
		metrics:       NewMetrics(),
	}
	for kind, handler := range DefaultHandlers() {
		k.registerHandler(kind, handler)
	}
	machine.SetStatsEnabled(true)
	machine.Timer.SetQuantum(scheduler.Quantum())
	k.crontab = NewCrontab(k)
	machine.Clock.AddSubscriber(k.crontab)
	logrus.Infof("Kernel booted: %v, %v, scheduler %T", machine, memoryManager, scheduler)
	return k
}

// registerHandler binds handler to this kernel on the interrupt vector.
func (k *Kernel) registerHandler(kind hw.IRQKind, handler InterruptHandler) {
	k.machine.Vector.Register(kind, hw.IRQHandlerFunc(func(irq hw.IRQ) {
		handler.Handle(k, irq)
	}))
}

// SetTracer installs the per-tick tracer. nil disables tracing.
func (k *Kernel) SetTracer(t Tracer) {
	k.tracer = t
}

// Run requests the admission of the program stored at path. It raises a NEW
// interrupt; whether the program was admitted can only be observed later
// through the PCB table.
func (k *Kernel) Run(path string, priority int) {
	k.machine.Vector.Handle(hw.IRQ{Kind: hw.KindNew, Payload: AdmissionRequest{Path: path, Priority: priority}})
}

// Idle reports whether the kernel has nothing left to do: no running or
// ready process, no I/O in flight and no scheduled job pending.
func (k *Kernel) Idle() bool {
	return k.running == nil && k.scheduler.IsEmpty() && k.ioController.Idle() && k.crontab.Pending() == 0
}

func (k *Kernel) RunningPCB() *PCB { return k.running }
func (k *Kernel) PCBTable() *PCBTable { return k.pcbTable }
func (k *Kernel) Scheduler() Scheduler { return k.scheduler }
func (k *Kernel) MemoryManager() *MemoryManager { return k.memoryManager }
func (k *Kernel) FileStore() *FileStore { return k.fileStore }
func (k *Kernel) IOController() *IOController { return k.ioController }
func (k *Kernel) Crontab() *Crontab { return k.crontab }
func (k *Kernel) Metrics() *Metrics { return k.metrics }

func (k *Kernel) now() int64 {
	return k.machine.Clock.CurrentTick()
}

// requireRunning returns the running process. Panics if there is none.
func (k *Kernel) requireRunning(kind hw.IRQKind) *PCB {
	if k.running == nil {
		panic(fmt.Sprintf("Kernel: %s interrupt with no running process", kind))
	}
	return k.running
}

// runPCB installs pcb on the CPU.
func (k *Kernel) runPCB(pcb *PCB) {
	pcb.transition(StateRunning)
	k.running = pcb
	k.dispatcher.Load(pcb)
	k.metrics.ContextSwitches++
	logrus.Infof("[tick %07d] Executing pid %d (%s) from pc %d", k.now(), pcb.PID, pcb.Path, pcb.PC)
}

// runNext leaves the CPU idle, then runs the next ready process if any.
// Used after the running process gave up the CPU (KILL, IO_IN).
func (k *Kernel) runNext() {
	k.dispatcher.Save(nil)
	k.running = nil
	if !k.scheduler.IsEmpty() {
		k.runPCB(k.scheduler.GetNext())
	}
}

// runOrQueue gives pcb the CPU if it is free or if the policy says pcb must
// preempt the running process; otherwise pcb joins the ready set.
func (k *Kernel) runOrQueue(pcb *PCB) {
	if k.running == nil {
		k.runPCB(pcb)
		return
	}
	if k.scheduler.MustPreempt(k.running, pcb) {
		preempted := k.running
		k.dispatcher.Save(preempted)
		preempted.transition(StateReady)
		k.scheduler.Add(preempted)
		k.metrics.AdmissionPreemptions++
		logrus.Infof("[tick %07d] pid %d preempts pid %d", k.now(), pcb.PID, preempted.PID)
		k.runPCB(pcb)
		return
	}
	pcb.transition(StateReady)
	k.scheduler.Add(pcb)
}
