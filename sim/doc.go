// Package sim is the kernel of a single-CPU operating-system simulator.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - pcb.go: process control block, lifecycle states and legal transitions
//   - interrupt.go: the interrupt handlers, i.e. the kernel's state machine
//   - kernel.go: the running-process slot and the run / preempt / next rules
//
// # Architecture
//
// The kernel reacts to interrupts raised by the hardware model in sim/hw:
// NEW (admission), KILL (program end), IO_IN / IO_OUT (device requests and
// completions), TIMEOUT (quantum expiry) and STAT (once per tick). Handlers
// run to completion one at a time; the clock never advances during a handler.
//
// Around the handlers sit the subsystems they mutate:
//   - MemoryManager: fixed-size frame pool
//   - Loader: program -> frames + page table
//   - Dispatcher: CPU context save / restore
//   - Scheduler: ready set and policy (fcfs, priority, priority-preemptive, round-robin)
//   - IOController: FIFO serialization onto the single device
//   - Crontab: admissions deferred to a given tick
//
// Simulation (simulation.go) wires a machine, a kernel and an optional
// sim/trace Gantt chart from a SimConfig and runs them to completion.
package sim
