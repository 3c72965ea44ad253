package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scheduler owns the ready set and decides which process runs next.
// The kernel only talks to this contract; every policy difference lives in
// the implementations.
type Scheduler interface {
	// Add puts a READY process into the ready set.
	Add(pcb *PCB)
	// GetNext removes and returns the next process to run. Panics when empty.
	GetNext() *PCB
	// IsEmpty reports whether the ready set is empty.
	IsEmpty() bool
	// MustPreempt reports whether candidate must take the CPU from running.
	MustPreempt(running, candidate *PCB) bool
	// OnTick is called once per tick; priority policies age their ready set.
	OnTick(table *PCBTable)
	// Quantum is the time slice armed on the timer, 0 for none.
	Quantum() int
}

// FCFSScheduler runs processes in arrival order and never preempts.
type FCFSScheduler struct {
	ready ReadyQueue
}

func (s *FCFSScheduler) Add(pcb *PCB) { s.ready.Enqueue(pcb) }

func (s *FCFSScheduler) GetNext() *PCB {
	pcb := s.ready.Dequeue()
	if pcb == nil {
		panic("FCFSScheduler.GetNext: ready queue is empty")
	}
	return pcb
}

func (s *FCFSScheduler) IsEmpty() bool { return s.ready.Len() == 0 }

func (s *FCFSScheduler) MustPreempt(_, _ *PCB) bool { return false }

func (s *FCFSScheduler) OnTick(_ *PCBTable) {}

func (s *FCFSScheduler) Quantum() int { return 0 }

func (s *FCFSScheduler) String() string { return fmt.Sprintf("fcfs%v", &s.ready) }

// RoundRobinScheduler is FCFS plus a time slice. Preemption is driven by
// TIMEOUT interrupts, never by admission.
type RoundRobinScheduler struct {
	FCFSScheduler
	quantum int
}

// NewRoundRobinScheduler creates a round-robin scheduler. Panics if quantum <= 0.
func NewRoundRobinScheduler(quantum int) *RoundRobinScheduler {
	if quantum <= 0 {
		panic(fmt.Sprintf("RoundRobinScheduler: quantum must be > 0, got %d", quantum))
	}
	return &RoundRobinScheduler{quantum: quantum}
}

func (s *RoundRobinScheduler) Quantum() int { return s.quantum }

func (s *RoundRobinScheduler) String() string {
	return fmt.Sprintf("round-robin(q=%d)%v", s.quantum, &s.ready)
}

// agedEntry is a ready process with its effective (aged) priority.
type agedEntry struct {
	pcb *PCB
	age int
	seq uint64 // insertion order, breaks ties between equal ages
}

// PriorityScheduler picks the ready process with the lowest age. A process's
// age starts at its priority when it is added and every AgingInterval ticks
// the age of every READY process drops by one, never below zero, so
// low-priority processes are not starved. Equal ages run in insertion order.
// It never preempts.
type PriorityScheduler struct {
	entries       []agedEntry
	nextSeq       uint64
	agingInterval int // 0 disables aging
	sinceAging    int
}

// NewPriorityScheduler creates a non-preemptive priority scheduler.
func NewPriorityScheduler(agingInterval int) *PriorityScheduler {
	return &PriorityScheduler{agingInterval: max(agingInterval, 0)}
}

func (s *PriorityScheduler) Add(pcb *PCB) {
	if pcb == nil {
		panic("PriorityScheduler.Add: pcb must not be nil")
	}
	s.entries = append(s.entries, agedEntry{pcb: pcb, age: pcb.Priority, seq: s.nextSeq})
	s.nextSeq++
}

func (s *PriorityScheduler) GetNext() *PCB {
	if len(s.entries) == 0 {
		panic("PriorityScheduler.GetNext: ready set is empty")
	}
	best := 0
	for i := 1; i < len(s.entries); i++ {
		e, b := s.entries[i], s.entries[best]
		if e.age < b.age || (e.age == b.age && e.seq < b.seq) {
			best = i
		}
	}
	pcb := s.entries[best].pcb
	s.entries = append(s.entries[:best], s.entries[best+1:]...)
	return pcb
}

func (s *PriorityScheduler) IsEmpty() bool { return len(s.entries) == 0 }

func (s *PriorityScheduler) MustPreempt(_, _ *PCB) bool { return false }

func (s *PriorityScheduler) Quantum() int { return 0 }

// OnTick ages the ready set once every agingInterval ticks.
func (s *PriorityScheduler) OnTick(table *PCBTable) {
	if s.agingInterval == 0 {
		return
	}
	s.sinceAging++
	if s.sinceAging < s.agingInterval {
		return
	}
	s.sinceAging = 0
	for i := range s.entries {
		e := &s.entries[i]
		if pcb, ok := table.Get(e.pcb.PID); ok && pcb.State() == StateReady && e.age > 0 {
			e.age--
		}
	}
	logrus.Debugf("Aged ready set: %v", s)
}

// Age returns the effective priority of a ready process.
func (s *PriorityScheduler) Age(pid int) (int, bool) {
	for _, e := range s.entries {
		if e.pcb.PID == pid {
			return e.age, true
		}
	}
	return 0, false
}

func (s *PriorityScheduler) String() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = fmt.Sprintf("%d:%d", e.pcb.PID, e.age)
	}
	return fmt.Sprintf("priority%v", parts)
}

// PreemptivePriorityScheduler is a PriorityScheduler where a candidate with
// a strictly more urgent original priority takes the CPU immediately.
type PreemptivePriorityScheduler struct {
	PriorityScheduler
}

// NewPreemptivePriorityScheduler creates a preemptive priority scheduler.
func NewPreemptivePriorityScheduler(agingInterval int) *PreemptivePriorityScheduler {
	return &PreemptivePriorityScheduler{PriorityScheduler: *NewPriorityScheduler(agingInterval)}
}

// MustPreempt compares original priorities, not aged ones.
func (s *PreemptivePriorityScheduler) MustPreempt(running, candidate *PCB) bool {
	return candidate.Priority < running.Priority
}

// SchedulerConfig selects and parameterizes a scheduling policy.
type SchedulerConfig struct {
	Name          string `yaml:"name"`           // see ValidSchedulers
	Quantum       int    `yaml:"quantum"`        // round-robin time slice in ticks
	AgingInterval int    `yaml:"aging_interval"` // priority aging period in ticks, negative disables aging
}

const (
	DefaultQuantum       = 4
	DefaultAgingInterval = 4
)

// ValidSchedulers is the set of recognized scheduler names.
var ValidSchedulers = map[string]bool{
	"":                    true,
	"fcfs":                true,
	"priority":            true,
	"priority-preemptive": true,
	"round-robin":         true,
}

// IsValidScheduler returns true if name is a recognized scheduler.
func IsValidScheduler(name string) bool {
	return ValidSchedulers[name]
}

// NewScheduler creates a Scheduler by name. Empty string defaults to FCFS.
// Zero quantum and aging interval take their defaults.
// Panics on unrecognized names.
func NewScheduler(cfg SchedulerConfig) Scheduler {
	if !IsValidScheduler(cfg.Name) {
		panic(fmt.Sprintf("unknown scheduler %q", cfg.Name))
	}
	quantum := cfg.Quantum
	if quantum == 0 {
		quantum = DefaultQuantum
	}
	aging := cfg.AgingInterval
	if aging == 0 {
		aging = DefaultAgingInterval
	}
	switch cfg.Name {
	case "", "fcfs":
		return &FCFSScheduler{}
	case "priority":
		return NewPriorityScheduler(aging)
	case "priority-preemptive":
		return NewPreemptivePriorityScheduler(aging)
	case "round-robin":
		return NewRoundRobinScheduler(quantum)
	default:
		panic(fmt.Sprintf("unhandled scheduler %q", cfg.Name))
	}
}
