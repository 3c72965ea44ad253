// Defines the process control block, its lifecycle state machine and the
// PCB table that owns process ids.

package sim

import (
	"fmt"
	"sort"

	"github.com/kernel-sim/kernel-sim/sim/trace"
)

// State is the lifecycle state of a process.
type State string

const (
	StateNew        State = "NEW"
	StateReady      State = "READY"
	StateRunning    State = "RUNNING"
	StateWaiting    State = "WAITING"
	StateTerminated State = "TERMINATED"
)

// legalTransitions lists, for each state, the states it may move to.
// TERMINATED is final.
var legalTransitions = map[State]map[State]bool{
	StateNew:     {StateReady: true, StateRunning: true},
	StateReady:   {StateRunning: true},
	StateRunning: {StateReady: true, StateWaiting: true, StateTerminated: true},
	StateWaiting: {StateReady: true, StateRunning: true},
}

// CanTransition reports whether a process may move from one state to another.
func CanTransition(from, to State) bool {
	return legalTransitions[from][to]
}

// PCB is the kernel's record of one admitted program.
type PCB struct {
	PID       int    // Unique, assigned by the PCB table
	Path      string // Path the program was loaded from
	PC        int    // Saved program counter (logical address)
	Priority  int    // Lower value = more urgent
	PageTable []int  // Frame of each logical page; index = page number

	state State

	AdmittedAt int64 // Tick at which the process was admitted
	FinishedAt int64 // Tick at which the process terminated (-1 while alive)
	ReadyTicks int64 // Ticks observed in READY
	IOTicks    int64 // Ticks observed in WAITING
}

func newPCB(pid int, path string, priority int, pageTable []int) *PCB {
	return &PCB{
		PID:        pid,
		Path:       path,
		Priority:   priority,
		PageTable:  pageTable,
		state:      StateNew,
		FinishedAt: -1,
	}
}

// State returns the current lifecycle state.
func (p *PCB) State() State {
	return p.state
}

// transition moves the PCB to state to. Only interrupt handlers call it.
// Panics on an illegal transition.
func (p *PCB) transition(to State) {
	if !CanTransition(p.state, to) {
		panic(fmt.Sprintf("PCB %d: illegal transition %s -> %s", p.PID, p.state, to))
	}
	p.state = to
}

func (p *PCB) String() string {
	return fmt.Sprintf("PCB(pid: %d, path: %s, state: %s, pc: %d, priority: %d, pages: %v)",
		p.PID, p.Path, p.state, p.PC, p.Priority, p.PageTable)
}

// PCBTable maps process ids to PCBs and issues new ids. PCBs are never
// removed: terminated processes stay for tracing and metrics.
type PCBTable struct {
	table   map[int]*PCB
	nextPID int
}

// NewPCBTable creates an empty table whose first id is 0.
func NewPCBTable() *PCBTable {
	return &PCBTable{table: make(map[int]*PCB)}
}

// NewPID returns a fresh, never used process id.
func (t *PCBTable) NewPID() int {
	pid := t.nextPID
	t.nextPID++
	return pid
}

// Add registers pcb. Panics if its id is already registered.
func (t *PCBTable) Add(pcb *PCB) {
	if _, exists := t.table[pcb.PID]; exists {
		panic(fmt.Sprintf("PCBTable: pid %d already registered", pcb.PID))
	}
	t.table[pcb.PID] = pcb
}

// Get returns the PCB with the given id.
func (t *PCBTable) Get(pid int) (*PCB, bool) {
	pcb, ok := t.table[pid]
	return pcb, ok
}

// Len returns the number of registered PCBs.
func (t *PCBTable) Len() int {
	return len(t.table)
}

// All returns every PCB ordered by pid.
func (t *PCBTable) All() []*PCB {
	pcbs := make([]*PCB, 0, len(t.table))
	for _, pcb := range t.table {
		pcbs = append(pcbs, pcb)
	}
	sort.Slice(pcbs, func(i, j int) bool { return pcbs[i].PID < pcbs[j].PID })
	return pcbs
}

// Snapshot returns the state of every PCB ordered by pid.
func (t *PCBTable) Snapshot() []trace.ProcessState {
	pcbs := t.All()
	states := make([]trace.ProcessState, len(pcbs))
	for i, pcb := range pcbs {
		states[i] = trace.ProcessState{PID: pcb.PID, Path: pcb.Path, State: string(pcb.state)}
	}
	return states
}

// AllTerminated reports whether every registered PCB has terminated.
// An empty table reports false.
func (t *PCBTable) AllTerminated() bool {
	if len(t.table) == 0 {
		return false
	}
	for _, pcb := range t.table {
		if pcb.state != StateTerminated {
			return false
		}
	}
	return true
}
