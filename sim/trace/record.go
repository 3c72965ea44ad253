// Package trace records per-tick process-state snapshots and renders them as
// a Gantt chart. This package has no dependencies on sim/: it stores pure
// data types keyed by process id.
package trace

// ProcessState is one process's state at a given tick.
type ProcessState struct {
	PID   int
	Path  string
	State string // NEW, READY, RUNNING, WAITING or TERMINATED
}

// TickRecord is the state of every process at the end of one tick.
type TickRecord struct {
	Tick   int64
	States []ProcessState
}
