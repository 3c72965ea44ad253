package hw

import "github.com/sirupsen/logrus"

// Timer sits between the clock and the CPU and raises TIMEOUT once the
// running process has used up its quantum. A quantum of zero disables it.
type Timer struct {
	cpu     *CPU
	vector  *InterruptVector
	quantum int
	elapsed int // busy ticks since the last reset
}

// NewTimer creates an inactive timer driving cpu.
func NewTimer(cpu *CPU, vector *InterruptVector) *Timer {
	return &Timer{cpu: cpu, vector: vector}
}

// SetQuantum arms the timer with a quantum in ticks. Zero deactivates it.
func (t *Timer) SetQuantum(quantum int) {
	if quantum < 0 {
		quantum = 0
	}
	t.quantum = quantum
	t.elapsed = 0
}

// Quantum returns the configured quantum.
func (t *Timer) Quantum() int { return t.quantum }

// Active reports whether the timer raises TIMEOUT at all.
func (t *Timer) Active() bool { return t.quantum > 0 }

// Elapsed returns the busy ticks counted since the last reset.
func (t *Timer) Elapsed() int { return t.elapsed }

// Reset restarts the quantum count. Called on every context load.
func (t *Timer) Reset() {
	t.elapsed = 0
}

// Tick raises TIMEOUT if the quantum expired and then ticks the CPU.
func (t *Timer) Tick(tick int64) {
	if t.Active() && t.cpu.IsBusy() && t.elapsed >= t.quantum {
		logrus.Debugf("[tick %07d] quantum of %d ticks expired", tick, t.quantum)
		t.elapsed = 0
		t.vector.Handle(IRQ{Kind: KindTimeout})
	}
	if t.cpu.IsBusy() {
		// counted before the CPU runs so a context loaded during this tick starts at zero
		t.elapsed++
	}
	t.cpu.Tick(tick)
}
