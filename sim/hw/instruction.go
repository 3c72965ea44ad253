// Package hw models the hardware the kernel runs on: a single CPU with a
// program counter, a clock that drives everything tick by tick, a quantum
// timer, a paging MMU over a flat physical memory, one I/O device and the
// interrupt vector that delivers IRQs to the kernel synchronously.
//
// Nothing in this package knows about processes; the kernel installs page
// tables and program counters and reacts to the interrupts raised here.
package hw

// Instruction is a single instruction token stored in physical memory.
type Instruction string

const (
	InstrCPU  Instruction = "CPU"
	InstrIO   Instruction = "IO"
	InstrExit Instruction = "EXIT"
)

// IsExit reports whether the instruction terminates the program.
func (i Instruction) IsExit() bool { return i == InstrExit }

// IsIO reports whether the instruction must be served by the I/O device.
func (i Instruction) IsIO() bool { return i == InstrIO }

// Burst returns a burst of n CPU instructions.
func Burst(n int) []Instruction {
	burst := make([]Instruction, n)
	for i := range burst {
		burst[i] = InstrCPU
	}
	return burst
}

// IO returns a single I/O instruction.
func IO() []Instruction {
	return []Instruction{InstrIO}
}

// Exit returns the terminal instruction.
func Exit() []Instruction {
	return []Instruction{InstrExit}
}
