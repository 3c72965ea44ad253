package hw

import "fmt"

// Memory is the flat physical memory, one instruction per cell.
type Memory struct {
	cells []Instruction
}

// NewMemory allocates a physical memory of size cells.
func NewMemory(size int) *Memory {
	if size <= 0 {
		panic(fmt.Sprintf("Memory: size must be > 0, got %d", size))
	}
	return &Memory{cells: make([]Instruction, size)}
}

// Size returns the number of addressable cells.
func (m *Memory) Size() int {
	return len(m.cells)
}

// Write stores instr at the physical address addr.
func (m *Memory) Write(addr int, instr Instruction) {
	m.checkAddr(addr)
	m.cells[addr] = instr
}

// Read returns the instruction stored at the physical address addr.
func (m *Memory) Read(addr int) Instruction {
	m.checkAddr(addr)
	return m.cells[addr]
}

func (m *Memory) checkAddr(addr int) {
	if addr < 0 || addr >= len(m.cells) {
		panic(fmt.Sprintf("Memory: address %d out of range [0, %d)", addr, len(m.cells)))
	}
}
