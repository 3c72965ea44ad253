package hw

import "fmt"

// MMU translates logical addresses through the page table of the process
// currently installed by the dispatcher.
type MMU struct {
	memory    *Memory
	frameSize int
	pages     map[int]int // page -> frame
}

// NewMMU creates an MMU over memory with the given frame size.
func NewMMU(memory *Memory, frameSize int) *MMU {
	if frameSize <= 0 {
		panic(fmt.Sprintf("MMU: frameSize must be > 0, got %d", frameSize))
	}
	return &MMU{memory: memory, frameSize: frameSize, pages: make(map[int]int)}
}

// FrameSize returns the number of cells per frame (and per page).
func (m *MMU) FrameSize() int {
	return m.frameSize
}

// Reset drops every installed page mapping.
func (m *MMU) Reset() {
	clear(m.pages)
}

// SetPageFrame maps a logical page onto a physical frame.
func (m *MMU) SetPageFrame(page, frame int) {
	m.pages[page] = frame
}

// Translate converts a logical address into a physical one.
// Panics when the page is not mapped: page faults are not modelled.
func (m *MMU) Translate(logicalAddr int) int {
	if logicalAddr < 0 {
		panic(fmt.Sprintf("MMU: negative logical address %d", logicalAddr))
	}
	page := logicalAddr / m.frameSize
	offset := logicalAddr % m.frameSize
	frame, ok := m.pages[page]
	if !ok {
		panic(fmt.Sprintf("MMU: page %d not mapped (logical address %d)", page, logicalAddr))
	}
	return frame*m.frameSize + offset
}

// Fetch reads the instruction at a logical address.
func (m *MMU) Fetch(logicalAddr int) Instruction {
	return m.memory.Read(m.Translate(logicalAddr))
}
