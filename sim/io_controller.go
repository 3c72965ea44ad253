package sim

import (
	"fmt"

	"github.com/kernel-sim/kernel-sim/sim/hw"
)

// IODevice is the part of the hardware device the controller drives.
type IODevice interface {
	ID() string
	IsIdle() bool
	Execute(instr hw.Instruction)
}

// ioRequest is a process waiting for the device with the instruction to serve.
type ioRequest struct {
	pcb   *PCB
	instr hw.Instruction
}

// IOController serializes requests onto a single device: one operation in
// service, the rest waiting in FIFO order.
type IOController struct {
	device  IODevice
	waiting []ioRequest
	current *PCB
}

// NewIOController creates a controller for device.
func NewIOController(device IODevice) *IOController {
	return &IOController{device: device}
}

// RunOperation queues instr on behalf of pcb and starts it if the device is idle.
func (c *IOController) RunOperation(pcb *PCB, instr hw.Instruction) {
	c.waiting = append(c.waiting, ioRequest{pcb: pcb, instr: instr})
	c.dispatch()
}

// GetFinishedPCB returns the owner of the operation that just completed and
// starts the next waiting one. Returns nil if no operation was in service.
func (c *IOController) GetFinishedPCB() *PCB {
	finished := c.current
	c.current = nil
	c.dispatch()
	return finished
}

// Idle reports whether no operation is in service or waiting.
func (c *IOController) Idle() bool {
	return c.current == nil && len(c.waiting) == 0
}

// WaitingLen returns the number of queued operations, excluding the one in service.
func (c *IOController) WaitingLen() int {
	return len(c.waiting)
}

// Current returns the owner of the operation in service, or nil.
func (c *IOController) Current() *PCB {
	return c.current
}

func (c *IOController) dispatch() {
	if c.current != nil || len(c.waiting) == 0 || !c.device.IsIdle() {
		return
	}
	next := c.waiting[0]
	c.waiting = c.waiting[1:]
	c.current = next.pcb
	c.device.Execute(next.instr)
}

func (c *IOController) String() string {
	pids := make([]int, len(c.waiting))
	for i, r := range c.waiting {
		pids[i] = r.pcb.PID
	}
	current := "none"
	if c.current != nil {
		current = fmt.Sprint(c.current.PID)
	}
	return fmt.Sprintf("IOController(%s, running: %s, waiting: %v)", c.device.ID(), current, pids)
}
