package hw

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// IODevice serves one instruction at a time. Each operation keeps the device
// busy for Latency ticks, after which it becomes idle and raises IO_OUT.
type IODevice struct {
	id        string
	latency   int
	vector    *InterruptVector
	busy      bool
	remaining int
	current   Instruction
}

// NewIODevice creates an idle device. Latencies below one tick are raised to one.
func NewIODevice(id string, latency int, vector *InterruptVector) *IODevice {
	return &IODevice{id: id, latency: max(latency, 1), vector: vector}
}

// ID returns the device identifier.
func (d *IODevice) ID() string { return d.id }

// Latency returns the number of ticks an operation takes.
func (d *IODevice) Latency() int { return d.latency }

// IsIdle reports whether the device can accept an operation.
func (d *IODevice) IsIdle() bool { return !d.busy }

// Execute starts serving instr. Panics if the device is busy.
func (d *IODevice) Execute(instr Instruction) {
	if d.busy {
		panic(fmt.Sprintf("IODevice %s: Execute(%s) while busy with %s", d.id, instr, d.current))
	}
	d.busy = true
	d.remaining = d.latency
	d.current = instr
}

// Tick advances the operation in service, raising IO_OUT when it finishes.
func (d *IODevice) Tick(tick int64) {
	if !d.busy {
		return
	}
	d.remaining--
	if d.remaining > 0 {
		return
	}
	logrus.Debugf("[tick %07d] %s finished %s", tick, d.id, d.current)
	d.busy = false
	d.vector.Handle(IRQ{Kind: KindIOOut, Payload: d.current})
}

func (d *IODevice) String() string {
	if d.busy {
		return fmt.Sprintf("%s(busy %s, %d ticks left)", d.id, d.current, d.remaining)
	}
	return fmt.Sprintf("%s(idle)", d.id)
}
