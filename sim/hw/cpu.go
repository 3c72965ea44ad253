package hw

import "github.com/sirupsen/logrus"

// IdlePC is the program counter value of an idle CPU.
const IdlePC = -1

// CPU executes one instruction per tick of the process whose context the
// dispatcher installed. It raises KILL when the program reaches EXIT and
// IO_IN on I/O instructions.
//
// Exit handling is free after a CPU instruction: when one is followed by
// EXIT, KILL is raised in the same tick. An I/O instruction hands the process
// to the device instead, so an EXIT right after it is fetched when the
// process resumes and uses that tick.
type CPU struct {
	mmu    *MMU
	vector *InterruptVector
	pc     int
	ir     Instruction
}

// NewCPU creates an idle CPU.
func NewCPU(mmu *MMU, vector *InterruptVector) *CPU {
	return &CPU{mmu: mmu, vector: vector, pc: IdlePC}
}

// PC returns the program counter.
func (c *CPU) PC() int { return c.pc }

// SetPC sets the program counter. IdlePC parks the CPU.
func (c *CPU) SetPC(pc int) { c.pc = pc }

// IsBusy reports whether a process context is installed.
func (c *CPU) IsBusy() bool { return c.pc > IdlePC }

// Tick fetches and executes a single instruction.
func (c *CPU) Tick(tick int64) {
	if !c.IsBusy() {
		return
	}
	c.ir = c.mmu.Fetch(c.pc)
	switch {
	case c.ir.IsExit():
		logrus.Debugf("[tick %07d] cpu pc=%d %s", tick, c.pc, c.ir)
		c.vector.Handle(IRQ{Kind: KindKill})
	case c.ir.IsIO():
		logrus.Debugf("[tick %07d] cpu pc=%d %s", tick, c.pc, c.ir)
		c.pc++
		c.vector.Handle(IRQ{Kind: KindIOIn, Payload: c.ir})
	default:
		logrus.Debugf("[tick %07d] cpu pc=%d %s", tick, c.pc, c.ir)
		c.pc++
		if c.mmu.Fetch(c.pc).IsExit() {
			c.vector.Handle(IRQ{Kind: KindKill})
		}
	}
}
