package sim

import "github.com/kernel-sim/kernel-sim/sim/hw"

// Dispatcher switches CPU contexts.
type Dispatcher struct {
	cpu   *hw.CPU
	mmu   *hw.MMU
	timer *hw.Timer
}

// NewDispatcher creates a dispatcher for the machine's CPU, MMU and timer.
func NewDispatcher(machine *hw.Machine) *Dispatcher {
	return &Dispatcher{cpu: machine.CPU, mmu: machine.MMU, timer: machine.Timer}
}

// Load installs pcb's page table and program counter and restarts the
// quantum. The timer is reset on every load; it only fires when a quantum is
// configured.
func (d *Dispatcher) Load(pcb *PCB) {
	d.mmu.Reset()
	for page, frame := range pcb.PageTable {
		d.mmu.SetPageFrame(page, frame)
	}
	d.cpu.SetPC(pcb.PC)
	d.timer.Reset()
}

// Save stores the live program counter into pcb and idles the CPU.
// A nil pcb only idles the CPU.
func (d *Dispatcher) Save(pcb *PCB) {
	if pcb != nil {
		pcb.PC = d.cpu.PC()
	}
	d.cpu.SetPC(hw.IdlePC)
}
