package hw

// recorder collects delivered interrupts in order.
type recorder struct {
	irqs []IRQ
}

func (r *recorder) Handle(irq IRQ) { r.irqs = append(r.irqs, irq) }

func (r *recorder) kinds() []IRQKind {
	out := make([]IRQKind, len(r.irqs))
	for i, irq := range r.irqs {
		out[i] = irq.Kind
	}
	return out
}

// newRecordingVector registers rec for every kind.
func newRecordingVector(rec *recorder) *InterruptVector {
	v := NewInterruptVector()
	for _, k := range []IRQKind{KindNew, KindKill, KindIOIn, KindIOOut, KindTimeout, KindStat} {
		v.Register(k, rec)
	}
	return v
}

// loadProgram writes program into memory starting at frame 0 and maps
// pages one-to-one.
func loadProgram(mmu *MMU, mem *Memory, program []Instruction) {
	for i, instr := range program {
		mem.Write(i, instr)
	}
	pages := (len(program) + mmu.FrameSize() - 1) / mmu.FrameSize()
	for p := 0; p < pages; p++ {
		mmu.SetPageFrame(p, p)
	}
}
