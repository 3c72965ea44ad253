// Interrupt handlers: the kernel's state machine. Every PCB state change
// happens in one of the handlers below.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kernel-sim/kernel-sim/sim/hw"
)

// InterruptHandler reacts to one interrupt kind. Handlers run to completion
// and never raise interrupts themselves.
type InterruptHandler interface {
	Handle(k *Kernel, irq hw.IRQ)
}

// HandlerFunc adapts a plain function to InterruptHandler.
type HandlerFunc func(k *Kernel, irq hw.IRQ)

func (f HandlerFunc) Handle(k *Kernel, irq hw.IRQ) { f(k, irq) }

// AdmissionRequest is the payload of a NEW interrupt.
type AdmissionRequest struct {
	Path     string
	Priority int
}

// DefaultHandlers returns the handler table installed by NewKernel.
func DefaultHandlers() map[hw.IRQKind]InterruptHandler {
	return map[hw.IRQKind]InterruptHandler{
		hw.KindNew:     HandlerFunc(handleNew),
		hw.KindKill:    HandlerFunc(handleKill),
		hw.KindIOIn:    HandlerFunc(handleIOIn),
		hw.KindIOOut:   HandlerFunc(handleIOOut),
		hw.KindTimeout: HandlerFunc(handleTimeout),
		hw.KindStat:    HandlerFunc(handleStat),
	}
}

func handleNew(k *Kernel, irq hw.IRQ) {
	req, ok := irq.Payload.(AdmissionRequest)
	if !ok {
		panic(fmt.Sprintf("NEW handler: payload %T is not an AdmissionRequest", irq.Payload))
	}
	pageTable, ok := k.loader.Load(req.Path)
	if !ok {
		logrus.Warnf("[tick %07d] Admission of %s rejected", k.now(), req.Path)
		k.metrics.Rejected++
		return
	}
	pcb := newPCB(k.pcbTable.NewPID(), req.Path, req.Priority, pageTable)
	pcb.AdmittedAt = k.now()
	k.pcbTable.Add(pcb)
	k.metrics.Admitted++
	logrus.Infof("[tick %07d] Admitted %v", k.now(), pcb)
	k.runOrQueue(pcb)
}

func handleKill(k *Kernel, _ hw.IRQ) {
	pcb := k.requireRunning(hw.KindKill)
	pcb.transition(StateTerminated)
	pcb.FinishedAt = k.now()
	k.memoryManager.FreeFrames(pcb.PageTable)
	k.metrics.Completed++
	logrus.Infof("[tick %07d] Program finished: pid %d (%s)", k.now(), pcb.PID, pcb.Path)
	k.runNext()
}

func handleIOIn(k *Kernel, irq hw.IRQ) {
	instr, ok := irq.Payload.(hw.Instruction)
	if !ok {
		panic(fmt.Sprintf("IO_IN handler: payload %T is not an instruction", irq.Payload))
	}
	pcb := k.requireRunning(hw.KindIOIn)
	k.dispatcher.Save(pcb)
	pcb.transition(StateWaiting)
	k.ioController.RunOperation(pcb, instr)
	k.metrics.IOOperations++
	logrus.Infof("[tick %07d] pid %d waiting on I/O, %d queued behind the device",
		k.now(), pcb.PID, k.ioController.WaitingLen())
	logrus.Debugf("[tick %07d] %v", k.now(), k.ioController)
	k.runNext()
}

func handleIOOut(k *Kernel, _ hw.IRQ) {
	pcb := k.ioController.GetFinishedPCB()
	if pcb == nil {
		panic("IO_OUT handler: no operation was in service")
	}
	logrus.Debugf("[tick %07d] %v", k.now(), k.ioController)
	k.runOrQueue(pcb)
}

func handleTimeout(k *Kernel, _ hw.IRQ) {
	running := k.requireRunning(hw.KindTimeout)
	if k.scheduler.IsEmpty() {
		return
	}
	k.dispatcher.Save(running)
	running.transition(StateReady)
	next := k.scheduler.GetNext()
	k.scheduler.Add(running)
	k.metrics.TimeoutPreemptions++
	logrus.Infof("[tick %07d] Quantum expired: pid %d -> pid %d", k.now(), running.PID, next.PID)
	k.runPCB(next)
}

func handleStat(k *Kernel, irq hw.IRQ) {
	tick, ok := irq.Payload.(int64)
	if !ok {
		tick = k.now()
	}
	k.scheduler.OnTick(k.pcbTable)
	for _, pcb := range k.pcbTable.All() {
		switch pcb.State() {
		case StateReady:
			pcb.ReadyTicks++
		case StateWaiting:
			pcb.IOTicks++
		}
	}
	if k.tracer != nil {
		k.tracer.CheckTick(tick, k.pcbTable.Snapshot())
	}
}
