package hw

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// IRQKind tags an interrupt.
type IRQKind string

const (
	KindNew     IRQKind = "#NEW"
	KindKill    IRQKind = "#KILL"
	KindIOIn    IRQKind = "#IO_IN"
	KindIOOut   IRQKind = "#IO_OUT"
	KindTimeout IRQKind = "#TIMEOUT"
	KindStat    IRQKind = "#STAT"
)

// IRQ is an interrupt request: a kind plus an opaque payload.
// Payload is nil for interrupts that carry nothing.
type IRQ struct {
	Kind    IRQKind
	Payload any
}

func (irq IRQ) String() string {
	if irq.Payload == nil {
		return fmt.Sprintf("IRQ(%s)", irq.Kind)
	}
	return fmt.Sprintf("IRQ(%s, %v)", irq.Kind, irq.Payload)
}

// IRQHandler handles one delivered interrupt to completion.
type IRQHandler interface {
	Handle(irq IRQ)
}

// IRQHandlerFunc adapts a plain function to IRQHandler.
type IRQHandlerFunc func(irq IRQ)

func (f IRQHandlerFunc) Handle(irq IRQ) { f(irq) }

// InterruptVector maps interrupt kinds to their handlers and delivers IRQs
// synchronously: Handle returns only after the handler has finished.
type InterruptVector struct {
	handlers map[IRQKind]IRQHandler
}

// NewInterruptVector creates an empty vector.
func NewInterruptVector() *InterruptVector {
	return &InterruptVector{handlers: make(map[IRQKind]IRQHandler)}
}

// Register installs the handler for kind, replacing any previous one.
func (v *InterruptVector) Register(kind IRQKind, handler IRQHandler) {
	if handler == nil {
		panic(fmt.Sprintf("InterruptVector.Register: nil handler for %s", kind))
	}
	v.handlers[kind] = handler
}

// Handle delivers irq to its registered handler.
// Panics if no handler is registered for the kind.
func (v *InterruptVector) Handle(irq IRQ) {
	handler, ok := v.handlers[irq.Kind]
	if !ok {
		panic(fmt.Sprintf("InterruptVector: no handler registered for %s", irq.Kind))
	}
	logrus.Debugf("<< %v", irq)
	handler.Handle(irq)
}
