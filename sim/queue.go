// Implements the ReadyQueue, the FIFO ready set used by the FCFS and
// round-robin schedulers.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is a FIFO queue of READY processes.
type ReadyQueue struct {
	queue []*PCB
}

// Enqueue adds a process to the back of the queue.
func (rq *ReadyQueue) Enqueue(pcb *PCB) {
	if pcb == nil {
		panic("ReadyQueue.Enqueue: pcb must not be nil")
	}
	rq.queue = append(rq.queue, pcb)
}

// Dequeue removes and returns the process at the front of the queue.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Dequeue() *PCB {
	if len(rq.queue) == 0 {
		return nil
	}
	pcb := rq.queue[0]
	rq.queue[0] = nil
	rq.queue = rq.queue[1:]
	return pcb
}

// Len returns the number of queued processes.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, pcb := range rq.queue {
		sb.WriteString(fmt.Sprint(pcb.PID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
