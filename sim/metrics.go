// Tracks simulation-wide counters and per-process turnaround for the final report.

package sim

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Metrics aggregates statistics about a kernel run.
type Metrics struct {
	Admitted             int   // Programs admitted (PCB created)
	Rejected             int   // Admission requests dropped by the loader
	Completed            int   // Processes terminated
	ContextSwitches      int   // Context loads performed by the dispatcher
	AdmissionPreemptions int   // Running processes preempted by a more urgent arrival
	TimeoutPreemptions   int   // Running processes preempted at quantum expiry
	IOOperations         int   // I/O instructions handed to the controller
	Ticks                int64 // Simulated ticks
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Print writes the aggregated metrics and one line per process to w.
func (m *Metrics) Print(w io.Writer, table *PCBTable) {
	header := color.New(color.Bold)
	header.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulated Ticks      : %d\n", m.Ticks)
	fmt.Fprintf(w, "Admitted / Rejected  : %d / %d\n", m.Admitted, m.Rejected)
	fmt.Fprintf(w, "Completed            : %d\n", m.Completed)
	fmt.Fprintf(w, "Context Switches     : %d\n", m.ContextSwitches)
	fmt.Fprintf(w, "Preemptions          : %d (admission %d, timeout %d)\n",
		m.AdmissionPreemptions+m.TimeoutPreemptions, m.AdmissionPreemptions, m.TimeoutPreemptions)
	fmt.Fprintf(w, "I/O Operations       : %d\n", m.IOOperations)
	if table == nil || table.Len() == 0 {
		return
	}

	var readyWaits []int64
	header.Fprintln(w, "=== Processes ===")
	for _, pcb := range table.All() {
		if pcb.FinishedAt < 0 {
			fmt.Fprintf(w, "pid %-3d %-16s %-10s ready %d ticks, io %d ticks\n",
				pcb.PID, pcb.Path, pcb.State(), pcb.ReadyTicks, pcb.IOTicks)
			continue
		}
		readyWaits = append(readyWaits, pcb.ReadyTicks)
		fmt.Fprintf(w, "pid %-3d %-16s turnaround %d ticks, ready %d ticks, io %d ticks\n",
			pcb.PID, pcb.Path, pcb.FinishedAt-pcb.AdmittedAt+1, pcb.ReadyTicks, pcb.IOTicks)
	}
	if turnarounds := turnaroundsOf(table); len(turnarounds) > 0 {
		fmt.Fprintf(w, "Average Turnaround   : %.2f ticks\n", CalculateMean(turnarounds))
		fmt.Fprintf(w, "P90 Turnaround       : %.2f ticks\n", CalculatePercentile(turnarounds, 90))
		fmt.Fprintf(w, "Average Ready Wait   : %.2f ticks\n", CalculateMean(readyWaits))
	}
}
