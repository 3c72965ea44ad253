package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// stateNotation maps process states to their one-character Gantt cell.
var stateNotation = map[string]string{
	"NEW":        "N",
	"READY":      "*",
	"RUNNING":    "R",
	"WAITING":    "W",
	"TERMINATED": "-",
}

var stateColors = map[string]color.Attribute{
	"READY":   color.FgYellow,
	"RUNNING": color.FgGreen,
	"WAITING": color.FgCyan,
}

// Gantt records one snapshot per tick and renders an execution chart (one
// row per tick, one column per process) once every process has terminated
// and the done predicate, if set, holds. After rendering it stops recording.
type Gantt struct {
	out      io.Writer
	records  []TickRecord
	noColor  bool
	rendered bool
	done     func() bool
}

// NewGantt creates a Gantt tracer that renders to out.
func NewGantt(out io.Writer, noColor bool) *Gantt {
	return &Gantt{out: out, noColor: noColor, records: make([]TickRecord, 0)}
}

// RenderWhen defers rendering until done reports true as well. Without it a
// process admitted after every earlier one terminated never reaches the chart.
func (g *Gantt) RenderWhen(done func() bool) {
	g.done = done
}

// CheckTick records a snapshot, and renders the chart when every process
// in it has terminated.
func (g *Gantt) CheckTick(tick int64, states []ProcessState) {
	if g.rendered {
		return
	}
	snapshot := make([]ProcessState, len(states))
	copy(snapshot, states)
	g.records = append(g.records, TickRecord{Tick: tick, States: snapshot})
	if allTerminated(states) && (g.done == nil || g.done()) {
		g.Render()
	}
}

// Records returns the recorded snapshots in tick order.
func (g *Gantt) Records() []TickRecord {
	return g.records
}

// Rendered reports whether the chart has been written.
func (g *Gantt) Rendered() bool {
	return g.rendered
}

// Render writes the chart built from the snapshots recorded so far and stops
// recording. Rendering twice is a no-op.
func (g *Gantt) Render() {
	if g.rendered {
		return
	}
	g.rendered = true

	// every pid that ever appeared becomes a column
	var pids []int
	seen := make(map[int]bool)
	for _, rec := range g.records {
		for _, s := range rec.States {
			if !seen[s.PID] {
				seen[s.PID] = true
				pids = append(pids, s.PID)
			}
		}
	}

	width := len("tick")
	for _, rec := range g.records {
		width = max(width, len(fmt.Sprint(rec.Tick)))
	}
	for _, pid := range pids {
		width = max(width, len(fmt.Sprint(pid)))
	}
	width += 2

	var sb strings.Builder
	sb.WriteString(pad("tick", width))
	for _, pid := range pids {
		sb.WriteString(pad(fmt.Sprint(pid), width))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", width*(len(pids)+1)))
	sb.WriteString("\n")
	for _, rec := range g.records {
		byPID := make(map[int]string, len(rec.States))
		for _, s := range rec.States {
			byPID[s.PID] = s.State
		}
		sb.WriteString(pad(fmt.Sprint(rec.Tick), width))
		for _, pid := range pids {
			sb.WriteString(g.cell(byPID[pid], width))
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(g.out, sb.String())
}

// cell pads before colouring so escape codes do not break the alignment.
func (g *Gantt) cell(state string, width int) string {
	text := pad(stateNotation[state], width)
	attr, ok := stateColors[state]
	if !ok {
		return text
	}
	c := color.New(attr)
	if g.noColor {
		c.DisableColor()
	}
	return c.Sprint(text)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func allTerminated(states []ProcessState) bool {
	if len(states) == 0 {
		return false
	}
	for _, s := range states {
		if s.State != "TERMINATED" {
			return false
		}
	}
	return true
}
