package trace

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ProcessSummary counts the ticks a process spent in each state.
type ProcessSummary struct {
	PID          int
	Path         string
	RunningTicks int
	ReadyTicks   int
	WaitingTicks int
	FirstRunTick int64 // -1 if the process never ran
	FinishTick   int64 // first tick it was seen TERMINATED, -1 if never
}

// TraceSummary aggregates statistics from recorded snapshots.
type TraceSummary struct {
	Ticks     int
	Processes []ProcessSummary // ordered by first appearance
	IdleTicks int              // ticks in which no process was RUNNING
}

// Summarize computes per-process statistics from the snapshots of a Gantt.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(g *Gantt) *TraceSummary {
	summary := &TraceSummary{}
	if g == nil {
		return summary
	}

	index := make(map[int]int)
	for _, rec := range g.records {
		summary.Ticks++
		running := false
		for _, s := range rec.States {
			i, ok := index[s.PID]
			if !ok {
				i = len(summary.Processes)
				index[s.PID] = i
				summary.Processes = append(summary.Processes, ProcessSummary{
					PID: s.PID, Path: s.Path, FirstRunTick: -1, FinishTick: -1,
				})
			}
			p := &summary.Processes[i]
			switch s.State {
			case "RUNNING":
				running = true
				p.RunningTicks++
				if p.FirstRunTick < 0 {
					p.FirstRunTick = rec.Tick
				}
			case "READY":
				p.ReadyTicks++
			case "WAITING":
				p.WaitingTicks++
			case "TERMINATED":
				if p.FinishTick < 0 {
					p.FinishTick = rec.Tick
				}
			}
		}
		if !running {
			summary.IdleTicks++
		}
	}
	return summary
}

// Print writes CPU utilisation and per-process first-run and finish ticks.
func (s *TraceSummary) Print(w io.Writer) {
	color.New(color.Bold).Fprintln(w, "=== Trace Summary ===")
	busy := 0.0
	if s.Ticks > 0 {
		busy = 100 * float64(s.Ticks-s.IdleTicks) / float64(s.Ticks)
	}
	fmt.Fprintf(w, "Traced Ticks         : %d (idle %d, cpu busy %.1f%%)\n", s.Ticks, s.IdleTicks, busy)
	for _, p := range s.Processes {
		fmt.Fprintf(w, "pid %-3d %-16s first run %s, finished %s, running %d, ready %d, waiting %d\n",
			p.PID, p.Path, tickOrDash(p.FirstRunTick), tickOrDash(p.FinishTick),
			p.RunningTicks, p.ReadyTicks, p.WaitingTicks)
	}
}

func tickOrDash(tick int64) string {
	if tick < 0 {
		return "-"
	}
	return fmt.Sprint(tick)
}
