// sim/metrics_utils.go
package sim

import (
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculatePercentile returns the p-th percentile of data, interpolating
// linearly between closest ranks. data must be sorted ascending.
func CalculatePercentile[T IntOrFloat64](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))

	if upperIdx >= n {
		return float64(data[n-1])
	}
	if lowerIdx == upperIdx {
		return float64(data[lowerIdx])
	}
	lowerVal := float64(data[lowerIdx])
	upperVal := float64(data[upperIdx])
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}

// CalculateMean returns the arithmetic mean of numbers, 0 when empty.
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}
	return sum / float64(len(numbers))
}

// ProcessResult is the per-process section of the results file.
type ProcessResult struct {
	PID        int    `yaml:"pid"`
	Path       string `yaml:"path"`
	Priority   int    `yaml:"priority"`
	State      string `yaml:"state"`
	AdmittedAt int64  `yaml:"admitted_at"`
	FinishedAt int64  `yaml:"finished_at"`
	Turnaround int64  `yaml:"turnaround,omitempty"`
	ReadyTicks int64  `yaml:"ready_ticks"`
	IOTicks    int64  `yaml:"io_ticks"`
}

// MetricsOutput is the layout of the results file.
type MetricsOutput struct {
	Ticks                int64           `yaml:"ticks"`
	Admitted             int             `yaml:"admitted"`
	Rejected             int             `yaml:"rejected"`
	Completed            int             `yaml:"completed"`
	ContextSwitches      int             `yaml:"context_switches"`
	AdmissionPreemptions int             `yaml:"admission_preemptions"`
	TimeoutPreemptions   int             `yaml:"timeout_preemptions"`
	IOOperations         int             `yaml:"io_operations"`
	TurnaroundMean       float64         `yaml:"turnaround_mean"`
	TurnaroundP90        float64         `yaml:"turnaround_p90"`
	Processes            []ProcessResult `yaml:"processes"`
}

// Output assembles the results for table.
func (m *Metrics) Output(table *PCBTable) MetricsOutput {
	out := MetricsOutput{
		Ticks:                m.Ticks,
		Admitted:             m.Admitted,
		Rejected:             m.Rejected,
		Completed:            m.Completed,
		ContextSwitches:      m.ContextSwitches,
		AdmissionPreemptions: m.AdmissionPreemptions,
		TimeoutPreemptions:   m.TimeoutPreemptions,
		IOOperations:         m.IOOperations,
	}
	if table == nil {
		return out
	}
	turnarounds := turnaroundsOf(table)
	out.TurnaroundMean = CalculateMean(turnarounds)
	out.TurnaroundP90 = CalculatePercentile(turnarounds, 90)
	for _, pcb := range table.All() {
		r := ProcessResult{
			PID:        pcb.PID,
			Path:       pcb.Path,
			Priority:   pcb.Priority,
			State:      string(pcb.State()),
			AdmittedAt: pcb.AdmittedAt,
			FinishedAt: pcb.FinishedAt,
			ReadyTicks: pcb.ReadyTicks,
			IOTicks:    pcb.IOTicks,
		}
		if pcb.FinishedAt >= 0 {
			r.Turnaround = pcb.FinishedAt - pcb.AdmittedAt + 1
		}
		out.Processes = append(out.Processes, r)
	}
	return out
}

// SaveResults writes the results for table to fileName as YAML.
func (m *Metrics) SaveResults(fileName string, table *PCBTable) error {
	data, err := yaml.Marshal(m.Output(table))
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(fileName, data, 0o644); err != nil {
		return fmt.Errorf("writing results to %s: %w", fileName, err)
	}
	logrus.Debugf("Successfully wrote to '%s'", fileName)
	return nil
}

// turnaroundsOf returns the sorted turnaround of every terminated process.
func turnaroundsOf(table *PCBTable) []int64 {
	var out []int64
	for _, pcb := range table.All() {
		if pcb.FinishedAt >= 0 {
			out = append(out, pcb.FinishedAt-pcb.AdmittedAt+1)
		}
	}
	slices.Sort(out)
	return out
}
