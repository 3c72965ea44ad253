package trace

// TraceLevel controls what the simulation traces.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelGantt records a snapshot per tick and renders a Gantt chart.
	TraceLevelGantt TraceLevel = "gantt"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelGantt: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level   TraceLevel `yaml:"level"`
	NoColor bool       `yaml:"no_color"` // plain characters instead of ANSI colours
}

// Enabled reports whether any tracing is requested.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelGantt
}
