package hw

import "fmt"

// MachineConfig describes the hardware to build.
type MachineConfig struct {
	MemorySize  int    `yaml:"memory_size"` // physical memory cells (must be > 0)
	FrameSize   int    `yaml:"frame_size"`  // cells per frame (must be > 0 and <= MemorySize)
	IOLatency   int    `yaml:"io_latency"`  // ticks per I/O operation (values < 1 become 1)
	DeviceID    string `yaml:"device_id"`   // name of the I/O device
	EnableStats bool   `yaml:"-"`           // raise STAT once per tick
}

// Machine bundles the hardware components of one simulation. It replaces a
// process-wide hardware singleton: every kernel gets its own machine.
type Machine struct {
	Clock    *Clock
	CPU      *CPU
	Timer    *Timer
	MMU      *MMU
	Memory   *Memory
	IODevice *IODevice
	Vector   *InterruptVector

	statsEnabled bool
}

// NewMachine builds and wires the hardware. Per tick the clock notifies, in
// order: the I/O device, the timer (which ticks the CPU) and the stat probe.
func NewMachine(cfg MachineConfig) *Machine {
	if cfg.MemorySize <= 0 {
		panic(fmt.Sprintf("Machine: MemorySize must be > 0, got %d", cfg.MemorySize))
	}
	if cfg.FrameSize <= 0 || cfg.FrameSize > cfg.MemorySize {
		panic(fmt.Sprintf("Machine: FrameSize must be in (0, %d], got %d", cfg.MemorySize, cfg.FrameSize))
	}
	deviceID := cfg.DeviceID
	if deviceID == "" {
		deviceID = "Printer"
	}
	vector := NewInterruptVector()
	memory := NewMemory(cfg.MemorySize)
	mmu := NewMMU(memory, cfg.FrameSize)
	cpu := NewCPU(mmu, vector)
	m := &Machine{
		Clock:        NewClock(),
		CPU:          cpu,
		Timer:        NewTimer(cpu, vector),
		MMU:          mmu,
		Memory:       memory,
		IODevice:     NewIODevice(deviceID, cfg.IOLatency, vector),
		Vector:       vector,
		statsEnabled: cfg.EnableStats,
	}
	m.Clock.AddSubscriber(m.IODevice)
	m.Clock.AddSubscriber(m.Timer)
	m.Clock.AddSubscriber(TickFunc(m.statTick))
	return m
}

// SetStatsEnabled turns the per-tick STAT interrupt on or off.
func (m *Machine) SetStatsEnabled(enabled bool) {
	m.statsEnabled = enabled
}

func (m *Machine) statTick(tick int64) {
	if m.statsEnabled {
		m.Vector.Handle(IRQ{Kind: KindStat, Payload: tick})
	}
}

func (m *Machine) String() string {
	return fmt.Sprintf("Machine(tick=%d, pc=%d, memory=%d, frame=%d, %v)",
		m.Clock.CurrentTick(), m.CPU.PC(), m.Memory.Size(), m.MMU.FrameSize(), m.IODevice)
}
