package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kernel-sim/kernel-sim/sim/hw"
)

func newTestLoader(memorySize, frameSize int) (*Loader, *MemoryManager, *FileStore, *hw.Memory) {
	mm := NewMemoryManager(memorySize, frameSize)
	fs := NewFileStore()
	mem := hw.NewMemory(memorySize)
	return NewLoader(mm, fs, mem), mm, fs, mem
}

func TestLoader_PagesFor_RoundsUp(t *testing.T) {
	l, _, _, _ := newTestLoader(20, 4)
	assert.Equal(t, 0, l.PagesFor(0))
	assert.Equal(t, 1, l.PagesFor(4))
	assert.Equal(t, 3, l.PagesFor(9))
}

func TestLoader_Load_PagingScenario(t *testing.T) {
	// GIVEN memory 20 with frames of 4 and two 9-instruction programs
	l, mm, fs, _ := newTestLoader(20, 4)
	fs.Write("C:/a.exe", NewProgram(hw.Burst(8)))
	fs.Write("C:/b.exe", NewProgram(hw.Burst(8)))

	// WHEN the first is loaded
	pageTable, ok := l.Load("C:/a.exe")

	// THEN exactly 3 frames are used and 2 remain
	require.True(t, ok)
	assert.Len(t, pageTable, 3)
	assert.Equal(t, 2, mm.FreeFrameCount())

	// WHEN the second needs 3 more frames
	_, ok = l.Load("C:/b.exe")

	// THEN it fails and the 2 free frames are untouched
	assert.False(t, ok)
	assert.Equal(t, 2, mm.FreeFrameCount())
}

func TestLoader_Load_WritesThroughPageTable(t *testing.T) {
	// GIVEN frames 0 and 1 already taken so the program lands in 2 and 3
	l, mm, fs, mem := newTestLoader(16, 4)
	_, _ = mm.AllocFrames(2)
	fs.Write("C:/io.exe", NewProgram(hw.Burst(4), hw.IO()))

	pageTable, ok := l.Load("C:/io.exe")

	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, pageTable)
	for addr := 8; addr < 12; addr++ {
		assert.Equal(t, hw.InstrCPU, mem.Read(addr))
	}
	assert.Equal(t, hw.InstrIO, mem.Read(12))
	assert.Equal(t, hw.InstrExit, mem.Read(13))
}

func TestLoader_Load_UnknownPath(t *testing.T) {
	l, mm, _, _ := newTestLoader(20, 4)
	pageTable, ok := l.Load("C:/missing.exe")
	assert.False(t, ok)
	assert.Nil(t, pageTable)
	assert.Equal(t, 5, mm.FreeFrameCount())
}
