package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager_FrameCount(t *testing.T) {
	mm := NewMemoryManager(20, 4)
	assert.Equal(t, 5, mm.TotalFrames())
	assert.Equal(t, 5, mm.FreeFrameCount())
	assert.Equal(t, 0, mm.UsedFrameCount())
}

func TestMemoryManager_AllocFrames_FromHeadInOrder(t *testing.T) {
	mm := NewMemoryManager(20, 4)

	frames, ok := mm.AllocFrames(3)

	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, frames)
	assert.Equal(t, 2, mm.FreeFrameCount())
}

func TestMemoryManager_AllocFrames_InsufficientLeavesPoolUntouched(t *testing.T) {
	// GIVEN 2 of 5 frames free
	mm := NewMemoryManager(20, 4)
	_, ok := mm.AllocFrames(3)
	require.True(t, ok)

	// WHEN 3 more frames are requested
	frames, ok := mm.AllocFrames(3)

	// THEN the request fails and nothing changed
	assert.False(t, ok)
	assert.Nil(t, frames)
	assert.Equal(t, 2, mm.FreeFrameCount())
	assert.Equal(t, 3, mm.UsedFrameCount())
}

func TestMemoryManager_FreeFrames_ConservesTotal(t *testing.T) {
	// GIVEN a sequence of allocations and frees
	mm := NewMemoryManager(32, 4)
	a, _ := mm.AllocFrames(3)
	b, _ := mm.AllocFrames(2)
	mm.FreeFrames(a)
	c, _ := mm.AllocFrames(4)
	mm.FreeFrames(b)

	// THEN free + used always equals the total
	assert.Equal(t, mm.TotalFrames(), mm.FreeFrameCount()+mm.UsedFrameCount())
	assert.Equal(t, 4, mm.UsedFrameCount())

	// AND freed frames went to the tail of the free list
	assert.Equal(t, []int{5, 6, 7, 0}, c)
}

func TestMemoryManager_DoubleFree_Panics(t *testing.T) {
	mm := NewMemoryManager(8, 4)
	frames, _ := mm.AllocFrames(1)
	mm.FreeFrames(frames)

	assert.PanicsWithValue(t, "MemoryManager: freeing frame 0 which is not allocated", func() {
		mm.FreeFrames(frames)
	})
	assert.Equal(t, 2, mm.FreeFrameCount())
}

func TestNewMemoryManager_InvalidSizes_Panic(t *testing.T) {
	assert.Panics(t, func() { NewMemoryManager(8, 0) })
	assert.Panics(t, func() { NewMemoryManager(2, 4) })
}
