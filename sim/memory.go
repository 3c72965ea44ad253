// sim/memory.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// MemoryManager owns the pool of fixed-size physical frames.
// Frames are handed out from the head of the free list and returned to its
// tail, so allocation order is deterministic.
type MemoryManager struct {
	memorySize int
	frameSize  int
	totalFrame int
	free       []int        // free list, head first
	allocated  map[int]bool // frame -> currently owned by a process
}

// NewMemoryManager creates a manager with memorySize/frameSize frames, all free.
func NewMemoryManager(memorySize, frameSize int) *MemoryManager {
	if frameSize <= 0 {
		panic(fmt.Sprintf("MemoryManager: frameSize must be > 0, got %d", frameSize))
	}
	if memorySize < frameSize {
		panic(fmt.Sprintf("MemoryManager: memorySize %d smaller than frameSize %d", memorySize, frameSize))
	}
	total := memorySize / frameSize
	mm := &MemoryManager{
		memorySize: memorySize,
		frameSize:  frameSize,
		totalFrame: total,
		free:       make([]int, total),
		allocated:  make(map[int]bool, total),
	}
	for i := range mm.free {
		mm.free[i] = i
	}
	return mm
}

// FrameSize returns the number of cells per frame.
func (mm *MemoryManager) FrameSize() int { return mm.frameSize }

// TotalFrames returns the size of the frame pool.
func (mm *MemoryManager) TotalFrames() int { return mm.totalFrame }

// FreeFrameCount returns the number of frames not owned by any process.
func (mm *MemoryManager) FreeFrameCount() int { return len(mm.free) }

// UsedFrameCount returns the number of frames owned by processes.
func (mm *MemoryManager) UsedFrameCount() int { return len(mm.allocated) }

// AllocFrames removes n frames from the pool. When fewer than n frames are
// free it returns false and leaves the pool untouched.
func (mm *MemoryManager) AllocFrames(n int) ([]int, bool) {
	if n < 0 {
		panic(fmt.Sprintf("MemoryManager: AllocFrames(%d)", n))
	}
	if n > len(mm.free) {
		logrus.Debugf("Not enough frames available: requested %d, free %d", n, len(mm.free))
		return nil, false
	}
	frames := make([]int, n)
	copy(frames, mm.free[:n])
	mm.free = mm.free[n:]
	for _, f := range frames {
		mm.allocated[f] = true
	}
	return frames, true
}

// FreeFrames returns frames to the pool.
// Panics if any of them is not currently allocated (double free).
func (mm *MemoryManager) FreeFrames(frames []int) {
	for _, f := range frames {
		if !mm.allocated[f] {
			panic(fmt.Sprintf("MemoryManager: freeing frame %d which is not allocated", f))
		}
	}
	for _, f := range frames {
		delete(mm.allocated, f)
		mm.free = append(mm.free, f)
	}
}

func (mm *MemoryManager) String() string {
	return fmt.Sprintf("MemoryManager(frames: %d/%d free, frameSize: %d)", len(mm.free), mm.totalFrame, mm.frameSize)
}
